package models

import "time"

// SendReport records the outcome of one campaign dispatch.
type SendReport struct {
	ID             string `json:"id"`
	UseCase        string `json:"use_case"`
	Success        bool   `json:"success"`
	Sent           int    `json:"sent"`
	Failed         int    `json:"failed"`
	Provider       string `json:"provider"` // "simulated" or "twilio"
	IdempotencyKey string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
