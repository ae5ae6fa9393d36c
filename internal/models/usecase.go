package models

import "time"

// UseCaseTemplate is a read-only catalog entry describing one campaign
// type the platform offers. The catalog is static reference data.
type UseCaseTemplate struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Icon                string `json:"icon"`
	DefaultCampaignName string `json:"defaultCampaignName"`
	Template            string `json:"template"`
}

// UseCases is the campaign catalog, in display order.
var UseCases = []UseCaseTemplate{
	{
		ID:                  "wedding",
		Title:               "Promote Wedding",
		Description:         "Invite guests and share venue/time details with a clean RSVP-style message.",
		Icon:                "💍",
		DefaultCampaignName: "Wedding Invitation",
		Template:            "Hello {name}, you’re warmly invited to our wedding celebration! 🎉\nDate: {date}\nTime: {time}\nVenue: {venue}\nRSVP: {rsvp}\n— KABS Promotions",
	},
	{
		ID:                  "event",
		Title:               "Promote Event",
		Description:         "Announce events, tickets, dress code, and reminders to your audience.",
		Icon:                "🎟️",
		DefaultCampaignName: "Event Promo",
		Template:            "Hi {name}! Don’t miss {event_name} 🔥\nDate: {date} • Time: {time}\nLocation: {venue}\nTickets: {link}\nSee you there!",
	},
	{
		ID:                  "community",
		Title:               "Community Update",
		Description:         "Send important announcements and updates to community members.",
		Icon:                "📬",
		DefaultCampaignName: "Community Update",
		Template:            "Hello {name}, quick update from KABS Community:\n{update}\nMore info: {link}\nThank you!",
	},
	{
		ID:                  "marketing",
		Title:               "Marketing Campaign",
		Description:         "Run targeted promotions and special offers with tracking-friendly links.",
		Icon:                "📢",
		DefaultCampaignName: "Marketing Campaign",
		Template:            "Hi {name}! Special offer just for you 🎁\n{offer}\nUse code: {code}\nShop: {link}\nReply STOP to opt out.",
	},
	{
		ID:                  "reminders",
		Title:               "Scheduled Reminder",
		Description:         "Schedule reminders for appointments, meetups, payments, or deadlines.",
		Icon:                "⏰",
		DefaultCampaignName: "Reminder",
		Template:            "Hello {name}, friendly reminder:\n{reminder}\nDate: {date} • Time: {time}\n— KABS Promotions",
	},
}

// FindUseCase looks up a catalog entry by ID.
func FindUseCase(id string) (UseCaseTemplate, bool) {
	for _, uc := range UseCases {
		if uc.ID == id {
			return uc, true
		}
	}
	return UseCaseTemplate{}, false
}

// DefaultDraft builds a fresh draft from the catalog defaults for the
// given use case. Unknown use cases still get a usable generic draft.
func DefaultDraft(useCase string) *Draft {
	campaignName := "Bulk SMS Campaign"
	message := "Hello {name}, your message here."
	if uc, ok := FindUseCase(useCase); ok {
		campaignName = uc.DefaultCampaignName
		message = uc.Template
	}

	return &Draft{
		UseCase:      useCase,
		CampaignName: campaignName,
		SenderID:     "KABS",
		Recipients:   []Recipient{},
		Message:      message,
		ScheduledAt:  nil,
		CreatedAt:    time.Now().UnixMilli(),
		Stage:        StageCompose,
	}
}
