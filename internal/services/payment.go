package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/bulksms"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/utils"
)

// Payment validation errors surfaced to clients as 400 responses.
var (
	ErrMissingPaymentDetails = errors.New("Missing payment details.")
	ErrUnknownPaymentMethod  = errors.New("Unknown payment method.")
	ErrAmountMismatch        = errors.New("Amount does not match the campaign estimate.")
	ErrFlutterwaveInit       = errors.New("Flutterwave init failed")
)

const flutterwavePaymentsURL = "https://api.flutterwave.com/v3/payments"

// PaymentService handles the demo checkout and the hosted Flutterwave
// payment page, and records every attempt.
type PaymentService struct {
	store      storage.Store
	httpClient *http.Client

	secretKey   string
	baseURL     string
	flwEndpoint string
}

// NewPaymentService creates a new payment service
func NewPaymentService(store storage.Store, cfg *config.Config) *PaymentService {
	return &PaymentService{
		store:       store,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		secretKey:   cfg.FlwSecretKey,
		baseURL:     cfg.BaseURL,
		flwEndpoint: flutterwavePaymentsURL,
	}
}

// DemoPaymentRequest is the demo checkout submission.
type DemoPaymentRequest struct {
	UseCase  string  `json:"useCase"`
	Method   string  `json:"method"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ProcessDemoPayment simulates a successful charge. A repeated
// idempotency key returns the original payment instead of a new one.
func (p *PaymentService) ProcessDemoPayment(req DemoPaymentRequest, idempotencyKey string) (*models.Payment, error) {
	if existing, err := p.store.GetPaymentByIdempotencyKey(idempotencyKey); err == nil {
		return existing, nil
	}

	if req.Method == "" || req.Amount == 0 || req.Currency == "" {
		return nil, ErrMissingPaymentDetails
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, ErrUnknownPaymentMethod
	}

	// When the campaign is known, the charge must match the estimate
	// recomputed from the stored draft.
	if draft, err := p.store.GetDraft(req.UseCase); err == nil {
		est := bulksms.EstimateCost(draft)
		if !sameAmount(req.Amount, est.Total) || req.Currency != est.Currency {
			return nil, ErrAmountMismatch
		}
	}

	txID, err := utils.GenerateTxID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &models.Payment{
		UseCase:        req.UseCase,
		Method:         req.Method,
		Amount:         req.Amount,
		Currency:       req.Currency,
		TxRef:          txID,
		Status:         models.PaymentStatusCaptured,
		IdempotencyKey: idempotencyKey,
		CapturedAt:     &now,
	}
	if _, err := p.store.CreatePayment(payment); err != nil {
		return nil, err
	}

	log.Printf("💳 Demo payment captured: %s %s %.2f via %s", payment.TxRef, payment.Currency, payment.Amount, payment.Method)
	return payment, nil
}

// sameAmount compares money values in whole cents so client-side float
// rounding cannot produce a spurious mismatch.
func sameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}

// FlutterwaveStartRequest starts a hosted payment page session.
type FlutterwaveStartRequest struct {
	UseCase  string  `json:"useCase"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
}

type flutterwaveInitResponse struct {
	Status string `json:"status"`
	Data   struct {
		Link string `json:"link"`
	} `json:"data"`
}

// StartFlutterwavePayment initializes a hosted payment and returns the
// redirect URL. The payment is recorded as pending until the webhook
// confirms the charge.
func (p *PaymentService) StartFlutterwavePayment(req FlutterwaveStartRequest) (redirectURL string, txRef string, err error) {
	if req.Amount == 0 {
		return "", "", ErrMissingPaymentDetails
	}

	currency := req.Currency
	if currency == "" {
		currency = "UGX"
	}
	txRef = utils.GenerateFlwTxRef()

	payload := map[string]interface{}{
		"tx_ref":       txRef,
		"amount":       req.Amount,
		"currency":     currency,
		"redirect_url": fmt.Sprintf("%s/bulk-sms/%s/success?provider=flutterwave", p.baseURL, req.UseCase),
		"customer": map[string]string{
			"email": req.Email,
			"name":  req.Name,
		},
		"customizations": map[string]string{
			"title":       "KABS Promotions – Bulk SMS",
			"description": "Bulk SMS Campaign Payment",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, p.flwEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", "", ErrFlutterwaveInit
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", ErrFlutterwaveInit
	}

	var initResp flutterwaveInitResponse
	if err := json.Unmarshal(raw, &initResp); err != nil || initResp.Status != "success" {
		return "", "", ErrFlutterwaveInit
	}

	payment := &models.Payment{
		UseCase:  req.UseCase,
		Method:   models.MethodFlutterwave,
		Amount:   req.Amount,
		Currency: currency,
		TxRef:    txRef,
		Status:   models.PaymentStatusPending,
	}
	if _, err := p.store.CreatePayment(payment); err != nil {
		return "", "", err
	}

	return initResp.Data.Link, txRef, nil
}

// FlutterwaveWebhookEvent is the payload Flutterwave posts back after
// a hosted-page charge settles.
type FlutterwaveWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

// ProcessWebhook applies a Flutterwave webhook to the matching payment
// and returns it. Unhandled events return (nil, nil).
func (p *PaymentService) ProcessWebhook(payload []byte) (*models.Payment, error) {
	var event FlutterwaveWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook: %v", err)
	}

	log.Printf("Processing payment webhook: %s", event.Event)

	if event.Event != "charge.completed" {
		log.Printf("Unhandled webhook event: %s", event.Event)
		return nil, nil
	}

	payment, err := p.store.GetPaymentByTxRef(event.Data.TxRef)
	if err != nil {
		return nil, fmt.Errorf("payment not found for tx_ref %s: %v", event.Data.TxRef, err)
	}

	if event.Data.Status == "successful" {
		now := time.Now()
		payment.Status = models.PaymentStatusCaptured
		payment.CapturedAt = &now
	} else {
		payment.Status = models.PaymentStatusFailed
	}
	if err := p.store.UpdatePayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}
