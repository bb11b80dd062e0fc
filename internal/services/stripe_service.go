package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wheelorent/car-rental-backend/internal/config"
)

// Payment intent statuses reported by Stripe that this service cares
// about. Only "succeeded" means funds were captured.
const (
	IntentStatusSucceeded = "succeeded"
)

// Refund statuses that count as money on its way back to the customer.
const (
	RefundStatusSucceeded = "succeeded"
	RefundStatusPending   = "pending"
)

// PaymentIntent is the subset of Stripe's payment intent object the
// booking flow uses.
type PaymentIntent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

// Refund is the subset of Stripe's refund object the cancellation flow
// uses.
type Refund struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentIntent string `json:"payment_intent"`
	Amount        int64  `json:"amount"`
}

// Succeeded reports whether the refund went through. Stripe reports
// "pending" for refunds still settling; those count as initiated.
func (r *Refund) Succeeded() bool {
	return r.Status == RefundStatusSucceeded || r.Status == RefundStatusPending
}

// IntentMetadata is attached to every payment intent so a later
// confirmation can be cross-checked against what was reserved.
type IntentMetadata struct {
	CarID      string
	UserID     string
	PickupDate string
	ReturnDate string
	Days       int64
}

type stripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeService talks to the Stripe REST API: create/retrieve payment
// intents and create refunds. Requests are form-encoded with the secret
// key as a bearer token; the HTTP client carries a bounded timeout, and
// a timeout is always treated as failure, never as success.
type StripeService struct {
	config *config.StripeConfig
	logger *logrus.Logger
	client *http.Client
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(cfg *config.StripeConfig, logger *logrus.Logger) *StripeService {
	return &StripeService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreatePaymentIntent reserves a charge of amountCents with the booking
// metadata attached and returns the intent, including the client secret
// the browser needs to complete payment.
func (s *StripeService) CreatePaymentIntent(amountCents int64, meta IntentMetadata) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", s.config.Currency)
	form.Set("metadata[car_id]", meta.CarID)
	form.Set("metadata[user_id]", meta.UserID)
	form.Set("metadata[pickup_date]", meta.PickupDate)
	form.Set("metadata[return_date]", meta.ReturnDate)
	form.Set("metadata[days]", strconv.FormatInt(meta.Days, 10))

	s.logger.WithFields(logrus.Fields{
		"amount_cents": amountCents,
		"currency":     s.config.Currency,
		"car_id":       meta.CarID,
	}).Info("Creating payment intent")

	var intent PaymentIntent
	if err := s.do(http.MethodPost, "/v1/payment_intents", form, "", &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// RetrievePaymentIntent fetches the current processor-side state of an
// intent by id.
func (s *StripeService) RetrievePaymentIntent(intentID string) (*PaymentIntent, error) {
	if intentID == "" {
		return nil, fmt.Errorf("payment intent id is required")
	}

	var intent PaymentIntent
	if err := s.do(http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil, "", &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateRefund refunds the full amount of a payment intent. The
// idempotency key is derived from the intent id so the hourly sweep can
// retry indefinitely without double-refunding.
func (s *StripeService) CreateRefund(intentID string) (*Refund, error) {
	if intentID == "" {
		return nil, fmt.Errorf("payment intent id is required")
	}

	form := url.Values{}
	form.Set("payment_intent", intentID)

	s.logger.WithField("payment_intent_id", intentID).Info("Creating refund")

	var refund Refund
	if err := s.do(http.MethodPost, "/v1/refunds", form, "refund-"+intentID, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

func (s *StripeService) do(method, path string, form url.Values, idempotencyKey string, dest interface{}) error {
	if s.config.SecretKey == "" {
		return fmt.Errorf("payment processor not configured: missing secret key")
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, s.config.APIBaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.WithError(err).WithField("path", path).Error("Payment processor call failed")
		return fmt.Errorf("failed to call payment processor: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var stripeErr stripeErrorBody
		if err := json.Unmarshal(respBody, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("payment processor error (%s): %s", stripeErr.Error.Type, stripeErr.Error.Message)
		}
		return fmt.Errorf("payment processor returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// IsConfigured returns true if the processor credentials are present.
func (s *StripeService) IsConfigured() bool {
	return s.config.SecretKey != ""
}
