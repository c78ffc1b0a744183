// Package notify sends order SMS notifications. Delivery is best effort:
// callers log failures and carry on, a dropped text never kills a call.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Notifier delivers the two order texts.
type Notifier interface {
	// OrderReceived confirms a placed order, sent once at finalize.
	OrderReceived(ctx context.Context, orderNo, phone string) error
	// OrderReady tells the caller the drink is ready for pickup.
	OrderReady(ctx context.Context, orderNo, phone string) error
}

// TwilioSMS sends texts through the Twilio messages REST endpoint.
type TwilioSMS struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
}

// TwilioOption overrides TwilioSMS defaults.
type TwilioOption func(*TwilioSMS)

// WithBaseURL points the sender at a different API host (tests).
func WithBaseURL(u string) TwilioOption {
	return func(t *TwilioSMS) { t.baseURL = u }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) TwilioOption {
	return func(t *TwilioSMS) { t.client = c }
}

func NewTwilioSMS(accountSID, authToken, from string, opts ...TwilioOption) *TwilioSMS {
	t := &TwilioSMS{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    "https://api.twilio.com/2010-04-01",
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TwilioSMS) OrderReceived(ctx context.Context, orderNo, phone string) error {
	body := fmt.Sprintf(
		"Thanks for your order with BobaRista! Your order number is %s. "+
			"We'll text you again when it's ready for pickup.\nReply STOP to opt out.",
		orderNo)
	return t.send(ctx, phone, body)
}

func (t *TwilioSMS) OrderReady(ctx context.Context, orderNo, phone string) error {
	body := fmt.Sprintf(
		"Hi! Your boba order #%s is now ready for pickup at BobaRista. "+
			"See you soon!\nReply STOP to opt out.",
		orderNo)
	return t.send(ctx, phone, body)
}

func (t *TwilioSMS) send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", t.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms API returned %d: %s", resp.StatusCode, payload)
	}
	return nil
}

// LogOnly is the Notifier used when SMS credentials are not configured.
type LogOnly struct {
	Logger *slog.Logger
}

func (l *LogOnly) OrderReceived(ctx context.Context, orderNo, phone string) error {
	l.logger().InfoContext(ctx, "sms not configured, skipping received text",
		"order_number", orderNo, "phone", phone)
	return nil
}

func (l *LogOnly) OrderReady(ctx context.Context, orderNo, phone string) error {
	l.logger().InfoContext(ctx, "sms not configured, skipping ready text",
		"order_number", orderNo, "phone", phone)
	return nil
}

func (l *LogOnly) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
