package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// ErrDelivery marks a failed SMS handoff: transport error, non-2xx
// response, or a provider-reported failure. There is no retry at this
// layer; callers resend if they want another attempt.
var ErrDelivery = errors.New("sms delivery failed")

// SMSProvider hands a generated code to the SMS gateway.
type SMSProvider interface {
	Deliver(ctx context.Context, phoneNumber, code string) error
}

// msg91Provider sends OTPs through the MSG91 v5 OTP endpoint. The code
// travels as a request parameter and is never logged by this client.
type msg91Provider struct {
	client     *http.Client
	baseURL    string
	authKey    string
	templateID string
	log        *zap.Logger
}

func NewMSG91Provider(config utils.MSG91Config, log *zap.Logger) SMSProvider {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &msg91Provider{
		client:     &http.Client{Timeout: timeout},
		baseURL:    config.BaseURL,
		authKey:    config.AuthKey,
		templateID: config.TemplateID,
		log:        log.With(zap.String("provider", "msg91")),
	}
}

type msg91Response struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (p *msg91Provider) Deliver(ctx context.Context, phoneNumber, code string) error {
	params := url.Values{}
	params.Set("template_id", p.templateID)
	params.Set("mobile", phoneNumber)
	params.Set("authkey", p.authKey)
	params.Set("otp", code)

	endpoint := p.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrDelivery, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("MSG91 request failed",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Error("MSG91 returned non-2xx status",
			zap.Int("status", resp.StatusCode),
			zap.String("phone_number", phoneNumber),
		)
		return fmt.Errorf("%w: status %d", ErrDelivery, resp.StatusCode)
	}

	var body msg91Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrDelivery, err)
	}

	if !strings.EqualFold(body.Type, "success") {
		p.log.Error("MSG91 reported failure",
			zap.String("type", body.Type),
			zap.String("phone_number", phoneNumber),
		)
		return fmt.Errorf("%w: provider status %q", ErrDelivery, body.Type)
	}

	return nil
}
