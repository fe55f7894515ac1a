package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/models"
)

// TwilioSender sends SMS and WhatsApp messages through the Twilio Messages
// API. Credentials are read once at construction and are immutable for the
// lifetime of the process.
type TwilioSender struct {
	accountSID   string
	authToken    string
	baseURL      string
	smsFrom      string
	whatsappFrom string
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewTwilioSender(cfg *config.TwilioConfig, logger *zap.Logger) *TwilioSender {
	return &TwilioSender{
		accountSID:   cfg.AccountSID,
		authToken:    cfg.AuthToken,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		smsFrom:      cfg.SMSFrom,
		whatsappFrom: cfg.WhatsAppFrom,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send posts one message to the Twilio Messages endpoint and returns the
// provider message SID. Email is not routable through this transport.
func (s *TwilioSender) Send(ctx context.Context, to, body string, channel models.Channel) (string, error) {
	from, to, err := s.route(to, channel)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	var twResp twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&twResp); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return "", &TransportError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			StatusCode: resp.StatusCode,
			Code:       twResp.Code,
			Message:    twResp.Message,
		}
	}

	s.logger.Debug("Transport accepted message",
		zap.String("sid", twResp.SID),
		zap.String("channel", string(channel)))

	return twResp.SID, nil
}

// route picks the from number for the channel and applies the whatsapp:
// address prefix both sides expect.
func (s *TwilioSender) route(to string, channel models.Channel) (string, string, error) {
	switch channel {
	case models.ChannelSMS:
		if s.smsFrom == "" {
			return "", "", ErrTransportUnavailable
		}
		return s.smsFrom, to, nil
	case models.ChannelWhatsApp:
		if s.whatsappFrom == "" {
			return "", "", ErrTransportUnavailable
		}
		return "whatsapp:" + s.whatsappFrom, "whatsapp:" + to, nil
	default:
		return "", "", fmt.Errorf("channel %s is not routable over this transport", channel)
	}
}
