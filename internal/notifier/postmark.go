package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/upwatch/upwatch/internal/mask"
)

const (
	postmarkBaseURL       = "https://api.postmarkapp.com"
	postmarkEmailEndpoint = "/email"
	postmarkTokenHeader   = "X-Postmark-Server-Token"

	// Postmark accepts this token but never delivers anything.
	PostmarkTestToken = "POSTMARK_API_TEST"
)

// PostmarkClient sends alert emails through the Postmark API.
type PostmarkClient struct {
	token   string
	baseURL string
	from    string
	client  *http.Client
}

func NewPostmarkClient(token, from string) *PostmarkClient {
	if token == PostmarkTestToken {
		slog.Warn("Postmark token is the API test token, emails will not actually be sent")
	}
	return &PostmarkClient{
		token:   token,
		baseURL: postmarkBaseURL,
		from:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

type sendEmailResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

func (p *PostmarkClient) SendAlert(ctx context.Context, alert Alert) error {
	lastPing := ""
	if alert.LastPingAt != nil {
		lastPing = alert.LastPingAt.UTC().Format(time.RFC3339)
	}

	req := sendEmailRequest{
		From:    p.from,
		To:      alert.Email,
		Subject: fmt.Sprintf("[DOWN] %s", alert.CheckName),
		TextBody: fmt.Sprintf("Check %s (%s) is DOWN. Last ping received at: %s.",
			alert.CheckName, alert.CheckID, lastPing),
	}

	if err := p.sendEmail(ctx, &req); err != nil {
		return err
	}

	slog.Debug("alert email sent",
		"check_uuid", alert.CheckID.String(),
		"email", mask.Email(alert.Email),
	)
	return nil
}

func (p *PostmarkClient) sendEmail(ctx context.Context, email *sendEmailRequest) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+postmarkEmailEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(postmarkTokenHeader, p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute email request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read email response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("postmark returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp sendEmailResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("failed to parse email response: %w", err)
	}
	if apiResp.ErrorCode != 0 {
		return fmt.Errorf("postmark error %d: %s", apiResp.ErrorCode, apiResp.Message)
	}

	return nil
}
