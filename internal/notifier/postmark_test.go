package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upwatch/upwatch/internal/models"
)

func testEmailAlert() Alert {
	lastPing := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	return Alert{
		AlertID:    1,
		CheckID:    uuid.New(),
		CheckName:  "nightly-backup",
		Channel:    models.ChannelTypeEmail,
		Email:      "ops@example.com",
		LastPingAt: &lastPing,
	}
}

func TestPostmarkSendAlert_Success(t *testing.T) {
	p := NewPostmarkClient("server-token", "alerts@example.com")
	httpmock.ActivateNonDefault(p.client)
	defer httpmock.DeactivateAndReset()

	var got sendEmailRequest
	var gotToken string
	httpmock.RegisterResponder(http.MethodPost, postmarkBaseURL+postmarkEmailEndpoint,
		func(req *http.Request) (*http.Response, error) {
			gotToken = req.Header.Get(postmarkTokenHeader)
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			return httpmock.NewJsonResponse(http.StatusOK, sendEmailResponse{ErrorCode: 0, Message: "OK"})
		})

	err := p.SendAlert(context.Background(), testEmailAlert())

	require.NoError(t, err)
	assert.Equal(t, "server-token", gotToken)
	assert.Equal(t, "alerts@example.com", got.From)
	assert.Equal(t, "ops@example.com", got.To)
	assert.Equal(t, "[DOWN] nightly-backup", got.Subject)
	assert.Contains(t, got.TextBody, "2024-03-01T11:00:00Z")
}

// Postmark reports some failures with HTTP 200 and a non-zero ErrorCode.
func TestPostmarkSendAlert_APIError(t *testing.T) {
	p := NewPostmarkClient("server-token", "alerts@example.com")
	httpmock.ActivateNonDefault(p.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, postmarkBaseURL+postmarkEmailEndpoint,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, sendEmailResponse{
			ErrorCode: 300,
			Message:   "Invalid email request",
		}))

	err := p.SendAlert(context.Background(), testEmailAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "postmark error 300")
}

func TestPostmarkSendAlert_HTTPError(t *testing.T) {
	p := NewPostmarkClient("server-token", "alerts@example.com")
	httpmock.ActivateNonDefault(p.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, postmarkBaseURL+postmarkEmailEndpoint,
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"ErrorCode":10,"Message":"no such token"}`))

	err := p.SendAlert(context.Background(), testEmailAlert())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}
