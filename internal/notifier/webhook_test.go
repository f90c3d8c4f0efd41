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

func TestWebhookSendAlert_Success(t *testing.T) {
	w := NewWebhookSender()
	httpmock.ActivateNonDefault(w.client)
	defer httpmock.DeactivateAndReset()

	lastPing := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	alert := Alert{
		CheckID:    uuid.New(),
		CheckName:  "etl-run",
		Channel:    models.ChannelTypeWebhook,
		URL:        "https://hooks.example.com/upwatch",
		Headers:    map[string]interface{}{"Authorization": "Bearer s3cret"},
		LastPingAt: &lastPing,
	}

	var got webhookPayload
	var gotAuth string
	httpmock.RegisterResponder(http.MethodPost, alert.URL,
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
		})

	err := w.SendAlert(context.Background(), alert)

	require.NoError(t, err)
	assert.Equal(t, "Bearer s3cret", gotAuth)
	assert.Equal(t, alert.CheckID.String(), got.CheckID)
	assert.Equal(t, "etl-run", got.CheckName)
	assert.Equal(t, "DOWN", got.CheckStatus)
	require.NotNil(t, got.LastPingAt)
	assert.Equal(t, "2024-03-01T11:30:00Z", *got.LastPingAt)
}

func TestWebhookSendAlert_NullLastPing(t *testing.T) {
	w := NewWebhookSender()
	httpmock.ActivateNonDefault(w.client)
	defer httpmock.DeactivateAndReset()

	alert := Alert{
		CheckID:   uuid.New(),
		CheckName: "never-pinged",
		Channel:   models.ChannelTypeWebhook,
		URL:       "https://hooks.example.com/upwatch",
	}

	var got webhookPayload
	httpmock.RegisterResponder(http.MethodPost, alert.URL,
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})

	err := w.SendAlert(context.Background(), alert)

	require.NoError(t, err)
	assert.Nil(t, got.LastPingAt)
}

func TestWebhookSendAlert_Non2xx(t *testing.T) {
	w := NewWebhookSender()
	httpmock.ActivateNonDefault(w.client)
	defer httpmock.DeactivateAndReset()

	alert := Alert{
		CheckID: uuid.New(),
		Channel: models.ChannelTypeWebhook,
		URL:     "https://hooks.example.com/upwatch",
	}

	httpmock.RegisterResponder(http.MethodPost, alert.URL,
		httpmock.NewStringResponder(http.StatusBadGateway, "upstream down"))

	err := w.SendAlert(context.Background(), alert)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestDispatcher_RoutesByChannelType(t *testing.T) {
	p := NewPostmarkClient("server-token", "alerts@example.com")
	w := NewWebhookSender()
	httpmock.ActivateNonDefault(p.client)
	httpmock.ActivateNonDefault(w.client)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, postmarkBaseURL+postmarkEmailEndpoint,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, sendEmailResponse{}))
	httpmock.RegisterResponder(http.MethodPost, "https://hooks.example.com/upwatch",
		httpmock.NewStringResponder(http.StatusOK, ""))

	d := NewDispatcher(p, w)

	emailAlert := testEmailAlert()
	require.NoError(t, d.Send(context.Background(), emailAlert))

	webhookAlert := Alert{
		CheckID: uuid.New(),
		Channel: models.ChannelTypeWebhook,
		URL:     "https://hooks.example.com/upwatch",
	}
	require.NoError(t, d.Send(context.Background(), webhookAlert))

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+postmarkBaseURL+postmarkEmailEndpoint])
	assert.Equal(t, 1, info["POST https://hooks.example.com/upwatch"])
}

func TestDispatcher_UnknownChannelType(t *testing.T) {
	d := NewDispatcher(NewPostmarkClient("t", "f@example.com"), NewWebhookSender())

	err := d.Send(context.Background(), Alert{Channel: models.ChannelType("PIGEON")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PIGEON")
}
