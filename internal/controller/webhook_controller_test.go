package controller

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"ig-engagement-be/internal/dto"
	"ig-engagement-be/internal/entity"
	"ig-engagement-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }

type capturingAutomation struct {
	mu       sync.Mutex
	comments []dto.ChangeValue
}

func (a *capturingAutomation) HandleComment(_ context.Context, value *dto.ChangeValue) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comments = append(a.comments, *value)
}

func (a *capturingAutomation) MatchRules([]*entity.AutomationRule, string) []*entity.AutomationRule {
	return nil
}

type capturingDm struct {
	mu       sync.Mutex
	messages []string
}

func (d *capturingDm) HandleMessage(_ context.Context, senderID, text, _ string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, senderID+":"+text)
}

func newTestApp(verifyToken string) (*fiber.App, *capturingAutomation, *capturingDm) {
	automation := &capturingAutomation{}
	dm := &capturingDm{}
	webhookService := service.NewWebhookService(verifyToken, automation, dm, testLogger{})

	app := fiber.New()
	NewWebhookController(webhookService, testLogger{}).RegisterRoutes(app)
	return app, automation, dm
}

func TestWebhookVerifySuccess(t *testing.T) {
	app, _, _ := newTestApp("secret")

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=xyz123", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "xyz123", string(body), "challenge must be echoed raw")
}

func TestWebhookVerifyRejected(t *testing.T) {
	app, _, _ := newTestApp("secret")

	tests := []struct {
		name string
		url  string
	}{
		{"wrong token", "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=xyz"},
		{"wrong mode", "/webhook?hub.mode=unsubscribe&hub.verify_token=secret&hub.challenge=xyz"},
		{"missing params", "/webhook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil))
			assert.NoError(t, err)
			assert.Equal(t, 403, resp.StatusCode)
		})
	}
}

func TestWebhookReceiveAcknowledges(t *testing.T) {
	app, automation, _ := newTestApp("secret")

	payload := `{
		"object": "instagram",
		"entry": [{
			"id": "page-1",
			"time": 1700000000,
			"changes": [{
				"field": "comments",
				"value": {"id": "c-1", "verb": "add", "text": "what's the price?", "from": {"id": "u-1", "username": "buyer"}}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "EVENT_RECEIVED", string(body))

	assert.Len(t, automation.comments, 1)
	assert.Equal(t, "c-1", automation.comments[0].Id)
}

func TestWebhookReceivePageObject(t *testing.T) {
	app, _, dm := newTestApp("secret")

	payload := `{
		"object": "page",
		"entry": [{
			"id": "page-1",
			"messaging": [{
				"sender": {"id": "u-2"},
				"recipient": {"id": "page-1"},
				"message": {"mid": "m-1", "text": "hello there"}
			}]
		}]
	}`

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"u-2:hello there"}, dm.messages)
}

func TestWebhookReceiveUnknownObject(t *testing.T) {
	app, automation, dm := newTestApp("secret")

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(`{"object": "whatsapp", "entry": []}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Empty(t, automation.comments)
	assert.Empty(t, dm.messages)
}

func TestWebhookReceiveMalformedBody(t *testing.T) {
	app, _, _ := newTestApp("secret")

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString("not json at all"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode, "no recognizable object means 404")
}
