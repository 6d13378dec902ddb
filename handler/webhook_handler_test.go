package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "test-secret"

func signedWebhookRequest(body string) (*http.Request, *httptest.ResponseRecorder) {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/webhook/line", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Line-Signature", signature)

	return req, httptest.NewRecorder()
}

func TestWebhookHandler_HandleWebhook(t *testing.T) {
	e := echo.New()

	t.Run("should dispatch text message events to the router", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, webhookSecret, testLogger())

		body := `{"events":[{"type":"message","replyToken":"tok","source":{"userId":"user-1"},"message":{"type":"text","text":"https://example.com"}}]}`
		req, rec := signedWebhookRequest(body)

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, router.texts, 1)
		assert.Equal(t, "user-1", router.texts[0].UserID)
		assert.Equal(t, "https://example.com", router.texts[0].Text)
	})

	t.Run("should dispatch postback events to the router", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, webhookSecret, testLogger())

		body := `{"events":[{"type":"postback","replyToken":"tok","source":{"userId":"user-2"},"postback":{"data":"folders"}}]}`
		req, rec := signedWebhookRequest(body)

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))

		require.Len(t, router.postbacks, 1)
		assert.Equal(t, "folders", router.postbacks[0].Data)
	})

	t.Run("should return 200 and skip routing on bad signature", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, webhookSecret, testLogger())

		body := `{"events":[{"type":"postback","replyToken":"tok","source":{"userId":"u"},"postback":{"data":"folders"}}]}`
		req := httptest.NewRequest(http.MethodPost, "/webhook/line", strings.NewReader(body))
		req.Header.Set("X-Line-Signature", "bogus")
		rec := httptest.NewRecorder()

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, router.postbacks)
	})

	t.Run("should return 200 on malformed payload", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, webhookSecret, testLogger())

		req, rec := signedWebhookRequest(`{broken`)

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should report disabled when no channel secret is configured", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, "", testLogger())

		req, rec := signedWebhookRequest(`{"events":[]}`)

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "disabled")
	})

	t.Run("should skip unsupported events without failing", func(t *testing.T) {
		router := &stubRouter{}
		handler := NewWebhookHandler(router, webhookSecret, testLogger())

		body := `{"events":[{"type":"follow","replyToken":"tok","source":{"userId":"u"}}]}`
		req, rec := signedWebhookRequest(body)

		require.NoError(t, handler.HandleWebhook(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, router.texts)
		assert.Empty(t, router.postbacks)
	})
}
