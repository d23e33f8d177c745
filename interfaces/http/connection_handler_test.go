package http_test

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	httpHandler "creator-studio/interfaces/http"
)

type fakeConnection struct {
	callbackErr error
	status      map[string]bool
}

func (f *fakeConnection) InitiateConnect(context.Context, int64, string) (string, error) {
	return "https://www.facebook.com/v21.0/dialog/oauth?state=abc", nil
}

func (f *fakeConnection) HandleCallback(context.Context, string, string, string) (string, error) {
	if f.callbackErr != nil {
		return "", f.callbackErr
	}
	return "creator", nil
}

func (f *fakeConnection) Disconnect(context.Context, int64, string) error { return nil }

func (f *fakeConnection) ConnectionStatus(context.Context, int64) (map[string]bool, error) {
	return f.status, nil
}

func (f *fakeConnection) Profile(context.Context, int64) (*repository.InstagramProfile, error) {
	return nil, model.ErrNotConnected
}

func callbackRequest(t *testing.T, conn *fakeConnection, query string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := httpHandler.NewConnectionHandler(conn, "https://studio.example.com")
	router.GET("/connect/instagram/callback", handler.Callback)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/connect/instagram/callback"+query, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCallback_SuccessRedirect(t *testing.T) {
	w := callbackRequest(t, &fakeConnection{}, "?state=abc&code=the-code")
	assert.Equal(t, nethttp.StatusFound, w.Code)
	assert.Equal(t, "https://studio.example.com/?connected=instagram", w.Header().Get("Location"))
}

func TestCallback_DeniedRedirect(t *testing.T) {
	w := callbackRequest(t, &fakeConnection{callbackErr: model.ErrUserDenied}, "?error=access_denied")
	assert.Equal(t, nethttp.StatusFound, w.Code)
	assert.Equal(t, "https://studio.example.com/?error=instagram_denied", w.Header().Get("Location"))
}

// Callback failures redirect with an error code; they never render a 5xx.
func TestCallback_InternalFailureStillRedirects(t *testing.T) {
	w := callbackRequest(t, &fakeConnection{callbackErr: errors.New("graph timeout")}, "?state=abc&code=x")
	assert.Equal(t, nethttp.StatusFound, w.Code)
	assert.Equal(t, "https://studio.example.com/?error=connect_failed", w.Header().Get("Location"))
}

func TestCallback_NoEligibleAccountRedirect(t *testing.T) {
	w := callbackRequest(t, &fakeConnection{callbackErr: model.ErrNoEligibleAccount}, "?state=abc&code=x")
	assert.Equal(t, nethttp.StatusFound, w.Code)
	assert.Equal(t, "https://studio.example.com/?error=no_instagram_account", w.Header().Get("Location"))
}

func TestConnections_AnonymousGetsBooleans(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := httpHandler.NewConnectionHandler(&fakeConnection{status: map[string]bool{
		model.PlatformInstagram: false,
		model.PlatformTikTok:    false,
		model.PlatformFacebook:  false,
	}}, "https://studio.example.com")
	router.GET("/api/connections", handler.Connections)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/api/connections", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.JSONEq(t, `{"instagram":false,"tiktok":false,"facebook":false}`, w.Body.String())
}
