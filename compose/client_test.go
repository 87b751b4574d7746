package compose

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayStub(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["file"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGatewayClientSuccess(t *testing.T) {
	srv := gatewayStub(t, http.StatusOK, `{"url":"https://cdn.example.com/blog/x.png"}`)
	defer srv.Close()

	client := NewGatewayClient(srv.URL, nil)
	url, err := client.Upload(context.Background(), dataURI(32))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/blog/x.png", url)
}

func TestGatewayClientProviderFailure(t *testing.T) {
	srv := gatewayStub(t, http.StatusInternalServerError,
		`{"error":"Upload failed","details":"quota exceeded"}`)
	defer srv.Close()

	client := NewGatewayClient(srv.URL, nil)
	_, err := client.Upload(context.Background(), dataURI(32))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Upload failed", ue.Message)
	assert.Equal(t, "quota exceeded", ue.Details)
}

func TestGatewayClientMalformedResponse(t *testing.T) {
	// A proxy or crash can hand back non-JSON; that must become a typed
	// error, not a decode failure bubbling up.
	srv := gatewayStub(t, http.StatusBadGateway, `<html>Bad Gateway</html>`)
	defer srv.Close()

	client := NewGatewayClient(srv.URL, nil)
	_, err := client.Upload(context.Background(), dataURI(32))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Details, "malformed gateway response")
}

func TestGatewayClientOKWithoutURL(t *testing.T) {
	srv := gatewayStub(t, http.StatusOK, `{}`)
	defer srv.Close()

	client := NewGatewayClient(srv.URL, nil)
	_, err := client.Upload(context.Background(), dataURI(32))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
}

func TestGatewayClientConnectionRefused(t *testing.T) {
	srv := gatewayStub(t, http.StatusOK, `{}`)
	srv.Close()

	client := NewGatewayClient(srv.URL, nil)
	_, err := client.Upload(context.Background(), dataURI(32))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Upload failed", ue.Message)
}
