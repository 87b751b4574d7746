package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	url   string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, dataURI string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func dataURI(n int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, n))
}

func uploadRouter(up *fakeUploader, maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/upload-image", NewUploadHandler(up, maxBytes).UploadImage)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "response must always be valid JSON, got %q", w.Body.String())
	return out
}

func TestUploadImageSuccess(t *testing.T) {
	up := &fakeUploader{url: "https://cdn.example.com/blog/x.png"}
	r := uploadRouter(up, 3<<20)

	w := postJSON(t, r, "/api/upload-image", gin.H{"file": dataURI(512)})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/blog/x.png", decodeJSON(t, w)["url"])
	assert.Equal(t, 1, up.callCount())
}

func TestUploadImageMissingFile(t *testing.T) {
	up := &fakeUploader{}
	r := uploadRouter(up, 3<<20)

	for _, body := range []any{gin.H{}, gin.H{"file": ""}} {
		w := postJSON(t, r, "/api/upload-image", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file provided", decodeJSON(t, w)["error"])
	}
	assert.Zero(t, up.callCount())
}

func TestUploadImageProviderFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("quota exceeded")}
	r := uploadRouter(up, 3<<20)

	w := postJSON(t, r, "/api/upload-image", gin.H{"file": dataURI(512)})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeJSON(t, w)
	assert.Equal(t, "Upload failed", resp["error"])
	assert.Equal(t, "quota exceeded", resp["details"])
}

func TestUploadImageDefensiveSizeCap(t *testing.T) {
	up := &fakeUploader{url: "https://cdn.example.com/x.png"}
	r := uploadRouter(up, 1024)

	w := postJSON(t, r, "/api/upload-image", gin.H{"file": dataURI(4096)})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, up.callCount(), "oversize payloads must not reach the provider")
}

func TestUploadImageNonDataURIPayload(t *testing.T) {
	up := &fakeUploader{}
	r := uploadRouter(up, 3<<20)

	w := postJSON(t, r, "/api/upload-image", gin.H{"file": "not a data uri"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, up.callCount())
}
