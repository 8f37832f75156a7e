package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relay/internal/http/handlers"
	"relay/internal/imagegen"
	"relay/internal/remix"
	"relay/internal/storage"
)

var productPNG = []byte("\x89PNG\r\n\x1a\nproduct-pixels")

func newRelay(t *testing.T, apiKey, openAIURL string) http.Handler {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"background", "surface", "logo_text"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".png"), []byte(name+"-mask"), 0o644))
	}
	masks, err := storage.NewMaskStore(dir)
	require.NoError(t, err)

	log := zerolog.Nop()
	svc := remix.NewService(remix.Options{
		APIKey:  apiKey,
		Fetcher: imagegen.NewHTTPFetcher(imagegen.FetcherOptions{Logger: log}),
		Masks:   masks,
		Editor:  imagegen.NewOpenAIClient(imagegen.OpenAIOptions{APIKey: apiKey, BaseURL: openAIURL, Logger: log}),
		Logger:  log,
	})
	return NewRouter(handlers.NewApp(svc, log), log)
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/product.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(productPNG)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/remix", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRemixEndToEnd(t *testing.T) {
	images := imageServer(t)
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/edits", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "gpt-image-1", r.FormValue("model"))
		assert.Equal(t, "1024x1024", r.FormValue("size"))
		assert.Equal(t, "A red logo on white background", r.FormValue("prompt"))

		file, _, err := r.FormFile("image")
		if assert.NoError(t, err) {
			data, _ := io.ReadAll(file)
			assert.Equal(t, productPNG, data)
		}
		mask, _, err := r.FormFile("mask")
		if assert.NoError(t, err) {
			data, _ := io.ReadAll(mask)
			assert.Equal(t, "surface-mask", string(data))
		}
		_, _ = io.WriteString(w, `{"data":[{"b64_json":"Zm9v"}]}`)
	}))
	defer openai.Close()

	relay := newRelay(t, "sk-test", openai.URL)
	rec := post(t, relay, `{"image_url":"`+images.URL+`/product.png","prompt":"A red logo on white background"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"done","output_image_url":"data:image/png;base64,Zm9v"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRemixUnreachableImage(t *testing.T) {
	images := imageServer(t)
	relay := newRelay(t, "sk-test", "http://127.0.0.1:1")

	rec := post(t, relay, `{"image_url":"`+images.URL+`/missing.png","prompt":"p","mask_type":"logo_text"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Could not download image"}`, rec.Body.String())
}

func TestRemixUpstreamFailure(t *testing.T) {
	images := imageServer(t)
	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "rate limited")
	}))
	defer openai.Close()

	relay := newRelay(t, "sk-test", openai.URL)
	rec := post(t, relay, `{"image_url":"`+images.URL+`/product.png","prompt":"p","mask_type":"background"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"OpenAI error: rate limited"}`, rec.Body.String())
}

func TestRemixWithoutCredential(t *testing.T) {
	relay := newRelay(t, "", "http://127.0.0.1:1")

	rec := post(t, relay, `{"image_url":"https://x/a.png","prompt":"p"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"OPENAI_API_KEY not set"}`, rec.Body.String())
}

func TestHealthIgnoresConfiguration(t *testing.T) {
	relay := newRelay(t, "", "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestCORSPreflightOnRemix(t *testing.T) {
	relay := newRelay(t, "sk-test", "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "/remix", nil)
	req.Header.Set("Origin", "https://store.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestUnknownRoute(t *testing.T) {
	relay := newRelay(t, "sk-test", "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/remix", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
