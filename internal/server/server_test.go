package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/chartkit/internal/server"
	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
	"github.com/Sumatoshi-tech/chartkit/pkg/observability"
)

const monthDoc = "data:\n  Jan: 7\n  Feb: 20\n  Dec: 5\n"

func post(t *testing.T, handler http.Handler, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body["error"]
}

func TestRender_PNG(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(server.Options{
		Defaults: chart.Overrides{Width: chart.Ptr(240), Height: chart.Ptr(120)},
	})

	rec := post(t, handler, "/render", "application/yaml", monthDoc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestRender_JSONLayoutFromCSV(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(server.Options{})

	rec := post(t, handler, "/render?format=json", "text/csv", "label,value\nJan,7\nFeb,20\nDec,5\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var lay struct {
		Markers []struct {
			Label string `json:"label"`
		} `json:"markers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lay))
	require.Len(t, lay.Markers, 3)
	assert.Equal(t, "Jan", lay.Markers[0].Label)
}

func TestRender_HTMLWithID(t *testing.T) {
	t.Parallel()

	rec := post(t, server.NewHandler(server.Options{}), "/render?format=html&id=sales", "", monthDoc)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="sales"`)
}

func TestRender_BadRequests(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(server.Options{})

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"unknown format", "/render?format=svg", monthDoc},
		{"schema", "/render", "data: []\n"},
		{"syntax", "/render", "data: [unclosed\n"},
		{"unknown variant", "/render", "options:\n  type: Pie\n" + monthDoc},
		{"duplicate label", "/render?input=csv", "a,1\na,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := post(t, handler, tt.target, "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, errorOf(t, rec))
		})
	}
}

func TestRender_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	server.NewHandler(server.Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render", http.NoBody))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestRender_BodyTooLarge(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(server.Options{MaxBodyBytes: 16})

	rec := post(t, handler, "/render", "", monthDoc)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestProbesAndMetrics(t *testing.T) {
	t.Parallel()

	pm, err := observability.NewPrometheusMeter()
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, pm.Provider.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(pm.Meter)
	require.NoError(t, err)

	handler := server.NewHandler(server.Options{Metrics: pm.Handler, RED: red})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chartkit_requests")
}

func TestStart_ServesUntilCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	srv, err := server.Start(ctx, "127.0.0.1:0", server.Options{})
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", srv.Addr())) //nolint:noctx // test probe.
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, srv.Wait(ctx))
}
