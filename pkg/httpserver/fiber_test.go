package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"events/pkg/config"
	"events/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{Server: config.Server{
		CORS: config.CORS{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "*"},
	}}
}

func TestNewFiber_CORS(t *testing.T) {
	app := NewFiber(testConfig(), nil)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	preflight.Header.Set("Origin", "http://example.com")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight.Header.Set("Access-Control-Request-Headers", "X-Custom")
	resp, err = app.Test(preflight)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "X-Custom", resp.Header.Get("Access-Control-Allow-Headers"))
}

func TestNewFiber_ErrorHandler(t *testing.T) {
	app := NewFiber(testConfig(), nil)
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"internal server error"}`, string(body))
}

func TestNewFiber_BodyLimit(t *testing.T) {
	conf := testConfig()
	conf.Server.BodyLimit = 16
	app := NewFiber(conf, nil)
	app.Post("/echo", func(c *fiber.Ctx) error { return c.Send(c.Body()) })

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestNewFiber_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	app := NewFiber(testConfig(), m)
	app.Get("/events/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for _, id := range []string{"1", "2"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/events/"+id, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.API.HTTPRequestsTotal.WithLabelValues("GET", "/events/:id", "200")))
}

func TestNewFiber_MetricsUnmatchedRoute(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	app := NewFiber(testConfig(), m)
	app.Get("/events/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for _, path := range []string{"/nope/1", "/nope/2", "/wp-admin.php"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.API.HTTPRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.API.HTTPRequestsTotal))
}

func TestNormalizeHTTPMethod(t *testing.T) {
	assert.Equal(t, "GET", normalizeHTTPMethod(" get "))
	assert.Equal(t, "DELETE", normalizeHTTPMethod("DELETE"))
	assert.Equal(t, "OTHER", normalizeHTTPMethod("PROPFIND"))
}
