package middlewares

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"message_board_service/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_UsesRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/rooms/:room/messages", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/rooms/:room/messages", "200"))

	for _, room := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/rooms/"+room+"/messages", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/rooms/:room/messages", "200"))
	assert.Equal(t, 3.0, after-before)
}

func TestMetrics_MethodLabelSurvivesLaterRequests(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/labels/:room", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/labels/:room", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Delete("/labels/:room", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	postBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/labels/:room", "201"))
	deleteBefore := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("DELETE", "/labels/:room", "204"))

	for _, method := range []string{"POST", "DELETE", "GET", "POST", "GET"} {
		resp, err := app.Test(httptest.NewRequest(method, "/labels/general", nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/labels/:room", "201"))-postBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("DELETE", "/labels/:room", "204"))-deleteBefore)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `method="POST"`)
	assert.Contains(t, string(body), `method="DELETE"`)
	assert.NotContains(t, string(body), `method="GETT"`)
}

func TestAccessLog_WritesFile(t *testing.T) {
	dir := t.TempDir()
	handler, file, err := AccessLog(dir)
	require.NoError(t, err)
	defer file.Close()

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(handler)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	data, err := os.ReadFile(filepath.Join(dir, "access.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "GET /health")
}
