package log_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	applog "ktmobile/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpers_WriteRequestContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusTeapot)
		applog.Audit(c, "phone.update", map[string]any{"id": "p1"})
		applog.Security(c, "access.denied.admin", nil)
		applog.Error(c, "store.save", errors.New("disk full"), nil)
		return nil
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 3)

	audit := entries[0].ContextMap()
	assert.Equal(t, "phone.update", audit["action"])
	assert.Equal(t, "audit", audit["kind"])
	assert.Equal(t, "/x", audit["path"])
	assert.Equal(t, "GET", audit["method"])
	assert.EqualValues(t, fiber.StatusTeapot, audit["status"])
	assert.NotEmpty(t, audit["req_id"])
	assert.Equal(t, map[string]any{"id": "p1"}, audit["fields"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "disk full", entries[2].ContextMap()["error"])
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, applog.SetLevel("debug"))
	require.NoError(t, applog.SetLevel(""))
	assert.Error(t, applog.SetLevel("loud"))
}
