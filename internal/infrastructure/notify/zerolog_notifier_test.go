package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

func TestLogNotifier_WritesStructuredEvent(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Config{Env: "production", Level: "debug", Out: &buf}))

	n.Notify(context.Background(), inventory.Notification{
		Operation: "stock.import", Message: "1 fila con error", Severity: inventory.SeverityWarning,
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "stock.import", line["operation"])
	assert.Equal(t, "warning", line["severity"])
	assert.Equal(t, "notifier", line["component"])
	assert.Equal(t, "1 fila con error", line["message"])
}

func TestRecorder_WithNotifyOutcome(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()

	inventory.NotifyOutcome(ctx, rec, "consignment.dispatch", "ok", nil)
	inventory.NotifyOutcome(ctx, rec, "consignment.dispatch", "ok", domain.ErrInsufficientStock)

	notes := rec.Notifications()
	require.Len(t, notes, 2)
	assert.Equal(t, inventory.SeveritySuccess, notes[0].Severity)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, inventory.SeverityWarning, last.Severity)
}
