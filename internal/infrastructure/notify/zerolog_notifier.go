// Package notify entrega las notificaciones del motor de stock.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

var (
	_ inventory.Notifier = (*LogNotifier)(nil)
	_ inventory.Notifier = (*Recorder)(nil)
)

// LogNotifier escribe cada notificación como evento estructurado. El nivel sigue la severidad.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el adaptador sobre el logger de la aplicación.
func NewLogNotifier(l *logger.Logger) *LogNotifier {
	return &LogNotifier{log: l.Component("notifier")}
}

// Notify registra la notificación.
func (n *LogNotifier) Notify(_ context.Context, note inventory.Notification) {
	var ev *zerolog.Event
	switch note.Severity {
	case inventory.SeverityError:
		ev = n.log.Error()
	case inventory.SeverityWarning:
		ev = n.log.Warn()
	default:
		ev = n.log.Info()
	}
	ev.Str("operation", note.Operation).
		Str("severity", string(note.Severity)).
		Msg(note.Message)
}

// Recorder guarda las notificaciones en memoria.
type Recorder struct {
	mu    sync.Mutex
	notes []inventory.Notification
}

// Notify agrega la notificación.
func (r *Recorder) Notify(_ context.Context, note inventory.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
}

// Notifications copia de lo recibido en orden.
func (r *Recorder) Notifications() []inventory.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.Notification, len(r.notes))
	copy(out, r.notes)
	return out
}

// Last la última notificación; ok=false si no hubo ninguna.
func (r *Recorder) Last() (inventory.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return inventory.Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}
