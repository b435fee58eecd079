package inventory

import (
	"context"

	"github.com/jhoicas/stock-engine/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; garantiza atomicidad para el motor de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// Severity nivel de una notificación al usuario.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification resultado de una operación de alto nivel.
type Notification struct {
	Operation string
	Message   string
	Severity  Severity
}

// Notifier colaborador externo que entrega notificaciones; el mecanismo de entrega no es asunto del motor.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(context.Context, Notification) {}
