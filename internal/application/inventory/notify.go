package inventory

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-engine/internal/domain"
)

// NotifyOutcome informa el resultado de una operación: éxito con okMsg, o el error clasificado.
func NotifyOutcome(ctx context.Context, n Notifier, operation, okMsg string, err error) {
	if n == nil {
		return
	}
	if err == nil {
		n.Notify(ctx, Notification{Operation: operation, Message: okMsg, Severity: SeveritySuccess})
		return
	}
	sev := SeverityError
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyResolved),
		errors.Is(err, domain.ErrDuplicate):
		sev = SeverityWarning
	}
	n.Notify(ctx, Notification{Operation: operation, Message: err.Error(), Severity: sev})
}
