package ports

import (
	"context"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// AuditRecorder accepts security events fire-and-forget. Record must return
// without waiting for durable persistence and must never surface a failure
// to the caller; a recorder that cannot keep up drops events rather than
// blocking a request goroutine.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository appends events to the durable audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
