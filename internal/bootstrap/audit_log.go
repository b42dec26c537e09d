package bootstrap

import "context"

// AuditLog is an operational audit event, distinct from the per-row
// audit trail the services write to storage.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
