package domain

import "time"

// AuditAction identifies the security-relevant operation an event records.
type AuditAction string

const (
	ActionLogin          AuditAction = "Login"
	ActionRegister       AuditAction = "Register"
	ActionChangePassword AuditAction = "ChangePassword"
	ActionResetPassword  AuditAction = "ResetPassword"
	ActionLogout         AuditAction = "Logout"
)

// AuditModuleAuth is the source module stamped on authentication events.
const AuditModuleAuth = "Authentication"

// AuditEvent is a write-once record of one authentication attempt and its
// outcome. ActorRole keeps the raw, pre-normalization spelling for forensic
// fidelity. Events are self-contained; no cross-event ordering is implied.
type AuditEvent struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	ActorEmail string      `json:"actor_email"`
	ActorRole  string      `json:"actor_role"`
	Action     AuditAction `json:"action"`
	Details    string      `json:"details,omitempty"`
	Module     string      `json:"module"`
	Success    bool        `json:"success"`
	SourceAddr string      `json:"source_addr,omitempty"`
}
