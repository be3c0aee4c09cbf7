package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the directory service.
const (
	ActionEntryAdded     = "entry_added"
	ActionEntryDeleted   = "entry_deleted"
	ActionBackupExported = "backup_exported"
	ActionAccessDenied   = "access_denied"
	ActionForbidden      = "mutation_forbidden"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Identity   int64     `json:"identity"`
	Action     string    `json:"action"`
	Identifier string    `json:"identifier,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}
