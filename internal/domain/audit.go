package domain

import "time"

// UnknownActor is recorded when an administrative action cannot be
// attributed to a logged-in account.
const UnknownActor = "unknown"

// AuditEntry is one record in the append-only administrative audit trail.
// Entries are never mutated or deleted; sequence ids are strictly
// increasing and gap-free.
type AuditEntry struct {
	SequenceID int64
	Timestamp  time.Time
	Actor      string
	Action     string
}
