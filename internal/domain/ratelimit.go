package domain

import "time"

// IdentifierKind kind of identifier a rate-limit counter is keyed by
type IdentifierKind string

const (
	KindIP          IdentifierKind = "ip"
	KindEmail       IdentifierKind = "email"
	KindFingerprint IdentifierKind = "fingerprint"
)

// IdentifierKinds all tracked kinds, in check order
var IdentifierKinds = []IdentifierKind{KindIP, KindEmail, KindFingerprint}

// RateLimitStatus state of one (kind, identifier) counter, for operational inspection
type RateLimitStatus struct {
	Kind         IdentifierKind
	Identifier   string
	Attempts     int64
	FirstAttempt *time.Time
	LastAttempt  *time.Time
	BlockedUntil *time.Time
}

// RateLimitDecision outcome of a rate-limit check
type RateLimitDecision struct {
	Allowed      bool
	Reason       string
	BlockedUntil *time.Time
}
