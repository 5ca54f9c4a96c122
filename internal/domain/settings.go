package domain

import "time"

// Settings holds the signing material and lifetimes read from the external parameter store
type Settings struct {
	Secret               []byte
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Subject string
	// Reason is nil when Allowed is true
	Reason error
}

// Allow returns an allowing decision for subject
func Allow(subject string) Decision {
	return Decision{Allowed: true, Subject: subject}
}

// Deny returns a denying decision carrying the reason
func Deny(reason error) Decision {
	return Decision{Reason: reason}
}
