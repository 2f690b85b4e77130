// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid issues the identifiers of listings, identities, refresh
// sessions, events and uploaded objects.
//
// All new ids are UUIDv7 so rows and object keys sort by creation time.
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics only when the system entropy
// source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether value parses as a UUID of any version. Path
// parameters are checked with it before they reach the database.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
