// Package repository defines the MySQL persistence of slots and
// appointments and the error values shared with the PostgreSQL backend.
package repository

import "errors"

// ErrSlotUnavailable is returned when a conditional update finds the slot
// already booked or missing.  The booking workflow translates it into a
// "slot no longer available" answer.
var ErrSlotUnavailable = errors.New("slot unavailable")

// SeedBatchSize bounds the number of rows sent in one INSERT when the
// slot table is populated.
const SeedBatchSize = 1000
