// Package model defines the domain models for staffboard.
package model

// Model is the interface that all persisted rows must implement.
type Model interface {
	// SetKey sets the storage key for this row.
	SetKey(key string)
	// GetKey returns the storage key for this row.
	GetKey() string
}

// KeyPrefix constants for storage key generation.
const (
	PrefixRecord = "record"
	PrefixTarget = "target"
)

// Column headers of the persisted tables, in storage order.
var (
	RecordHeaders = []string{"date", "week", "name", "type", "count"}
	TargetHeaders = []string{"month", "type", "target"}
)
