package db

import (
	"time"
)

// UserOperation is an append-only audit record of a mutating API call.
// It is written regardless of whether the wrapped operation succeeded.
type UserOperation struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Operation string    `db:"operation" json:"operation"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Details   string    `db:"details" json:"details"`
}

// OperationDetails is the serialized payload of a UserOperation's Details
// field.
type OperationDetails struct {
	URL        string         `json:"url"`
	Method     string         `json:"method"`
	Params     map[string]any `json:"params"`
	Body       map[string]any `json:"body"`
	ResourceID *int           `json:"resource_id"`
}
