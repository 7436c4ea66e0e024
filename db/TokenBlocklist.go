package db

import (
	"time"
)

// TokenBlocklist is the append-only ledger of revoked token identifiers.
// A jti present here is rejected regardless of signature validity or expiry.
type TokenBlocklist struct {
	ID        int       `db:"id" json:"id"`
	JTI       string    `db:"jti" json:"jti"`
	UserID    int       `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
