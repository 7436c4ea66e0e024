package db

// AesContent holds a symmetric key owned by exactly one secret.
// Key and IV are base64 encoded. API handlers never marshal this struct
// directly.
type AesContent struct {
	ID      int    `db:"id" json:"id"`
	Key     string `db:"key" json:"key"`
	KeySize int    `db:"key_size" json:"key_size"`
	IV      string `db:"iv" json:"iv"`
}
