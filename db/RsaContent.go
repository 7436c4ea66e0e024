package db

// RsaContent holds an RSA key pair owned by exactly one secret.
//
// The private key is stored unencrypted at rest. This mirrors the behavior
// of the original system; export is the only path that reveals it. API
// handlers never marshal this struct directly — responses are built from
// explicit fields.
type RsaContent struct {
	ID         int    `db:"id" json:"id"`
	PrivateKey string `db:"private_key" json:"private_key"`
	PublicKey  string `db:"public_key" json:"public_key"`
	KeySize    int    `db:"key_size" json:"key_size"`
}
