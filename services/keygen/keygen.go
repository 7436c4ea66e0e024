package keygen

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

var ErrInvalidKeySize = errors.New("invalid key size")

const DefaultRSABits = 2048

const DefaultAESBytes = 32

// GenerateRSA produces a fresh key pair: private key as unencrypted PKCS#8
// PEM, public key as SubjectPublicKeyInfo PEM. bits=0 selects the default.
func GenerateRSA(bits int) (privatePEM string, publicPEM string, err error) {
	if bits == 0 {
		bits = DefaultRSABits
	}

	if bits < 1024 {
		err = fmt.Errorf("%w: rsa key must be at least 1024 bits, got %d", ErrInvalidKeySize, bits)
		return
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		err = fmt.Errorf("rsa key generation failed: %w", err)
		return
	}

	privateDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		err = fmt.Errorf("cannot encode private key: %w", err)
		return
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		err = fmt.Errorf("cannot encode public key: %w", err)
		return
	}

	privatePEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateDER}))
	publicPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}))
	return
}

// GenerateAES produces a random symmetric key of the given byte length plus
// a 16 byte IV. length=0 selects the default (32 bytes, AES-256).
func GenerateAES(length int) (key []byte, iv []byte, err error) {
	if length == 0 {
		length = DefaultAESBytes
	}

	switch length {
	case 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("%w: aes key must be 16, 24 or 32 bytes, got %d", ErrInvalidKeySize, length)
	}

	key = make([]byte, length)
	if _, err = rand.Read(key); err != nil {
		return nil, nil, fmt.Errorf("aes key generation failed: %w", err)
	}

	iv = make([]byte, 16)
	if _, err = rand.Read(iv); err != nil {
		return nil, nil, fmt.Errorf("aes iv generation failed: %w", err)
	}

	return
}
