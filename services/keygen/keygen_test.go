package keygen

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
)

func TestGenerateRSA_ProducesMatchingPair(t *testing.T) {
	privatePEM, publicPEM, err := GenerateRSA(0)
	if err != nil {
		t.Fatal(err)
	}

	privateBlock, _ := pem.Decode([]byte(privatePEM))
	if privateBlock == nil || privateBlock.Type != "PRIVATE KEY" {
		t.Fatal("private key is not a PRIVATE KEY PEM block")
	}

	parsedPrivate, err := x509.ParsePKCS8PrivateKey(privateBlock.Bytes)
	if err != nil {
		t.Fatalf("private key does not parse as PKCS#8: %v", err)
	}

	privateKey, ok := parsedPrivate.(*rsa.PrivateKey)
	if !ok {
		t.Fatalf("expected *rsa.PrivateKey, got %T", parsedPrivate)
	}

	if privateKey.N.BitLen() != DefaultRSABits {
		t.Errorf("expected %d bit key, got %d", DefaultRSABits, privateKey.N.BitLen())
	}

	if privateKey.E != 65537 {
		t.Errorf("expected exponent 65537, got %d", privateKey.E)
	}

	publicBlock, _ := pem.Decode([]byte(publicPEM))
	if publicBlock == nil || publicBlock.Type != "PUBLIC KEY" {
		t.Fatal("public key is not a PUBLIC KEY PEM block")
	}

	parsedPublic, err := x509.ParsePKIXPublicKey(publicBlock.Bytes)
	if err != nil {
		t.Fatalf("public key does not parse as PKIX: %v", err)
	}

	publicKey, ok := parsedPublic.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("expected *rsa.PublicKey, got %T", parsedPublic)
	}

	if publicKey.N.Cmp(privateKey.N) != 0 {
		t.Error("public key is not the counterpart of the private key")
	}
}

func TestGenerateRSA_RejectsSmallKeys(t *testing.T) {
	_, _, err := GenerateRSA(512)
	if !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}

func TestGenerateAES(t *testing.T) {
	for _, length := range []int{16, 24, 32} {
		key, iv, err := GenerateAES(length)
		if err != nil {
			t.Fatal(err)
		}
		if len(key) != length {
			t.Errorf("expected %d byte key, got %d", length, len(key))
		}
		if len(iv) != 16 {
			t.Errorf("expected 16 byte iv, got %d", len(iv))
		}
	}

	key, _, err := GenerateAES(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != DefaultAESBytes {
		t.Errorf("expected default %d byte key, got %d", DefaultAESBytes, len(key))
	}

	_, _, err = GenerateAES(17)
	if !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}

func TestPool_GeneratesThroughWorkers(t *testing.T) {
	pool := CreatePool(2)
	defer pool.Stop()

	privatePEM, publicPEM, err := pool.GenerateRSA(context.Background(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	if privatePEM == "" || publicPEM == "" {
		t.Error("expected non-empty key pair")
	}

	key, iv, err := pool.GenerateAES(context.Background(), 32)
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != 32 || len(iv) != 16 {
		t.Error("unexpected aes material lengths")
	}
}

func TestPool_CanceledContextAborts(t *testing.T) {
	pool := CreatePool(1)
	defer pool.Stop()

	// occupy the only worker
	started := make(chan struct{})
	blocker := make(chan struct{})
	go func() {
		_, _ = pool.submit(context.Background(), func() result {
			close(started)
			<-blocker
			return result{}
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := pool.GenerateRSA(ctx, 2048)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(blocker)
}
