package security

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/viralforge/rental-service/internal/domain"
	"github.com/viralforge/rental-service/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := NewEphemeralTokenSigner("kid-test", 1024)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	token, err := signer.Sign(ports.AuthClaims{
		UserID:    "user-42",
		Email:     "asha@example.com",
		Role:      domain.RoleOwner,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := signer.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-42" || claims.Role != domain.RoleOwner || claims.KeyID != "kid-test" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry to survive round trip, got %v", claims.ExpiresAt)
	}
}

func TestTokenSignerRejectsExpiredAndForeignTokens(t *testing.T) {
	t.Parallel()

	signer, err := NewEphemeralTokenSigner("a", 1024)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	other, err := NewEphemeralTokenSigner("b", 1024)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	past := time.Now().Add(-2 * time.Hour)
	expired, _ := signer.Sign(ports.AuthClaims{UserID: "u", IssuedAt: past, ExpiresAt: past.Add(time.Minute)})
	if _, err := signer.ParseAndValidate(expired); err == nil {
		t.Fatalf("expected expired token to fail")
	}

	foreign, _ := other.Sign(ports.AuthClaims{UserID: "u", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})
	if _, err := signer.ParseAndValidate(foreign); err == nil {
		t.Fatalf("expected token from another key to fail")
	}
	if _, err := signer.ParseAndValidate("not-a-token"); err == nil {
		t.Fatalf("expected garbage to fail")
	}
}

func TestNewTokenSignerFromPEM(t *testing.T) {
	t.Parallel()

	ephemeral, err := NewEphemeralTokenSigner("k", 1024)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(ephemeral.privateKey)})
	pubDER, err := x509.MarshalPKIXPublicKey(ephemeral.publicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	signer, err := NewTokenSigner("k", string(privPEM), string(pubPEM))
	if err != nil {
		t.Fatalf("load signer: %v", err)
	}
	token, _ := ephemeral.Sign(ports.AuthClaims{UserID: "u", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)})
	if _, err := signer.ParseAndValidate(token); err != nil {
		t.Fatalf("expected PEM-loaded signer to verify: %v", err)
	}

	if _, err := NewTokenSigner("", string(privPEM), string(pubPEM)); err == nil {
		t.Fatalf("expected missing kid to fail")
	}
	if _, err := NewTokenSigner("k", "junk", string(pubPEM)); err == nil {
		t.Fatalf("expected bad PEM to fail")
	}
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "s3cret!"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("x", MaxPasswordBytes+1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected over-long password to be invalid input, got %v", err)
	}
}
