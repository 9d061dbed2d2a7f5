package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/ferdiebergado/roomkit/internal/config"
)

const (
	testKey      = "123"
	testAudience = "https://example.com/auth/reset"
)

func newTestSigner() *golangJWTSigner {
	s, _ := NewGolangJWTSigner(&config.JWT{JTILength: 8, Issuer: "roomkit"}, testKey).(*golangJWTSigner)
	return s
}

func TestSignAndVerify_Success(t *testing.T) {
	t.Parallel()

	signer := newTestSigner()
	in := &Claims{Subject: "user-1", Audience: testAudience, Fingerprint: "fgp"}

	token, err := signer.Sign(in, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if token == "" {
		t.Fatal("token is empty")
	}

	got, err := signer.Verify(token, testAudience)
	if err != nil {
		t.Fatalf("Verify returned an error: %v", err)
	}

	if got.Subject != in.Subject || got.Fingerprint != in.Fingerprint || got.Audience != testAudience {
		t.Errorf("signer.Verify(token) = %+v, want: %+v", got, in)
	}
}

func TestVerify_Rejects(t *testing.T) {
	t.Parallel()

	signer := newTestSigner()
	token, err := signer.Sign(&Claims{Subject: "user-1", Audience: testAudience}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	expiredSigner := newTestSigner()
	expiredSigner.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSigner.Sign(&Claims{Subject: "user-1", Audience: testAudience}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	otherKey, _ := NewGolangJWTSigner(&config.JWT{JTILength: 8, Issuer: "roomkit"}, "456").(*golangJWTSigner)
	forged, err := otherKey.Sign(&Claims{Subject: "user-1", Audience: testAudience}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		token    string
		audience string
	}{
		{"wrong audience", token, "https://example.com/auth/verify"},
		{"expired", expired, testAudience},
		{"wrong key", forged, testAudience},
		{"tampered", token + "x", testAudience},
		{"garbage", "not-a-token", testAudience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := signer.Verify(tt.token, tt.audience); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want: %v", err, ErrInvalidToken)
			}
		})
	}
}
