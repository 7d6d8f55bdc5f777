package tokens

import (
	"testing"
	"time"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("access-secret"), []byte("refresh-secret"), time.Hour, 7*24*time.Hour)
}

func TestAccessRoundtrip(t *testing.T) {
	c := newTestCodec()
	tok, err := c.IssueAccess("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := c.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
	if claims.Issuer != Issuer {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestExpiredAccessRejected(t *testing.T) {
	// valid signature, expiry in the past
	c := NewCodec([]byte("access-secret"), []byte("refresh-secret"), -time.Minute, time.Hour)
	tok, err := c.IssueAccess("user-1", "ana@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := c.VerifyAccess(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	c := newTestCodec()
	other := NewCodec([]byte("different-secret"), []byte("refresh-secret"), time.Hour, time.Hour)
	tok, _ := other.IssueAccess("user-1", "ana@example.com")
	if _, err := c.VerifyAccess(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTypeDiscriminant(t *testing.T) {
	c := newTestCodec()
	refresh, err := c.IssueRefresh("user-1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := c.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q", claims.Subject)
	}

	// an access token never passes refresh verification: different secret
	access, _ := c.IssueAccess("user-1", "ana@example.com")
	if _, err := c.VerifyRefresh(access); err != ErrInvalidToken {
		t.Fatalf("access token passed refresh verification: %v", err)
	}
	// and a refresh token never passes access verification
	if _, err := c.VerifyAccess(refresh); err != ErrInvalidToken {
		t.Fatalf("refresh token passed access verification: %v", err)
	}
}

func TestGarbageRejected(t *testing.T) {
	c := newTestCodec()
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := c.VerifyAccess(tok); err != ErrInvalidToken {
			t.Errorf("VerifyAccess(%q) = %v, want ErrInvalidToken", tok, err)
		}
		if _, err := c.VerifyRefresh(tok); err != ErrInvalidToken {
			t.Errorf("VerifyRefresh(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestDigestDeterministic(t *testing.T) {
	d1 := Digest("some-token")
	d2 := Digest("some-token")
	if d1 != d2 {
		t.Fatal("digest of same token differs")
	}
	if d1 == Digest("other-token") {
		t.Fatal("digests of different tokens collide")
	}
	if len(d1) != 64 { // hex sha-256
		t.Fatalf("digest length = %d, want 64", len(d1))
	}
	if d1 == "some-token" {
		t.Fatal("digest equals raw token")
	}
}
