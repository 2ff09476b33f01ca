package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const userID = "6f1c3a52-7d0e-4c55-9b7a-2f0d6b1e9c01"

func TestVerifier_IssueAndVerify(t *testing.T) {
	v := NewVerifier("secret", "taskmaster")

	token, err := v.Issue(userID, "ada@example.com", "Ada", time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	session, err := v.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if session.UserID != userID || session.Email != "ada@example.com" || session.Name != "Ada" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", "taskmaster")

	expired, _ := v.Issue(userID, "ada@example.com", "Ada", -time.Minute)
	other, _ := NewVerifier("other", "taskmaster").Issue(userID, "ada@example.com", "Ada", time.Hour)
	badSubject, _ := v.Issue("not-a-uuid", "ada@example.com", "Ada", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "ada@example.com"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", other, ErrInvalidToken},
		{"bad subject", badSubject, ErrInvalidToken},
		{"unsigned", none, ErrInvalidToken},
		{"garbage", "abc.def.ghi", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.token); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClient_NotifiesOnChange(t *testing.T) {
	c := NewClient()
	var events []bool

	unsubscribe := c.OnSessionChange(func(s Session, ok bool) {
		events = append(events, ok)
	})

	s := Session{UserID: userID, Email: "ada@example.com"}
	c.SetSession(s)
	c.SetSession(s)
	if got, ok := c.CurrentSession(); !ok || got.UserID != userID {
		t.Errorf("unexpected current session %+v", got)
	}

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if _, ok := c.CurrentSession(); ok {
		t.Error("session still present after sign out")
	}

	unsubscribe()
	c.SetSession(s)

	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("expected [true false], got %v", events)
	}
}
