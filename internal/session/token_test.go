package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"careernest/internal/domain/user"
)

func mintToken(t *testing.T, email, role string, exp time.Time) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestValidateValidToken(t *testing.T) {
	validator := NewValidator()
	token := mintToken(t, "s@uni.example", "student", time.Now().Add(time.Hour))

	result := validator.Validate(token)
	if !result.Valid {
		t.Fatalf("expected valid token, got reason %s", result.Reason)
	}
	if result.Claims.Email != "s@uni.example" {
		t.Fatalf("unexpected email claim %q", result.Claims.Email)
	}
	account := UserFromClaims(result.Claims)
	if account.Role != user.RoleStudent {
		t.Fatalf("expected student role, got %q", account.Role)
	}
}

func TestValidateMalformedToken(t *testing.T) {
	validator := NewValidator()
	for _, token := range []string{"", "one.two", "a.b.c.d", "..", "head.!!!notbase64.sig"} {
		result := validator.Validate(token)
		if result.Valid || result.Reason != ReasonMalformed {
			t.Fatalf("expected malformed for %q, got valid=%v reason=%s", token, result.Valid, result.Reason)
		}
	}
}

func TestValidateExpiredToken(t *testing.T) {
	validator := NewValidator()
	token := mintToken(t, "r@corp.example", "recruiter", time.Now().Add(-time.Minute))

	result := validator.Validate(token)
	if result.Valid || result.Reason != ReasonExpired {
		t.Fatalf("expected expired, got valid=%v reason=%s", result.Valid, result.Reason)
	}
	if result.Claims == nil || result.Claims.Role != "recruiter" {
		t.Fatal("expected claims to survive expiry for redirect decisions")
	}
}

func TestValidateExpiryUsesInjectedClock(t *testing.T) {
	validator := NewValidator()
	token := mintToken(t, "s@uni.example", "student", time.Now().Add(time.Hour))
	validator.clock = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if result := validator.Validate(token); result.Valid || result.Reason != ReasonExpired {
		t.Fatalf("expected expired under advanced clock, got valid=%v reason=%s", result.Valid, result.Reason)
	}
}

func TestValidateUnknownDecodeFailure(t *testing.T) {
	validator := NewValidator()
	payload := base64.RawURLEncoding.EncodeToString([]byte("not json at all"))
	token := "header." + payload + ".sig"

	result := validator.Validate(token)
	if result.Valid || result.Reason != ReasonUnknown {
		t.Fatalf("expected unknown, got valid=%v reason=%s", result.Valid, result.Reason)
	}
}

func TestValidateEmailFallsBackToSub(t *testing.T) {
	validator := NewValidator()
	payload, _ := json.Marshal(map[string]any{"sub": "s@uni.example", "role": "student", "exp": time.Now().Add(time.Hour).Unix()})
	token := "h." + base64.RawURLEncoding.EncodeToString(payload) + ".s"

	result := validator.Validate(token)
	if !result.Valid || result.Claims.Email != "s@uni.example" {
		t.Fatalf("expected sub fallback, got valid=%v email=%q", result.Valid, result.Claims.Email)
	}
}
