package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"careernest/internal/domain/user"
)

type Reason string

const (
	ReasonMalformed Reason = "malformed_token"
	ReasonExpired   Reason = "expired"
	ReasonUnknown   Reason = "unknown"
)

type Claims struct {
	Sub   string `json:"sub,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
}

type Validation struct {
	Valid  bool
	Reason Reason
	Claims *Claims
}

// Validator inspects tokens locally. It never contacts the backend and does
// not hold the signing secret, so a token revoked server-side still reads as
// valid here until the next authenticated call fails.
type Validator struct {
	clock func() time.Time
}

func NewValidator() *Validator {
	return &Validator{clock: time.Now}
}

func (v *Validator) Validate(token string) Validation {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Validation{Reason: ReasonMalformed}
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Validation{Reason: ReasonMalformed}
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Validation{Reason: ReasonUnknown}
	}
	if claims.Email == "" && claims.Sub != "" {
		claims.Email = claims.Sub
	}
	if claims.Exp > 0 && v.clock().UTC().Unix() > claims.Exp {
		return Validation{Reason: ReasonExpired, Claims: &claims}
	}
	return Validation{Valid: true, Claims: &claims}
}

// UserFromClaims builds the cached user record stored alongside the token.
func UserFromClaims(claims *Claims) user.User {
	return user.User{
		Email: claims.Email,
		Name:  claims.Name,
		Role:  user.ParseRole(claims.Role),
	}
}
