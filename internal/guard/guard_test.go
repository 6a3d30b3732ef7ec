package guard

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"careernest/internal/domain/user"
	"careernest/internal/session"
)

func mintToken(t *testing.T, email, role string, exp time.Time) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
	})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return "header." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func sessionFor(t *testing.T, email string, role user.Role, exp time.Time) *session.Session {
	t.Helper()
	return &session.Session{
		Token: mintToken(t, email, string(role), exp),
		User:  user.User{Email: email, Role: role},
	}
}

func newGuard() *Guard {
	return New(session.NewValidator(), DefaultPaths())
}

func TestAuthorizePublicScreen(t *testing.T) {
	g := newGuard()
	if decision := g.Authorize("", nil); !decision.Allow {
		t.Fatalf("public screen denied: %+v", decision)
	}
}

func TestAuthorizeNoSessionRedirectsToRequiredRoleSignIn(t *testing.T) {
	g := newGuard()
	cases := map[user.Role]string{
		user.RoleStudent:   DefaultPaths().StudentSignIn,
		user.RoleRecruiter: DefaultPaths().RecruiterSignIn,
		user.RoleAdmin:     DefaultPaths().AdminSignIn,
	}
	for role, want := range cases {
		decision := g.Authorize(role, nil)
		if decision.Allow || decision.RedirectTo != want {
			t.Fatalf("role %s: got %+v, want redirect to %s", role, decision, want)
		}
	}
}

func TestAuthorizeExpiredRecruiterTokenGoesToRecruiterSignIn(t *testing.T) {
	g := newGuard()
	sess := sessionFor(t, "r@corp.example", user.RoleRecruiter, time.Now().Add(-time.Minute))

	decision := g.Authorize(user.RoleRecruiter, sess)
	if decision.Allow {
		t.Fatal("expired session allowed through")
	}
	if decision.RedirectTo != DefaultPaths().RecruiterSignIn {
		t.Fatalf("redirected to %s, want the recruiter sign-in", decision.RedirectTo)
	}
}

func TestAuthorizeWrongRoleRedirectsHome(t *testing.T) {
	g := newGuard()
	sess := sessionFor(t, "s@uni.example", user.RoleStudent, time.Now().Add(time.Hour))

	decision := g.Authorize(user.RoleRecruiter, sess)
	if decision.Allow {
		t.Fatal("wrong role allowed through")
	}
	if decision.RedirectTo != DefaultPaths().StudentHome {
		t.Fatalf("redirected to %s, want the session role's home", decision.RedirectTo)
	}
}

func TestAuthorizeMatchingRoleAllowed(t *testing.T) {
	g := newGuard()
	for _, role := range []user.Role{user.RoleStudent, user.RoleRecruiter, user.RoleAdmin} {
		sess := sessionFor(t, "who@ever.example", role, time.Now().Add(time.Hour))
		if decision := g.Authorize(role, sess); !decision.Allow {
			t.Fatalf("role %s denied: %+v", role, decision)
		}
	}
}

func TestAuthorizeAdminRidesTheSameSession(t *testing.T) {
	g := newGuard()
	// No separate admin flag: a student session never reaches an admin screen.
	sess := sessionFor(t, "s@uni.example", user.RoleStudent, time.Now().Add(time.Hour))
	decision := g.Authorize(user.RoleAdmin, sess)
	if decision.Allow {
		t.Fatal("student session allowed into admin screen")
	}
	if decision.RedirectTo != DefaultPaths().StudentHome {
		t.Fatalf("redirected to %s, want student home", decision.RedirectTo)
	}
}

func TestAuthorizeMalformedTokenRedirects(t *testing.T) {
	g := newGuard()
	sess := &session.Session{Token: "garbage", User: user.User{Role: user.RoleAdmin}}
	decision := g.Authorize(user.RoleAdmin, sess)
	if decision.Allow || decision.RedirectTo != DefaultPaths().AdminSignIn {
		t.Fatalf("got %+v, want redirect to admin sign-in", decision)
	}
}
