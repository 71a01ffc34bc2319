package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sidworks/gp/internal/auth"
	"github.com/sidworks/gp/internal/auth/authtest"
)

func newGate(t *testing.T, fake *authtest.Fake) *Gate {
	t.Helper()
	g := New(fake)
	t.Cleanup(g.Close)
	return g
}

func TestResolvePendingBeforeCheck(t *testing.T) {
	g := newGate(t, &authtest.Fake{})

	for _, path := range []string{HomePath, LoginPath, "/goals/abc"} {
		d := g.Resolve(path)
		if !d.Pending || d.Allow || d.RedirectTo != "" {
			t.Fatalf("Resolve(%q) before check = %+v, want pending", path, d)
		}
	}
}

func TestCheckNoSession(t *testing.T) {
	g := newGate(t, &authtest.Fake{})

	state, err := g.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if state != Unauthenticated {
		t.Fatalf("state = %v, want Unauthenticated", state)
	}

	if d := g.Resolve(HomePath); d.RedirectTo != LoginPath {
		t.Fatalf("protected path should redirect to login, got %+v", d)
	}
	if d := g.Resolve(LoginPath); !d.Allow {
		t.Fatalf("login surface should be reachable, got %+v", d)
	}
}

func TestCheckWithSession(t *testing.T) {
	fake := &authtest.Fake{}
	fake.SetSession(&auth.Session{
		Identity:    auth.Identity{ID: "u-1", Email: "sam@example.com"},
		AccessToken: "tok",
	})
	g := newGate(t, fake)

	state, err := g.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if state != Authenticated {
		t.Fatalf("state = %v, want Authenticated", state)
	}

	if d := g.Resolve(HomePath); !d.Allow {
		t.Fatalf("home should render for a signed-in user, got %+v", d)
	}
	if d := g.Resolve(LoginPath); d.RedirectTo != HomePath {
		t.Fatalf("login surface should bounce a signed-in user home, got %+v", d)
	}
	if id := g.Identity(); id == nil || id.ID != "u-1" {
		t.Fatalf("Identity = %+v", id)
	}
}

func TestCheckCollaboratorFailureResolvesUnauthenticated(t *testing.T) {
	fake := &authtest.Fake{SessionErr: &auth.SessionError{Op: "session lookup", Err: errors.New("connection refused")}}
	g := newGate(t, fake)

	state, err := g.Check(context.Background())
	if err == nil {
		t.Fatal("expected the collaborator error to surface")
	}
	if state != Unauthenticated {
		t.Fatalf("state = %v, want Unauthenticated on failure", state)
	}
	if d := g.Resolve(HomePath); d.Pending {
		t.Fatal("a failed check must still resolve, not stay pending")
	}
}

func TestSignOutTransitionsEvenOnFailure(t *testing.T) {
	fake := &authtest.Fake{SignOutErr: errors.New("revocation endpoint down")}
	fake.SetSession(&auth.Session{Identity: auth.Identity{ID: "u-1"}, AccessToken: "tok"})
	g := newGate(t, fake)
	if _, err := g.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}

	if err := g.SignOut(context.Background()); err == nil {
		t.Fatal("expected the collaborator failure to be reported")
	}
	if g.State() != Unauthenticated {
		t.Fatalf("state = %v, want Unauthenticated regardless of collaborator result", g.State())
	}
	if g.Session() != nil {
		t.Fatal("session should be dropped")
	}
	if fake.SignOutCalls() != 1 {
		t.Fatalf("SignOut calls = %d, want 1", fake.SignOutCalls())
	}
}

func TestEventStreamDrivesState(t *testing.T) {
	fake := &authtest.Fake{}
	fake.AddAccount(auth.Identity{ID: "u-2", Email: "kim@example.com"}, "secret1")
	g := newGate(t, fake)

	if _, err := fake.SignIn(context.Background(), "kim@example.com", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	waitForState(t, g, Authenticated)

	if err := fake.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	waitForState(t, g, Unauthenticated)
}

func waitForState(t *testing.T, g *Gate, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if g.State() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state = %v, want %v", g.State(), want)
}
