// Package gate owns the session state machine. Everything that needs to
// know "who is signed in right now" asks the gate; nothing else reads the
// auth collaborator's session directly.
package gate

import (
	"context"
	"sync"

	"github.com/sidworks/gp/internal/auth"
)

// State is the gate's view of the session.
type State int

const (
	// Unknown means no session check has run yet.
	Unknown State = iota
	// Checking means a session lookup is in flight.
	Checking
	// Authenticated means a verified session is held.
	Authenticated
	// Unauthenticated means the check completed with no usable session.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// LoginPath is the one surface reachable without a session.
const LoginPath = "/login"

// HomePath is where a signed-in user lands.
const HomePath = "/"

// Decision is the gate's answer for a requested surface.
type Decision struct {
	// Pending means the session state is not resolved yet; show nothing.
	Pending bool
	// Allow means the requested path may render.
	Allow bool
	// RedirectTo, when non-empty, names where to send the user instead.
	RedirectTo string
}

// Gate tracks session state for one process. It is the sole writer of its
// own state; collaborator events and explicit calls both funnel through it.
type Gate struct {
	client auth.Client

	mu      sync.Mutex
	state   State
	session *auth.Session

	unsubscribe func()
	done        chan struct{}
}

// New builds a gate over client and starts consuming its session-change
// stream. Call Close when done.
func New(client auth.Client) *Gate {
	g := &Gate{client: client, state: Unknown, done: make(chan struct{})}
	events, cancel := client.Subscribe()
	g.unsubscribe = cancel
	go g.watch(events)
	return g
}

func (g *Gate) watch(events <-chan auth.Event) {
	defer close(g.done)
	for ev := range events {
		g.mu.Lock()
		if ev.Session != nil {
			g.state = Authenticated
			g.session = ev.Session
		} else {
			g.state = Unauthenticated
			g.session = nil
		}
		g.mu.Unlock()
	}
}

// Check resolves the session state with the collaborator. A collaborator
// failure resolves to Unauthenticated rather than leaving the gate stuck;
// the error is returned for diagnostics.
func (g *Gate) Check(ctx context.Context) (State, error) {
	g.mu.Lock()
	g.state = Checking
	g.mu.Unlock()

	sess, err := g.client.CurrentSession(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || sess == nil {
		g.state = Unauthenticated
		g.session = nil
		return g.state, err
	}
	g.state = Authenticated
	g.session = sess
	return g.state, nil
}

// State reports the current session state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the held session, or nil outside Authenticated.
func (g *Gate) Session() *auth.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Identity returns the authenticated principal, or nil.
func (g *Gate) Identity() *auth.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	id := g.session.Identity
	return &id
}

// Resolve decides how to route a request for path given the current state.
// Until the state is resolved everything is pending, so protected content
// never leaks and no premature login redirect fires.
func (g *Gate) Resolve(path string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case Unknown, Checking:
		return Decision{Pending: true}
	case Authenticated:
		if path == LoginPath {
			return Decision{RedirectTo: HomePath}
		}
		return Decision{Allow: true}
	default: // Unauthenticated
		if path == LoginPath {
			return Decision{Allow: true}
		}
		return Decision{RedirectTo: LoginPath}
	}
}

// SignOut ends the session. The local transition to Unauthenticated happens
// unconditionally; a collaborator failure is reported but never leaves the
// gate signed in.
func (g *Gate) SignOut(ctx context.Context) error {
	err := g.client.SignOut(ctx)

	g.mu.Lock()
	g.state = Unauthenticated
	g.session = nil
	g.mu.Unlock()
	return err
}

// Close releases the collaborator subscription.
func (g *Gate) Close() {
	g.unsubscribe()
	<-g.done
}
