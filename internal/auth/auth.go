// Package auth defines the authentication collaborator for the goal
// planner: password sign-in/sign-up, current-session lookup, sign-out, and
// an asynchronous session-change stream. The wire format of tokens and the
// collaborator's transport are opaque to the rest of the system.
package auth

import (
	"context"
	"fmt"
	"sync"
)

// MinPasswordLen is enforced client-side before a sign-up call is attempted.
const MinPasswordLen = 6

// Identity is the authenticated principal a session belongs to. All owned
// rows in the remote store are scoped to Identity.ID.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Session is a live authenticated session.
type Session struct {
	Identity    Identity
	AccessToken string
}

// Event is a session-change notification. A nil Session means signed out;
// a non-nil Session may carry a different identity than before (refresh or
// switch).
type Event struct {
	Session *Session
}

// Client is the auth collaborator contract.
type Client interface {
	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignUp registers a new account. A nil session with nil error means
	// the account was created but needs email confirmation before use.
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	// CurrentSession returns the active session, or (nil, nil) when there
	// is none. Transport failures are returned as *SessionError.
	CurrentSession(ctx context.Context) (*Session, error)
	// SignOut invalidates the current session with the collaborator.
	SignOut(ctx context.Context) error
	// Subscribe returns a session-change stream and a cancel function that
	// must be called exactly once to release the subscription.
	Subscribe() (<-chan Event, func())
}

// SessionError reports that the auth collaborator was unreachable or
// rejected the credentials.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("auth %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// broadcaster fans session-change events out to subscribers. Client
// implementations embed it and call emit after state changes.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func (b *broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]chan Event)
	}
	id := b.nextID
	b.nextID++
	// Buffered so a slow subscriber cannot stall the emitter.
	ch := make(chan Event, 8)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *broadcaster) emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default: // drop rather than block; subscribers resync on next read
		}
	}
}
