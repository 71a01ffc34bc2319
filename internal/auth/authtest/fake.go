// Package authtest provides a scriptable in-memory auth client for tests
// in packages that sit on top of the auth collaborator.
package authtest

import (
	"context"
	"errors"
	"sync"

	"github.com/sidworks/gp/internal/auth"
)

var errInvalidCredentials = errors.New("invalid login credentials")

// Fake implements auth.Client entirely in memory. Zero value is usable:
// no accounts, no session.
type Fake struct {
	mu       sync.Mutex
	subs     map[int]chan auth.Event
	nextID   int
	session  *auth.Session
	accounts map[string]account

	// SignInErr, SignUpErr, SessionErr, and SignOutErr, when set, are
	// returned by the corresponding call instead of the scripted behavior.
	SignInErr  error
	SignUpErr  error
	SessionErr error
	SignOutErr error

	// ConfirmationRequired makes SignUp create the account but return no
	// session, mimicking a collaborator with email confirmation on.
	ConfirmationRequired bool

	signOutCalls int
}

type account struct {
	password string
	identity auth.Identity
}

var _ auth.Client = (*Fake)(nil)

// AddAccount registers credentials that SignIn will accept.
func (f *Fake) AddAccount(id auth.Identity, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.accounts == nil {
		f.accounts = make(map[string]account)
	}
	f.accounts[id.Email] = account{password: password, identity: id}
}

// SetSession installs a live session directly, as if a prior process had
// signed in.
func (f *Fake) SetSession(s *auth.Session) {
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
	f.emit(auth.Event{Session: s})
}

// SignOutCalls reports how many times SignOut was invoked.
func (f *Fake) SignOutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOutCalls
}

func (f *Fake) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	f.mu.Lock()
	if f.SignInErr != nil {
		err := f.SignInErr
		f.mu.Unlock()
		return nil, err
	}
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		f.mu.Unlock()
		return nil, &auth.SessionError{Op: "sign-in", Err: errInvalidCredentials}
	}
	sess := &auth.Session{Identity: acct.identity, AccessToken: "fake-token-" + acct.identity.ID}
	f.session = sess
	f.mu.Unlock()
	f.emit(auth.Event{Session: sess})
	return sess, nil
}

func (f *Fake) SignUp(_ context.Context, email, password, fullName string) (*auth.Session, error) {
	f.mu.Lock()
	if f.SignUpErr != nil {
		err := f.SignUpErr
		f.mu.Unlock()
		return nil, err
	}
	id := auth.Identity{ID: "fake-" + email, Email: email, FullName: fullName}
	if f.accounts == nil {
		f.accounts = make(map[string]account)
	}
	f.accounts[email] = account{password: password, identity: id}
	if f.ConfirmationRequired {
		f.mu.Unlock()
		return nil, nil
	}
	sess := &auth.Session{Identity: id, AccessToken: "fake-token-" + id.ID}
	f.session = sess
	f.mu.Unlock()
	f.emit(auth.Event{Session: sess})
	return sess, nil
}

func (f *Fake) CurrentSession(_ context.Context) (*auth.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SessionErr != nil {
		return nil, f.SessionErr
	}
	return f.session, nil
}

func (f *Fake) SignOut(_ context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	err := f.SignOutErr
	f.session = nil
	f.mu.Unlock()
	f.emit(auth.Event{Session: nil})
	return err
}

func (f *Fake) Subscribe() (<-chan auth.Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = make(map[int]chan auth.Event)
	}
	id := f.nextID
	f.nextID++
	ch := make(chan auth.Event, 8)
	f.subs[id] = ch
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (f *Fake) emit(ev auth.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
