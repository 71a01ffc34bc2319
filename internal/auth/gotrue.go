package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to a GoTrue-style auth endpoint (the kind the remote
// store's hosted platform exposes). The access token it yields is treated
// as opaque by everything downstream.
type HTTPClient struct {
	broadcaster

	baseURL string
	anonKey string
	httpc   *http.Client
	tokens  *tokenFile
}

// NewHTTPClient builds a client for the auth endpoint at baseURL. The anon
// key authenticates the application itself; sessionPath is where the
// signed-in session is cached between invocations.
func NewHTTPClient(baseURL, anonKey, sessionPath string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		tokens:  newTokenFile(sessionPath),
	}
}

type userPayload struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (u userPayload) identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, FullName: u.UserMetadata.FullName}
}

type tokenPayload struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

// SignIn authenticates with email and password and caches the session.
func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp tokenPayload
	err := c.post(ctx, "/auth/v1/token?grant_type=password",
		map[string]string{"email": email, "password": password}, "", &resp)
	if err != nil {
		return nil, &SessionError{Op: "sign-in", Err: err}
	}
	sess := &Session{Identity: resp.User.identity(), AccessToken: resp.AccessToken}
	if err := c.tokens.save(&storedSession{AccessToken: sess.AccessToken, Identity: sess.Identity}); err != nil {
		return nil, &SessionError{Op: "sign-in", Err: err}
	}
	c.emit(Event{Session: sess})
	return sess, nil
}

// SignUp registers a new account. When the endpoint requires email
// confirmation it returns no session; the caller surfaces that to the user.
func (c *HTTPClient) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if fullName != "" {
		body["data"] = map[string]string{"full_name": fullName}
	}
	var resp tokenPayload
	if err := c.post(ctx, "/auth/v1/signup", body, "", &resp); err != nil {
		return nil, &SessionError{Op: "sign-up", Err: err}
	}
	if resp.AccessToken == "" {
		// Account created, confirmation pending: no usable session yet.
		return nil, nil
	}
	sess := &Session{Identity: resp.User.identity(), AccessToken: resp.AccessToken}
	if err := c.tokens.save(&storedSession{AccessToken: sess.AccessToken, Identity: sess.Identity}); err != nil {
		return nil, &SessionError{Op: "sign-up", Err: err}
	}
	c.emit(Event{Session: sess})
	return sess, nil
}

// CurrentSession validates the cached session against the collaborator.
// Returns (nil, nil) when no session is cached or the token is no longer
// accepted; transport failures come back as *SessionError.
func (c *HTTPClient) CurrentSession(ctx context.Context) (*Session, error) {
	stored, err := c.tokens.load()
	if err != nil {
		return nil, &SessionError{Op: "session lookup", Err: err}
	}
	if stored == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, &SessionError{Op: "session lookup", Err: err}
	}
	c.setHeaders(req, stored.AccessToken)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &SessionError{Op: "session lookup", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Token revoked or expired: same as no session.
		_ = c.tokens.clear()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SessionError{Op: "session lookup", Err: apiError(resp)}
	}
	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &SessionError{Op: "session lookup", Err: err}
	}
	return &Session{Identity: user.identity(), AccessToken: stored.AccessToken}, nil
}

// SignOut invalidates the session with the collaborator and clears the
// local cache. The cache is cleared even when the remote call fails.
func (c *HTTPClient) SignOut(ctx context.Context) error {
	stored, _ := c.tokens.load()
	_ = c.tokens.clear()
	defer c.emit(Event{Session: nil})

	if stored == nil {
		return nil
	}
	err := c.post(ctx, "/auth/v1/logout", struct{}{}, stored.AccessToken, nil)
	if err != nil {
		return &SessionError{Op: "sign-out", Err: err}
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}, token string, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", c.anonKey)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// apiError extracts the collaborator's own message so it can be surfaced
// verbatim.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, m := range []string{body.ErrorDescription, body.Msg, body.Message} {
			if m != "" {
				return fmt.Errorf("%s (status %d)", m, resp.StatusCode)
			}
		}
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
