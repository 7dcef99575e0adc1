package client

import (
	"context"
	"net/http"
	"sync"
)

// authResponse is the flat body returned by the auth endpoints.
type authResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Auth tracks the authenticated user, keeps the client's bearer token in
// sync and persists credentials through a CredentialStore. Safe for
// concurrent use.
type Auth struct {
	client *Client
	store  CredentialStore

	mu   sync.RWMutex
	user *User
}

// NewAuth creates the auth state for a client. store may be nil for
// non-persistent sessions.
func NewAuth(client *Client, store CredentialStore) *Auth {
	return &Auth{client: client, store: store}
}

// Hydrate loads persisted credentials, if any, and restores the session.
// Corrupt storage is cleared silently.
func (a *Auth) Hydrate() error {
	if a.store == nil {
		return nil
	}
	creds, err := a.store.Load()
	if err != nil {
		return err
	}
	if creds == nil {
		return nil
	}
	a.setCredentials(creds.AccessToken, creds.User)
	return nil
}

// RegisterInput is the user self-registration payload.
type RegisterInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
}

// Register creates a new user account and signs in.
func (a *Auth) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return a.authenticate(ctx, "/api/auth/register/user", input)
}

// Login signs a user in by phone number.
func (a *Auth) Login(ctx context.Context, phone string) (*User, error) {
	return a.authenticate(ctx, "/api/auth/login/user", map[string]string{"phone": phone})
}

// LoginAdmin signs an admin in with email and password.
func (a *Auth) LoginAdmin(ctx context.Context, email, password string) (*User, error) {
	return a.authenticate(ctx, "/api/auth/login/admin", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (a *Auth) authenticate(ctx context.Context, path string, body interface{}) (*User, error) {
	var resp authResponse
	if err := a.client.do(ctx, http.MethodPost, path, nil, body, &resp, true); err != nil {
		return nil, err
	}

	a.setCredentials(resp.AccessToken, resp.User)
	if a.store != nil {
		if err := a.store.Save(Credentials{AccessToken: resp.AccessToken, User: resp.User}); err != nil {
			return nil, err
		}
	}

	user := resp.User
	return &user, nil
}

func (a *Auth) setCredentials(token string, user User) {
	a.client.SetToken(token)
	a.mu.Lock()
	u := user
	a.user = &u
	a.mu.Unlock()
}

// Logout clears the session and the persisted credentials.
func (a *Auth) Logout() error {
	a.client.SetToken("")
	a.mu.Lock()
	a.user = nil
	a.mu.Unlock()

	if a.store != nil {
		return a.store.Clear()
	}
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (a *Auth) CurrentUser() *User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// IsAuthenticated reports whether a user is signed in.
func (a *Auth) IsAuthenticated() bool {
	return a.CurrentUser() != nil
}
