package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/user":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["phone"] != "+998901234567" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid phone number"}`))
				return
			}
			w.Write([]byte(`{"access_token":"tok-123","user":{"id":7,"name":"Ali","phone":"+998901234567","role":"user"}}`))
		case "/api/auth/register/user":
			w.Write([]byte(`{"access_token":"tok-456","user":{"id":8,"name":"Vali","phone":"+998909999999","role":"user"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}))
}

func TestAuth_LoginPersistsCredentials(t *testing.T) {
	// Arrange
	srv := newAuthServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	api := New(srv.URL)
	a := NewAuth(api, NewFileStore(path))

	// Act
	user, err := a.Login(context.Background(), "+998901234567")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "tok-123", api.Token())
	assert.True(t, a.IsAuthenticated())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved Credentials
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.Equal(t, "tok-123", saved.AccessToken)
	assert.Equal(t, "Ali", saved.User.Name)
}

func TestAuth_LoginFailureLeavesClientUnauthenticated(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	api := New(srv.URL)
	a := NewAuth(api, NewFileStore(path))

	_, err := a.Login(context.Background(), "+998000000000")

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, a.IsAuthenticated())
	assert.Empty(t, api.Token())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAuth_LogoutClearsTokenAndStore(t *testing.T) {
	srv := newAuthServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	api := New(srv.URL)
	a := NewAuth(api, NewFileStore(path))

	_, err := a.Login(context.Background(), "+998901234567")
	require.NoError(t, err)

	require.NoError(t, a.Logout())

	assert.Empty(t, api.Token())
	assert.False(t, a.IsAuthenticated())
	assert.Nil(t, a.CurrentUser())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAuth_HydrateRestoresPersistedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(Credentials{
		AccessToken: "persisted-token",
		User:        User{ID: 3, Name: "Ali", Phone: "+998901234567", Role: "user"},
	}))

	api := New("http://unused")
	a := NewAuth(api, store)

	require.NoError(t, a.Hydrate())

	assert.Equal(t, "persisted-token", api.Token())
	assert.True(t, a.IsAuthenticated())
	require.NotNil(t, a.CurrentUser())
	assert.Equal(t, uint(3), a.CurrentUser().ID)
}

func TestFileStore_LoadToleratesMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	creds, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestFileStore_DiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := NewFileStore(path)

	creds, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, creds)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStore_DiscardsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token":"","user":{"id":1}}`), 0o600))
	store := NewFileStore(path)

	creds, err := store.Load()

	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestFileStore_ClearToleratesMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	assert.NoError(t, store.Clear())
}
