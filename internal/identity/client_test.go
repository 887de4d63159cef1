package identity

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/freemium-todo/internal/config"
)

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*(result.(*string)) = "admin"
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func signSession(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestClient_VerifySession(t *testing.T) {
	const secret = "session_secret"
	client := NewClient(config.IdentityProvider{SessionSecret: secret}, nil, newNoopLogger())

	tests := []struct {
		name    string
		token   string
		wantUID string
		wantErr bool
	}{
		{
			name:    "valid token",
			token:   signSession(t, secret, "user_42", time.Hour),
			wantUID: "user_42",
		},
		{
			name:    "expired token",
			token:   signSession(t, secret, "user_42", -time.Hour),
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   signSession(t, "other_secret", "user_42", time.Hour),
			wantErr: true,
		},
		{
			name:    "empty subject",
			token:   signSession(t, secret, "", time.Hour),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := client.VerifySession(context.Background(), tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSession)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, uid)
		})
	}
}

func TestClient_GetRole(t *testing.T) {
	t.Run("fetches role from provider api", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/users/user_1/metadata", r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"role":"admin"}`))
		}))
		defer srv.Close()

		client := NewClient(config.IdentityProvider{
			APIURL: srv.URL,
			APIKey: "sk_test",
		}, nil, newNoopLogger())

		role, err := client.GetRole(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Equal(t, "admin", role)
	})

	t.Run("empty role defaults to user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := NewClient(config.IdentityProvider{APIURL: srv.URL}, nil, newNoopLogger())

		role, err := client.GetRole(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Equal(t, RoleUser, role)
	})

	t.Run("provider error is propagated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(config.IdentityProvider{APIURL: srv.URL}, nil, newNoopLogger())

		_, err := client.GetRole(context.Background(), "user_1")
		require.Error(t, err)
	})

	t.Run("cache hit skips provider", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Fatal("provider must not be called on cache hit")
		}))
		defer srv.Close()

		cacheMock := new(CacheMock)
		cacheMock.On("Get", "identity:role:user_1", mock.Anything).Return(true, nil).Once()

		client := NewClient(config.IdentityProvider{APIURL: srv.URL}, cacheMock, newNoopLogger())

		role, err := client.GetRole(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Equal(t, "admin", role)
		cacheMock.AssertExpectations(t)
	})

	t.Run("cache miss stores fetched role", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"role":"user"}`))
		}))
		defer srv.Close()

		cacheMock := new(CacheMock)
		cacheMock.On("Get", "identity:role:user_1", mock.Anything).Return(false, nil).Once()
		cacheMock.On("Set", "identity:role:user_1", "user", mock.Anything).Return(nil).Once()

		client := NewClient(config.IdentityProvider{APIURL: srv.URL}, cacheMock, newNoopLogger())

		role, err := client.GetRole(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Equal(t, RoleUser, role)
		cacheMock.AssertExpectations(t)
	})
}
