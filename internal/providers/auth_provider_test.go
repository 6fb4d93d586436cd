package providers

import (
	"net/http"
	"net/http/httptest"
	"talentpay/internal/models"
	"talentpay/internal/structures"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func authConfig() *structures.Config {
	return &structures.Config{
		Auth: structures.AuthConfig{JwtSecret: testSecret},
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "user-1",
		"app_role": role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthProvider_IdentifyValidToken(t *testing.T) {
	a := NewAuthProvider(authConfig(), &cacheTestLogger{})

	id, err := a.Identify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("admin")))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, models.RoleAdmin, id.Role)
}

func TestAuthProvider_IdentifyRoleInAppMetadata(t *testing.T) {
	a := NewAuthProvider(authConfig(), &cacheTestLogger{})
	claims := jwt.MapClaims{
		"sub":          "user-2",
		"exp":          time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]any{"app_role": "talent"},
	}

	id, err := a.Identify(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims))
	require.NoError(t, err)
	assert.Equal(t, models.RoleTalent, id.Role)
}

func TestAuthProvider_IdentifyRejects(t *testing.T) {
	a := NewAuthProvider(authConfig(), &cacheTestLogger{})

	cases := map[string]string{
		"wrong_secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims("admin")),
		"unknown_role": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("owner")),
		"expired": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "u", "app_role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
		}),
		"no_subject": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"app_role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"wrong_alg": signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("admin")),
		"garbage":   "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := a.Identify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthProvider_CustomRoleClaim(t *testing.T) {
	conf := authConfig()
	conf.Auth.RoleClaim = "role_name"
	a := NewAuthProvider(conf, &cacheTestLogger{})

	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": "u", "role_name": "talent", "exp": time.Now().Add(time.Hour).Unix(),
	})
	id, err := a.Identify(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTalent, id.Role)
}

func guardedRequest(t *testing.T, a AuthProviderInterface, roles []string, header string) (*httptest.ResponseRecorder, *models.Identity) {
	var seen *models.Identity
	h := a.Guard(roles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if ok {
			seen = &id
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me/periods", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, seen
}

func TestAuthProvider_Guard(t *testing.T) {
	a := NewAuthProvider(authConfig(), &cacheTestLogger{})
	talent := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("talent"))

	rr, _ := guardedRequest(t, a, []string{"admin"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"authorization header required"}`, rr.Body.String())

	rr, _ = guardedRequest(t, a, []string{"admin"}, "Token "+talent)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = guardedRequest(t, a, []string{"admin"}, "Bearer "+talent)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, seen := guardedRequest(t, a, []string{"admin", "talent"}, "Bearer "+talent)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, ok := IdentityFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
