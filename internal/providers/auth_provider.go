package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"talentpay/internal/models"
	"talentpay/internal/structures"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

const defaultRoleClaim = "app_role"

var (
	ErrMissingToken = errors.New("authorization header required")
	ErrInvalidToken = errors.New("invalid token")
)

type identityKey struct{}

type AuthProviderInterface interface {
	Identify(tokenString string) (models.Identity, error)
	Guard(roles []string) func(http.Handler) http.Handler
}

// AuthProvider validates HS256 bearer tokens issued by the hosted auth
// service. The subject is the user id; the role comes from a configurable
// claim, looked up at top level and then under app_metadata.
type AuthProvider struct {
	secret    []byte
	roleClaim string
	parser    *jwt.Parser
	logger    Logger
}

func NewAuthProvider(conf *structures.Config, logger Logger) AuthProviderInterface {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
	}
	if conf.Auth.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(conf.Auth.Issuer))
	}
	if conf.Auth.Audience != "" {
		opts = append(opts, jwt.WithAudience(conf.Auth.Audience))
	}

	roleClaim := conf.Auth.RoleClaim
	if roleClaim == "" {
		roleClaim = defaultRoleClaim
	}

	return &AuthProvider{
		secret:    []byte(conf.Auth.JwtSecret),
		roleClaim: roleClaim,
		parser:    jwt.NewParser(opts...),
		logger:    logger,
	}
}

func (a *AuthProvider) Identify(tokenString string) (models.Identity, error) {
	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return models.Identity{}, fmt.Errorf("%w: subject missing", ErrInvalidToken)
	}

	role := models.Role(a.lookupRole(claims))
	if !role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, role)
	}

	return models.Identity{UserID: sub, Role: role}, nil
}

func (a *AuthProvider) lookupRole(claims jwt.MapClaims) string {
	if role, ok := claims[a.roleClaim].(string); ok {
		return role
	}
	if meta, ok := claims["app_metadata"].(map[string]any); ok {
		if role, ok := meta[a.roleClaim].(string); ok {
			return role
		}
	}
	return ""
}

// Guard authenticates the request and lets it through only when the
// caller holds one of roles.
func (a *AuthProvider) Guard(roles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, ErrMissingToken)
				return
			}
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				writeAuthError(w, http.StatusUnauthorized, errors.New("invalid authorization header format"))
				return
			}

			identity, err := a.Identify(tokenString)
			if err != nil {
				a.logger.Warnf(TypeApp, "Rejected token on %s %s: %s", r.Method, r.URL.Path, err)
				writeAuthError(w, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			if !slices.Contains(roles, string(identity.Role)) {
				writeAuthError(w, http.StatusForbidden, models.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(models.Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
