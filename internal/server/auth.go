package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/prbeaches/directory/api/internal/config"
	commonhttp "github.com/prbeaches/directory/api/internal/interfaces/http/common"
	"github.com/prbeaches/directory/api/internal/logging"
)

var (
	errAuthNotConfigured = errors.New("authentication is not configured")
	errInvalidToken      = errors.New("access token is invalid")
)

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// authenticator verifies HS256 bearer tokens against every configured issuer.
type authenticator struct {
	configs       []config.JWTConfig
	audience      string
	adminSubjects map[string]struct{}
	now           func() time.Time
}

func newAuthenticator(cfg config.AuthConfig) *authenticator {
	subjects := make(map[string]struct{}, len(cfg.AdminSubjects))
	for _, subject := range cfg.AdminSubjects {
		if subject = strings.TrimSpace(subject); subject != "" {
			subjects[subject] = struct{}{}
		}
	}
	return &authenticator{
		configs:       cfg.JWTConfigs(),
		audience:      strings.TrimSpace(cfg.Audience),
		adminSubjects: subjects,
		now:           time.Now,
	}
}

// middleware reads the Authorization header and stores the authenticated user in context.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger(r)

		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteMessage(logger, w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteMessage(logger, w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "a Bearer token is required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteMessage(logger, w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "access token is empty")
			return
		}

		claims, err := a.parse(tokenString)
		if err != nil {
			logger.Debug().Err(err).Msg("rejected access token")
			commonhttp.WriteMessage(logger, w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:       claims.Subject,
			Issuer:   claims.Issuer,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Picture:  claims.Picture,
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

// adminOnly must run after middleware. It admits only allowlisted subjects.
func (a *authenticator) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := commonhttp.UserFromContext(r.Context())
		if !ok {
			commonhttp.WriteMessage(a.logger(r), w, http.StatusUnauthorized, commonhttp.CodeUnauthorized, "authentication required")
			return
		}
		if _, allowed := a.adminSubjects[user.ID]; !allowed {
			logger := a.logger(r)
			logger.Warn().Str("subject", user.ID).Str("path", r.URL.Path).Msg("admin access denied")
			commonhttp.WriteMessage(logger, w, http.StatusForbidden, commonhttp.CodeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parse tries each issuer in turn and checks signature, issuer, time window, subject and
// audience.
func (a *authenticator) parse(tokenString string) (*authClaims, error) {
	if len(a.configs) == 0 {
		return nil, errAuthNotConfigured
	}

	for _, cfg := range a.configs {
		claims := &authClaims{}
		opts := []jwt.ParserOption{
			jwt.WithLeeway(30 * time.Second),
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(a.now),
		}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}
		if a.audience != "" {
			opts = append(opts, jwt.WithAudience(a.audience))
		}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, opts...)
		if err != nil || !token.Valid {
			continue
		}
		if strings.TrimSpace(claims.Subject) == "" {
			continue
		}
		return claims, nil
	}

	return nil, errInvalidToken
}

func (a *authenticator) logger(r *http.Request) zerolog.Logger {
	return *logging.Ctx(r.Context())
}
