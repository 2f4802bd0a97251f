package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	goToken "github.com/MrEthical07/goToken"
)

// Decoder verifies a token. *goToken.Engine implements it.
type Decoder interface {
	Decode(token string) (*goToken.TokenData, error)
}

// Check inspects verified claims. A non-nil error rejects the request with 403.
type Check func(data *goToken.TokenData) error

// Guard decodes the bearer token, runs checks in order and hands the claims to
// next through the request context.
func Guard(engine Decoder, checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := zerolog.Ctx(r.Context())
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Debug().Str("path", r.URL.Path).Msg("missing bearer token")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			data, err := engine.Decode(token)
			if err != nil {
				log.Debug().Str("path", r.URL.Path).Err(err).Msg("token rejected")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			for _, check := range checks {
				if err := check(data); err != nil {
					log.Debug().Str("path", r.URL.Path).Err(err).Msg("claims rejected")
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}

			ctx := goToken.WithTokenData(r.Context(), data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireToken rejects requests without a token the engine accepts.
func RequireToken(engine Decoder) func(http.Handler) http.Handler {
	return Guard(engine)
}

// RequireClaims is RequireToken plus a 403 when any named claim is absent.
func RequireClaims(engine Decoder, names ...string) func(http.Handler) http.Handler {
	return Guard(engine, HasClaims(names...))
}

// HasClaims returns a Check that fails on the first absent claim.
func HasClaims(names ...string) Check {
	return func(data *goToken.TokenData) error {
		for _, name := range names {
			if !data.Has(name) {
				return &goToken.MissingClaimError{Name: name}
			}
		}
		return nil
	}
}

// ClaimEquals returns a Check that requires claim name to be the string want.
func ClaimEquals(name, want string) Check {
	return func(data *goToken.TokenData) error {
		got, err := data.String(name)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("claim %q is %q, want %q", name, got, want)
		}
		return nil
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
