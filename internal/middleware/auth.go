package middleware

import (
	"context"
	"net/http"
	"time"

	"stroymart/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthClaims are the token claims issued by the auth provider. Roles are
// carried as a plain string array and checked by the role middleware.
type AuthClaims struct {
	Roles []string `json:"roles"`
	Phone string   `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// NewJWTConfig builds the echo-jwt configuration. With a JWKS URL the
// token signature is verified against the managed auth provider's key
// set; otherwise the shared HS256 secret is used.
func NewJWTConfig(secret, jwksURL string) (echojwt.Config, error) {
	cfg := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AuthClaims)
		},
		SuccessHandler: populateIdentity,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return cfg, err
		}
		cfg.KeyFunc = jwks.Keyfunc
	} else {
		cfg.SigningKey = []byte(secret)
	}
	return cfg, nil
}

// populateIdentity copies the verified claims into the request context.
// Identity is request-scoped; nothing about the caller is kept in
// process-wide state.
func populateIdentity(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}

	ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
	ctx = context.WithValue(ctx, common.RolesKey, claims.Roles)
	c.SetRequest(c.Request().WithContext(ctx))
}
