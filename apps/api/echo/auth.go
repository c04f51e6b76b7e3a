package echoapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
)

const (
	apiKeyHeader       = "x-api-key"
	bearerScheme       = "Bearer"
	contextClaimsKey   = "userClaims"
	contextUserKey     = "user"
	contextIdentityKey = "identity"
	tokenAudience      = "englishpoc"
)

var (
	errInvalidAPIKey    = echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
	errNotAuthorized    = echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	errUserNotFound     = echo.NewHTTPError(http.StatusUnauthorized, "not authorized, user not found")
	errNoCredentials    = echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no credential supplied")
	errNotAuthenticated = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	errInvalidLogin     = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	errRefreshExpired   = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errBearerRequired   = echo.NewHTTPError(http.StatusForbidden, "token refresh requires a bearer token")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Username     string `json:"username,omitempty"`
	Role         string `json:"role,omitempty"`
}

func GetUserClaims(conf *core.Config, usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Username:     usr.Username,
		Role:         usr.Role.String(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies the signature & expiry of a token generated by GenerateToken.
func ParseToken(conf *core.Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parsing token")
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// authMiddleware authenticates every request either by API key (system callers) or by bearer token (users).
// An API key, when sent, is authoritative: a bad key is rejected even if a valid token is also sent.
func authMiddleware(conf *core.Config, svc user.ServiceInterface, m *metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			if key := req.Header.Get(apiKeyHeader); key != "" {
				if !isValidAPIKey(conf.APIClientKeys, key) {
					m.authAttempt(authMethodAPIKey, authOutcomeRejected)
					return errInvalidAPIKey
				}
				m.authAttempt(authMethodAPIKey, authOutcomeAccepted)
				setContextIdentity(ctx, user.SystemIdentity)
				return next(ctx)
			}

			scheme, token, found := strings.Cut(req.Header.Get(echo.HeaderAuthorization), " ")
			if !found || scheme != bearerScheme {
				m.authAttempt(authMethodNone, authOutcomeRejected)
				return errNoCredentials
			}

			claims, err := ParseToken(conf, strings.TrimSpace(token))
			if err != nil {
				m.authAttempt(authMethodBearer, authOutcomeRejected)
				return errNotAuthorized
			}

			// always resolve a fresh user: it may have been deleted or had its role changed
			usr, err := svc.GetByID(req.Context(), claims.Subject)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					m.authAttempt(authMethodBearer, authOutcomeUnknownUser)
					return errUserNotFound
				}
				return errors.Wrap(err, "finding user by ID")
			}

			m.authAttempt(authMethodBearer, authOutcomeAccepted)
			ctx.Set(contextClaimsKey, *claims)
			ctx.Set(contextUserKey, usr)
			setContextIdentity(ctx, usr.Identity())
			return next(ctx)
		}
	}
}

// isValidAPIKey compares key against every allowed key in constant time.
func isValidAPIKey(allowed []string, key string) bool {
	var valid int
	for _, k := range allowed {
		valid |= subtle.ConstantTimeCompare([]byte(k), []byte(key))
	}
	return valid == 1
}

// setContextIdentity threads the identity through both the echo & the request contexts.
func setContextIdentity(ctx echo.Context, id user.Identity) {
	ctx.Set(contextIdentityKey, id)
	req := ctx.Request()
	ctx.SetRequest(req.WithContext(user.NewContext(req.Context(), id)))
}

func getContextIdentity(ctx echo.Context) (user.Identity, bool) {
	if id, ok := ctx.Get(contextIdentityKey).(user.Identity); ok {
		return id, true
	}
	return user.FromContext(ctx.Request().Context())
}

func getContextClaims(ctx echo.Context) (Claims, bool) {
	claims, ok := ctx.Get(contextClaimsKey).(Claims)
	return claims, ok
}

func refreshToken(ctx echo.Context, conf *core.Config) (string, error) {
	claims, ok := getContextClaims(ctx)
	if !ok {
		return "", errBearerRequired
	}
	usr, ok := ctx.Get(contextUserKey).(user.User)
	if !ok {
		return "", errNotAuthenticated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := GenerateToken(conf, GetUserClaims(conf, usr, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
