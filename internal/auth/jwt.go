package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenExp  = time.Hour * 24 * 3 // 3 days
	DefaultRefreshTokenExp = time.Hour * 24 * 9 // 9 days
)

type Config struct {
	Secret          string
	RefreshSecret   string
	Audience        string
	Issuer          string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
}

type JWTAuthenticator struct {
	secret        string
	refreshSecret string
	aud           string
	iss           string
	accessExp     time.Duration
	refreshExp    time.Duration
}

func NewJWTAuthenticator(cfg Config) *JWTAuthenticator {
	a := &JWTAuthenticator{
		secret:        cfg.Secret,
		refreshSecret: cfg.RefreshSecret,
		aud:           cfg.Audience,
		iss:           cfg.Issuer,
		accessExp:     cfg.AccessTokenExp,
		refreshExp:    cfg.RefreshTokenExp,
	}
	if a.accessExp <= 0 {
		a.accessExp = DefaultAccessTokenExp
	}
	if a.refreshExp <= 0 {
		a.refreshExp = DefaultRefreshTokenExp
	}
	return a
}

// GenerateTokens generates both access and refresh tokens
func (a *JWTAuthenticator) GenerateTokens(userID int64, role string) (string, string, error) {
	now := time.Now()
	sub := strconv.FormatInt(userID, 10)

	accessClaims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  now.Add(a.accessExp).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"iss":  a.iss,
		"aud":  a.aud,
	}

	refreshClaims := jwt.MapClaims{
		"sub": sub,
		"exp": now.Add(a.refreshExp).Unix(),
		"iat": now.Unix(),
		"iss": a.iss,
	}

	accessToken, err := a.generateTokenWithClaims(accessClaims, a.secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := a.generateTokenWithClaims(refreshClaims, a.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (a *JWTAuthenticator) generateTokenWithClaims(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates the access token
func (a *JWTAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.secret,
		jwt.WithIssuer(a.iss),
		jwt.WithAudience(a.aud),
	)
}

// ValidateRefreshToken validates the refresh token
func (a *JWTAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.refreshSecret, jwt.WithIssuer(a.iss))
}

func (a *JWTAuthenticator) parse(token, secret string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append(opts,
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
}

// UserIDFromToken extracts the numeric subject of a validated token.
func UserIDFromToken(token *jwt.Token) (int64, error) {
	if token == nil || !token.Valid {
		return 0, ErrUnauthenticated
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUnauthenticated
	}
	return id, nil
}
