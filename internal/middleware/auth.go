package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mdemidenko/homework-bot/internal/models"
)

const (
	issuer = "homework-bot"
	// UsernameKey ключ gin.Context с именем аутентифицированного пользователя
	UsernameKey = "username"
)

// Claims утверждения токена статус-API
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Abort отвечает конвертом ErrorResponse и прерывает цепочку обработчиков
func Abort(c *gin.Context, resp models.ErrorResponse) {
	c.AbortWithStatusJSON(resp.StatusCode, resp)
}

// AuthMiddleware пропускает запрос только с действующим Bearer токеном, подписанным secret
func AuthMiddleware(secret string) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (any, error) { return []byte(secret), nil }
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			Abort(c, models.UnauthorizedError(err.Error()))
			return
		}

		claims := &Claims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			Abort(c, models.UnauthorizedError("Invalid token", err.Error()))
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("Authorization header is required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("Bearer token is required")
	}
	return strings.TrimSpace(token), nil
}

// GenerateJWTToken выпускает HS256 токен на hours часов
func GenerateJWTToken(username, secret string, hours int) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   username,
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
