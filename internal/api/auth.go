package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdemidenko/homework-bot/internal/middleware"
	"github.com/mdemidenko/homework-bot/internal/models"
)

// LoginRequest запрос на аутентификацию
// @Description Запрос для получения JWT токена
type LoginRequest struct {
	// Логин пользователя
	Username string `json:"username" binding:"required,min=1" example:"admin"`
	// Пароль пользователя
	Password string `json:"password" binding:"required,min=1" example:"secure_password"`
}

// LoginResponse ответ с JWT токеном
// @Description Ответ с JWT токеном при успешной аутентификации
type LoginResponse struct {
	Success   bool      `json:"success" example:"true"`
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time `json:"expires_at" example:"2024-01-01T12:00:00Z"`
	TokenType string    `json:"token_type" example:"Bearer"`
}

// LoginHandler обработчик для аутентификации
// @Summary Аутентификация пользователя
// @Description Получение JWT токена по логину и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Данные для аутентификации"
// @Success 200 {object} LoginResponse "Успешная аутентификация"
// @Failure 400 {object} models.ErrorResponse "Некорректные данные запроса"
// @Failure 401 {object} models.ErrorResponse "Неверные учетные данные"
// @Router /api/auth/login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, models.BadRequestError("Invalid request", err.Error()))
		return
	}

	if req.Username != h.auth.Login || !h.checkPassword(req.Password) {
		middleware.Abort(c, models.UnauthorizedError("Invalid username or password"))
		return
	}

	token, expiresAt, err := middleware.GenerateJWTToken(req.Username, h.auth.JWTSecret, h.auth.JWTExpiration)
	if err != nil {
		middleware.Abort(c, models.InternalServerError("Failed to generate token", err.Error()))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	})
}

// checkPassword сверяет пароль с bcrypt хешем, а без хеша - с паролем из конфигурации
func (h *Handler) checkPassword(password string) bool {
	if h.auth.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.auth.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.auth.Password)) == 1
}
