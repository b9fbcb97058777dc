package models

import "net/http"

// ErrorResponse универсальный ответ API на ошибку
// @Description Стандартный ответ при возникновении ошибки
type ErrorResponse struct {
	// Флаг успешного выполнения (всегда false)
	Success bool `json:"success" example:"false"`
	// HTTP статус код
	StatusCode int `json:"status_code" example:"400"`
	// Тип ошибки
	ErrorType string `json:"error_type" example:"Bad Request"`
	// Описание ошибки
	Message string `json:"message" example:"Invalid request parameters"`
	// Дополнительная информация об ошибке (опционально)
	Details any `json:"details,omitempty"`
}

// Типы ошибок API
const (
	ErrTypeBadRequest         = "Bad Request"
	ErrTypeUnauthorized       = "Unauthorized"
	ErrTypeNotFound           = "Not Found"
	ErrTypeInternal           = "Internal Server Error"
	ErrTypeServiceUnavailable = "Service Unavailable"
)

func NewErrorResponse(statusCode int, errorType, message string, details ...any) ErrorResponse {
	resp := ErrorResponse{
		StatusCode: statusCode,
		ErrorType:  errorType,
		Message:    message,
	}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	return resp
}

func BadRequestError(message string, details ...any) ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest, ErrTypeBadRequest, message, details...)
}

func UnauthorizedError(message string, details ...any) ErrorResponse {
	return NewErrorResponse(http.StatusUnauthorized, ErrTypeUnauthorized, message, details...)
}

func NotFoundError(message string, details ...any) ErrorResponse {
	return NewErrorResponse(http.StatusNotFound, ErrTypeNotFound, message, details...)
}

func InternalServerError(message string, details ...any) ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, ErrTypeInternal, message, details...)
}

func ServiceUnavailableError(message string, details ...any) ErrorResponse {
	return NewErrorResponse(http.StatusServiceUnavailable, ErrTypeServiceUnavailable, message, details...)
}
