package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "production-system/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse переводит ошибку сервиса в HTTP-ответ. Текст 500-х не раскрывается клиенту.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.StatusCode(err)
	message := err.Error()

	var validationErrs validator.ValidationErrors
	var httpErr *apperrors.HttpError
	switch {
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = formatValidationErrors(validationErrs)
	case errors.As(err, &httpErr):
		message = httpErr.Message
	}

	if code >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("Внутренняя ошибка при обработке запроса",
				zap.String("method", ctx.Request().Method),
				zap.String("path", ctx.Path()),
				zap.Error(err),
			)
		}
		message = apperrors.ErrInternalServer.Error()
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("поле %s не прошло проверку '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
