package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// Ошибки жизненного цикла сделки. Каждая несёт сообщение, пригодное
// для показа пользователю без дополнительной обработки.
var (
	ErrDealNotFound           = New(ErrCodeNotFound, "сделка не найдена")
	ErrDuplicateActiveRequest = New(ErrCodeConflict, "у вас уже есть активная сделка с этим исполнителем")
	ErrInvalidTransition      = New(ErrCodeConflict, "недопустимый переход статуса")
	ErrTerminalStateLocked    = New(ErrCodeConflict, "сделка находится в конечном статусе и не может быть изменена")
	ErrSuspendedActor         = New(ErrCodeForbidden, "аккаунт заблокирован")
	ErrNotEligibleForReview   = New(ErrCodeForbidden, "отзыв можно оставить только после завершения работы")
	ErrInvalidRating          = New(ErrCodeValidation, "рейтинг должен быть от 1 до 5")
	ErrAlreadyReviewed        = New(ErrCodeConflict, "вы уже оставили отзыв на эту сделку")
	ErrReportNotFound         = New(ErrCodeNotFound, "жалоба не найдена")
	ErrFlagNotFound           = New(ErrCodeNotFound, "скрытый отзыв не найден")
	ErrAlreadyResolved        = New(ErrCodeConflict, "жалоба уже рассмотрена")
	ErrUserNotFound           = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized           = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden              = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials     = New(ErrCodeUnauthorized, "неверные учетные данные")
)
