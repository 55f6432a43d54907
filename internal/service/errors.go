package service

import "fmt"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewQuotaExceeded(limit int) *BusinessError {
	return &BusinessError{
		Code:    "QUOTA_EXCEEDED",
		Message: fmt.Sprintf("Дневной лимит чата исчерпан (%d сообщений)", limit),
		Details: map[string]any{
			"limit": limit,
		},
	}
}

func NewUnauthorized(reason string) *BusinessError {
	return &BusinessError{
		Code:    "UNAUTHORIZED",
		Message: "Доступ запрещён: " + reason,
	}
}

func NewEmailTaken(email string) *BusinessError {
	return &BusinessError{
		Code:    "EMAIL_TAKEN",
		Message: fmt.Sprintf("Пользователь с почтой %s уже зарегистрирован", email),
		Details: map[string]any{
			"email": email,
		},
	}
}
