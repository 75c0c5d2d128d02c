package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength        = 2
	MaxNameLength        = 100
	MinPasswordLength    = 6
	MaxPasswordLength    = 72
	MinDescriptionLength = 5
	MaxDescriptionLength = 2000
	MaxLocationLength    = 200
	MaxBudgetLength      = 100
	MinReasonLength      = 3
	MaxReasonLength      = 500
	MaxNotesLength       = 2000
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidatePhone проверяет формат номера телефона.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("номер телефона обязателен")
	}
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("неверный формат номера телефона")
	}
	return nil
}

// ValidatePassword проверяет длину пароля.
func ValidatePassword(password string) error {
	return ValidateLength("пароль", password, MinPasswordLength, MaxPasswordLength)
}

// ValidateName проверяет имя пользователя.
func ValidateName(name string) error {
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateDealDescription проверяет описание работы в запросе.
func ValidateDealDescription(description string) error {
	return ValidateLength("описание", strings.TrimSpace(description), MinDescriptionLength, MaxDescriptionLength)
}

// ValidateReason проверяет причину жалобы или блокировки.
func ValidateReason(reason string) error {
	return ValidateLength("причина", strings.TrimSpace(reason), MinReasonLength, MaxReasonLength)
}
