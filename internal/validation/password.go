package validation

import (
	"fmt"
	"unicode"
)

// ValidatePassword проверяет пароль на соответствие требованиям безопасности:
// минимум 8 символов, заглавные и строчные буквы, цифры.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("le mot de passe doit contenir au moins 8 caractères")
	}

	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("le mot de passe doit contenir au moins une lettre majuscule")
	}
	if !hasLower {
		return fmt.Errorf("le mot de passe doit contenir au moins une lettre minuscule")
	}
	if !hasNumber {
		return fmt.Errorf("le mot de passe doit contenir au moins un chiffre")
	}

	return nil
}
