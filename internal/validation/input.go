package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 10000
	MinPartyNameLength   = 2
	MaxPartyNameLength   = 200
	MaxCityLength        = 100
	MinAmount            = 0.0
	MaxAmount            = 100000000.0 // 100 миллионов CAD
	MinMessageLength     = 1
	MaxMessageLength     = 2000
	MaxDocumentsPerCase  = 20
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s doit contenir au moins %d caractères", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s ne doit pas dépasser %d caractères", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s est obligatoire", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("l'adresse e-mail est obligatoire")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("format d'adresse e-mail invalide")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("format d'adresse e-mail invalide")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 || !strings.Contains(domainPart, ".") {
		return fmt.Errorf("format d'adresse e-mail invalide")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !localRegex.MatchString(localPart) || !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("format d'adresse e-mail invalide")
	}

	return nil
}

// ValidatePhone проверяет формат телефона (опциональное поле, для WhatsApp-канала).
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	phone = strings.TrimSpace(phone)
	phoneRegex := regexp.MustCompile(`^\+?[0-9][0-9 ().-]{6,19}$`)
	if !phoneRegex.MatchString(phone) {
		return fmt.Errorf("format de numéro de téléphone invalide")
	}

	return nil
}

// ValidatePartyName проверяет имя стороны спора.
func ValidatePartyName(fieldName, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s est obligatoire", fieldName)
	}
	return ValidateLength(fieldName, strings.TrimSpace(name), MinPartyNameLength, MaxPartyNameLength)
}

// ValidateDescription проверяет описание спора.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("la description du litige est obligatoire")
	}
	return ValidateLength("la description", strings.TrimSpace(description), MinDescriptionLength, MaxDescriptionLength)
}

// ValidateAmount проверяет сумму спора (опциональное поле).
func ValidateAmount(amount *float64) error {
	if amount == nil {
		return nil
	}
	if *amount < MinAmount {
		return fmt.Errorf("le montant ne peut pas être négatif")
	}
	if *amount > MaxAmount {
		return fmt.Errorf("le montant ne peut pas dépasser %.0f", MaxAmount)
	}
	return nil
}
