package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"marie@example.com",
		"jean.tremblay+litige@mail.example.ca",
		"UPPER@EXAMPLE.COM",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("адрес %q должен проходить проверку: %v", email, err)
		}
	}

	invalid := []string{
		"",
		"sans-arobase",
		"deux@@example.com",
		"local@domaine-sans-point",
		"espace dans@example.com",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("адрес %q должен быть отклонён", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	if err := ValidatePhone(""); err != nil {
		t.Errorf("пустой телефон опционален: %v", err)
	}

	valid := []string{"+15145551234", "514-555-1234", "514 555 1234"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("номер %q должен проходить проверку: %v", phone, err)
		}
	}

	invalid := []string{"abc", "+1", "514555@234"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err == nil {
			t.Errorf("номер %q должен быть отклонён", phone)
		}
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("Prestation de service non conforme au contrat."); err != nil {
		t.Errorf("валидное описание отклонено: %v", err)
	}
	if err := ValidateDescription("   "); err == nil {
		t.Error("пустое описание должно быть отклонено")
	}
	if err := ValidateDescription("court"); err == nil {
		t.Error("слишком короткое описание должно быть отклонено")
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(nil); err != nil {
		t.Errorf("сумма опциональна: %v", err)
	}

	ok := 2500.0
	if err := ValidateAmount(&ok); err != nil {
		t.Errorf("валидная сумма отклонена: %v", err)
	}

	negative := -1.0
	if err := ValidateAmount(&negative); err == nil {
		t.Error("отрицательная сумма должна быть отклонена")
	}

	tooBig := 200000000.0
	if err := ValidateAmount(&tooBig); err == nil {
		t.Error("сумма сверх лимита должна быть отклонена")
	}
}
