package service

import (
	"encoding/json"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/pkg/apperror"
)

// defaultQuestions возвращает статический набор уточняющих вопросов,
// назначаемый каждому делу при создании. Содержимое - конфигурация, не логика.
func defaultQuestions() models.QuestionSet {
	return models.QuestionSet{
		{
			ID:   1,
			Text: "Avez-vous tenté une résolution amiable directe avec la partie adverse ?",
			Type: models.QuestionTypeBoolean,
		},
		{
			ID:   2,
			Text: "Disposez-vous de témoins de la prestation défaillante ?",
			Type: models.QuestionTypeBoolean,
		},
		{
			ID:      3,
			Text:    "Quel délai maximum accepteriez-vous pour une résolution ?",
			Type:    models.QuestionTypeChoice,
			Options: []string{"1 mois", "3 mois", "6 mois", "Plus de 6 mois"},
		},
	}
}

// ensureQuestions лениво заполняет набор вопросов, если дело хранится без него.
// Возвращает true, если набор был дозаполнен.
func ensureQuestions(c *models.Case) bool {
	if len(c.Questions) > 0 {
		return false
	}
	c.Questions = defaultQuestions()
	return true
}

// applyAnswer записывает ответ на вопрос с проверкой типа.
// Булев ответ трёхзначный (true/false/null), выбор должен совпадать с одним
// из вариантов. Повторный ответ перезаписывает предыдущий.
func applyAnswer(c *models.Case, questionID int, answer json.RawMessage) error {
	var q *models.Question
	for i := range c.Questions {
		if c.Questions[i].ID == questionID {
			q = &c.Questions[i]
			break
		}
	}
	if q == nil {
		return apperror.ErrQuestionNotFound
	}

	if len(answer) == 0 || string(answer) == "null" {
		return apperror.New(apperror.ErrCodeValidation, "la réponse est obligatoire")
	}

	switch q.Type {
	case models.QuestionTypeBoolean:
		var v bool
		if err := json.Unmarshal(answer, &v); err != nil {
			return apperror.New(apperror.ErrCodeValidation, "la réponse doit être oui ou non")
		}
	case models.QuestionTypeChoice:
		var v string
		if err := json.Unmarshal(answer, &v); err != nil {
			return apperror.New(apperror.ErrCodeValidation, "la réponse doit être une des options proposées")
		}
		valid := false
		for _, opt := range q.Options {
			if v == opt {
				valid = true
				break
			}
		}
		if !valid {
			return apperror.New(apperror.ErrCodeValidation, "la réponse doit être une des options proposées")
		}
	default:
		return apperror.New(apperror.ErrCodeInternal, "type de question inconnu")
	}

	q.Answer = answer
	return nil
}
