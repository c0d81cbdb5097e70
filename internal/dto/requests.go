package dto

import "encoding/json"

// RegisterRequest - тело запроса регистрации.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	ProfileType string `json:"profile_type"`
	HasLawyer   bool   `json:"has_lawyer"`
}

// LoginRequest - тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest - тело запроса обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest - тело запроса обновления профиля.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	ProfileType string `json:"profile_type"`
	HasLawyer   bool   `json:"has_lawyer"`
}

// SubmitCaseRequest - тело запроса подачи дела.
type SubmitCaseRequest struct {
	CaseType    string   `json:"case_type" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Amount      *float64 `json:"amount"`
	Plaintiff   string   `json:"plaintiff" binding:"required"`
	Defendant   string   `json:"defendant" binding:"required"`
	DocumentIDs []string `json:"document_ids"`
}

// AnswerRequest - тело запроса ответа на уточняющий вопрос.
// Answer остаётся сырым JSON: boolean вопросы принимают true/false,
// choice - строку из списка вариантов.
type AnswerRequest struct {
	QuestionID int             `json:"question_id" binding:"required"`
	Answer     json.RawMessage `json:"answer" binding:"required"`
}

// ChatMessageRequest - тело запроса к ассистенту.
type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}
