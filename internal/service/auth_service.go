package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/repository"
	"github.com/moricehq/morice-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
	DeleteExpiredSessions(ctx context.Context) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	City        string
	Phone       string
	ProfileType string
	HasLawyer   bool
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput содержит изменяемые поля профиля.
type UpdateProfileInput struct {
	FirstName   string
	LastName    string
	City        string
	Phone       string
	ProfileType string
	HasLawyer   bool
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("auth service: cette adresse e-mail est déjà enregistrée")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	profileType := in.ProfileType
	if profileType == "" {
		profileType = models.ProfileTypeIndividual
	}
	if _, ok := models.ValidProfileTypes[profileType]; !ok {
		return nil, fmt.Errorf("auth service: type de profil inconnu")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hachage du mot de passe impossible: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(passHash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		ProfileType:  profileType,
		HasLawyer:    in.HasLawyer,
	}
	if city := strings.TrimSpace(in.City); city != "" {
		user.City = &city
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, meta)
}

// Login проверяет учётные данные и выпускает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("auth service: identifiants invalides")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: identifiants invalides")
	}

	if !user.IsActive {
		return nil, fmt.Errorf("auth service: compte désactivé")
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, meta)
}

// Refresh обменивает refresh токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta map[string]string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	if _, err := s.repo.GetSession(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, fmt.Errorf("auth service: session expirée, reconnectez-vous")
		}
		return nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Ротация: старая сессия удаляется, выпускается новая пара.
	if err := s.repo.DeleteSession(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, meta)
}

// Logout удаляет сессию.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// PurgeExpiredSessions удаляет просроченные сессии. Вызывается периодически
// из фоновой задачи сервера.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.repo.DeleteExpiredSessions(ctx)
}

// GetUser возвращает пользователя по идентификатору.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile обновляет профиль пользователя. Изменение телефона влияет на
// WhatsApp-канал уведомлений.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if in.ProfileType != "" {
		if _, ok := models.ValidProfileTypes[in.ProfileType]; !ok {
			return nil, fmt.Errorf("auth service: type de profil inconnu")
		}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(in.City); v != "" {
		user.City = &v
	} else {
		user.City = nil
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = &v
	} else {
		user.Phone = nil
	}
	if in.ProfileType != "" {
		user.ProfileType = in.ProfileType
	}
	user.HasLawyer = in.HasLawyer

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// issueTokens выпускает пару токенов и сохраняет сессию.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User, meta map[string]string) (*AuthResult, error) {
	tokenPair, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	if meta != nil {
		if ua, ok := meta["user_agent"]; ok && ua != "" {
			session.UserAgent = &ua
		}
		if ip, ok := meta["ip"]; ok && ip != "" {
			session.IPAddress = &ip
		}
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}
