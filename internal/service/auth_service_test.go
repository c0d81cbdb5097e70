package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/repository"
)

// mockAuthRepository хранит пользователей и сессии в памяти.
type mockAuthRepository struct {
	users    map[string]*models.User
	sessions map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	user.IsActive = true
	user.CreatedAt = time.Now()
	m.users[user.Email] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLoginAt = &now
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	session, ok := m.sessions[refreshToken]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, ok := m.sessions[refreshToken]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) DeleteExpiredSessions(ctx context.Context) error {
	now := time.Now()
	for token, session := range m.sessions {
		if session.ExpiresAt.Before(now) {
			delete(m.sessions, token)
		}
	}
	return nil
}

func newTestAuthService() (*AuthService, *mockAuthRepository) {
	repo := newMockAuthRepository()
	tokens := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
	return NewAuthService(repo, tokens), repo
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:       "marie.gagnon@example.com",
		Password:    "MotDePasse123!",
		FirstName:   "Marie",
		LastName:    "Gagnon",
		City:        "Montréal",
		Phone:       "+15145551234",
		ProfileType: models.ProfileTypeIndividual,
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}

	if result.User.ID == uuid.Nil {
		t.Fatal("пользователю не присвоен идентификатор")
	}
	if result.User.Email != "marie.gagnon@example.com" {
		t.Fatalf("email не нормализован: %q", result.User.Email)
	}
	if result.User.PasswordHash == "MotDePasse123!" {
		t.Fatal("пароль сохранён в открытом виде")
	}
	if !result.User.HasPhone() {
		t.Fatal("телефон должен быть сохранён")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Fatal("пара токенов не выпущена")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получено %d", len(repo.sessions))
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput(), nil); err != nil {
		t.Fatalf("первая регистрация не должна падать: %v", err)
	}

	if _, err := svc.Register(ctx, validRegisterInput(), nil); err == nil {
		t.Fatal("повторная регистрация с тем же email должна быть отклонена")
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	in := validRegisterInput()
	in.Email = "pas-un-email"
	if _, err := svc.Register(ctx, in, nil); err == nil {
		t.Fatal("невалидный email должен быть отклонён")
	}

	in = validRegisterInput()
	in.ProfileType = "gouvernement"
	if _, err := svc.Register(ctx, in, nil); err == nil {
		t.Fatal("неизвестный тип профиля должен быть отклонён")
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput(), nil); err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}

	result, err := svc.Login(ctx, LoginInput{Email: "marie.gagnon@example.com", Password: "MotDePasse123!"}, nil)
	if err != nil {
		t.Fatalf("вход с верными данными не должен падать: %v", err)
	}
	if result.User.LastLoginAt == nil {
		t.Fatal("время последнего входа не обновлено")
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "marie.gagnon@example.com", Password: "неверный"}, nil); err == nil {
		t.Fatal("вход с неверным паролем должен быть отклонён")
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "inconnu@example.com", Password: "MotDePasse123!"}, nil); err == nil {
		t.Fatal("вход несуществующего пользователя должен быть отклонён")
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}
	repo.users[result.User.Email].IsActive = false

	if _, err := svc.Login(ctx, LoginInput{Email: "marie.gagnon@example.com", Password: "MotDePasse123!"}, nil); err == nil {
		t.Fatal("вход в деактивированный аккаунт должен быть отклонён")
	}
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}
	oldToken := result.TokenPair.RefreshToken

	refreshed, err := svc.Refresh(ctx, oldToken, nil)
	if err != nil {
		t.Fatalf("обмен refresh токена не должен падать: %v", err)
	}
	if refreshed.TokenPair.RefreshToken == oldToken {
		t.Fatal("refresh токен должен быть заменён новым")
	}
	if _, ok := repo.sessions[oldToken]; ok {
		t.Fatal("старая сессия должна быть удалена")
	}
	if _, ok := repo.sessions[refreshed.TokenPair.RefreshToken]; !ok {
		t.Fatal("новая сессия должна быть сохранена")
	}

	// Повторное использование старого токена - признак кражи, отклоняем.
	if _, err := svc.Refresh(ctx, oldToken, nil); err == nil {
		t.Fatal("повторный обмен удалённого токена должен быть отклонён")
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}

	if err := svc.Logout(ctx, result.TokenPair.RefreshToken); err != nil {
		t.Fatalf("logout не должен падать: %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Fatal("сессия должна быть удалена при выходе")
	}
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}

	// Просроченная сессия рядом с живой.
	repo.sessions["stale-token"] = &models.Session{
		UserID:       result.User.ID,
		RefreshToken: "stale-token",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}

	if err := svc.PurgeExpiredSessions(ctx); err != nil {
		t.Fatalf("чистка сессий не должна падать: %v", err)
	}

	if _, ok := repo.sessions["stale-token"]; ok {
		t.Fatal("просроченная сессия должна быть удалена")
	}
	if _, ok := repo.sessions[result.TokenPair.RefreshToken]; !ok {
		t.Fatal("живая сессия не должна быть затронута")
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, validRegisterInput(), nil)
	if err != nil {
		t.Fatalf("регистрация не должна падать: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, result.User.ID, UpdateProfileInput{
		FirstName:   "Marie-Ève",
		LastName:    "Gagnon",
		City:        "Québec",
		Phone:       "",
		ProfileType: models.ProfileTypeBusiness,
		HasLawyer:   true,
	})
	if err != nil {
		t.Fatalf("обновление профиля не должно падать: %v", err)
	}

	if updated.FirstName != "Marie-Ève" {
		t.Fatalf("имя не обновлено: %q", updated.FirstName)
	}
	if updated.City == nil || *updated.City != "Québec" {
		t.Fatal("город не обновлён")
	}
	if updated.HasPhone() {
		t.Fatal("пустой телефон должен отключать WhatsApp-канал")
	}
	if updated.ProfileType != models.ProfileTypeBusiness {
		t.Fatalf("тип профиля не обновлён: %q", updated.ProfileType)
	}
	if !updated.HasLawyer {
		t.Fatal("флаг наличия адвоката не обновлён")
	}
}
