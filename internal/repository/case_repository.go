package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/repository/common"
)

// ErrCaseNotFound возвращается, когда дело не найдено.
var ErrCaseNotFound = errors.New("case not found")

// CaseRepository отвечает за долговременное хранение дел.
// Запись всегда перезаписывается целиком: движок жизненного цикла собирает
// полное следующее состояние дела перед вызовом Upsert, частичных обновлений
// полей не существует.
type CaseRepository struct {
	db *sqlx.DB
}

// NewCaseRepository создаёт экземпляр репозитория.
func NewCaseRepository(db *sqlx.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Upsert вставляет дело или полностью заменяет существующую запись с тем же id.
func (r *CaseRepository) Upsert(ctx context.Context, c *models.Case) error {
	query := `
		INSERT INTO cases (id, user_id, case_type, description, amount, plaintiff, defendant,
			status, timeline, questions, documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			case_type = EXCLUDED.case_type,
			description = EXCLUDED.description,
			amount = EXCLUDED.amount,
			plaintiff = EXCLUDED.plaintiff,
			defendant = EXCLUDED.defendant,
			status = EXCLUDED.status,
			timeline = EXCLUDED.timeline,
			questions = EXCLUDED.questions,
			documents = EXCLUDED.documents,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		c.ID,
		c.UserID,
		c.CaseType,
		c.Description,
		c.Amount,
		c.Plaintiff,
		c.Defendant,
		c.Status,
		c.Timeline,
		c.Questions,
		c.Documents,
		c.CreatedAt,
	).Scan(&c.UpdatedAt); err != nil {
		return fmt.Errorf("case repository: upsert %w", err)
	}

	return nil
}

// GetByID возвращает дело по идентификатору.
func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Case, error) {
	return common.GetByID[models.Case](ctx, r.db, "cases", id, ErrCaseNotFound)
}

// LoadAll возвращает полный снимок всех дел.
func (r *CaseRepository) LoadAll(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	if err := r.db.SelectContext(ctx, &cases, `SELECT * FROM cases ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("case repository: load all %w", err)
	}

	return cases, nil
}

// LoadByUser возвращает дела конкретного пользователя.
func (r *CaseRepository) LoadByUser(ctx context.Context, userID uuid.UUID) ([]models.Case, error) {
	var cases []models.Case
	if err := r.db.SelectContext(ctx, &cases, `SELECT * FROM cases WHERE user_id = $1 ORDER BY created_at DESC`, userID); err != nil {
		return nil, fmt.Errorf("case repository: load by user %w", err)
	}

	return cases, nil
}

// CountByStatus возвращает количество дел пользователя в каждом статусе.
func (r *CaseRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM cases WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("case repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("case repository: count by status scan %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}
