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

// ErrDocumentNotFound возвращается, когда документ не найден.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository отвечает за метаданные загруженных документов.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository создаёт экземпляр репозитория.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create сохраняет метаданные документа.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (user_id, file_name, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		doc.UserID,
		doc.FileName,
		doc.FilePath,
		doc.FileType,
		doc.FileSize,
	).Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return fmt.Errorf("document repository: create %w", err)
	}

	return nil
}

// GetByID возвращает документ по идентификатору.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return common.GetByID[models.Document](ctx, r.db, "documents", id, ErrDocumentNotFound)
}

// ListByIDs возвращает документы пользователя по списку идентификаторов.
func (r *DocumentRepository) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM documents WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("document repository: list by ids %w", err)
	}

	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("document repository: list by ids %w", err)
	}

	return docs, nil
}

// Delete удаляет метаданные документа.
func (r *DocumentRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("document repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("document repository: delete rows affected %w", err)
	}
	if rowsAffected == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
