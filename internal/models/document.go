package models

import (
	"time"

	"github.com/google/uuid"
)

// Document описывает загруженный документ-доказательство.
type Document struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Ref возвращает непрозрачную ссылку для хранения внутри дела.
func (d *Document) Ref() DocumentRef {
	return DocumentRef{ID: d.ID, FileName: d.FileName}
}
