package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/models"
	"github.com/moricehq/morice-backend/internal/repository"
	"github.com/moricehq/morice-backend/internal/service"
	"github.com/moricehq/morice-backend/internal/storage"
)

// Разрешённые типы документов-доказательств.
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// Разрешённые расширения файлов.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// DocumentHandler управляет загрузкой и удалением документов.
type DocumentHandler struct {
	repo    *repository.DocumentRepository
	storage *storage.DocumentStorage
}

// NewDocumentHandler создаёт хэндлер.
func NewDocumentHandler(repo *repository.DocumentRepository, storage *storage.DocumentStorage) *DocumentHandler {
	return &DocumentHandler{repo: repo, storage: storage}
}

// Upload обрабатывает POST /documents.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "le champ file est requis"})
		return
	}

	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "le fichier ne peut pas être vide"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("format non supporté. Formats acceptés : %s", strings.Join(listAllowedExtensions(), ", ")),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	// Проверка магических байтов: расширению доверять нельзя.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "impossible de lire le fichier"})
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "type de fichier non reconnu. Seuls PDF, JPG et PNG sont acceptés",
		})
		return
	}

	contentType := kind.MIME.Value
	if !allowedMimeTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("type de fichier non supporté (%s)", contentType),
		})
		return
	}

	expectedExt := "." + kind.Extension
	if ext != expectedExt && !(ext == ".jpg" && expectedExt == ".jpeg") && !(ext == ".jpeg" && expectedExt == ".jpg") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("l'extension (%s) ne correspond pas au type réel du fichier (%s)", ext, expectedExt),
		})
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "impossible de relire le fichier"})
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), userID, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doc := &models.Document{
		UserID:   userID,
		FileName: file.Filename,
		FilePath: filepath.ToSlash(relativePath),
		FileType: contentType,
		FileSize: size,
	}

	if err := h.repo.Create(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Scan обрабатывает POST /documents/:id/scan. Разбор текста симулируется:
// клиент присылает извлечённый текст, сервер строит структурированный отчёт.
func (h *DocumentHandler) Scan(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de document invalide"})
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if doc.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "accès refusé à ce document"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, service.ScanText(req.Text))
}

// Delete обрабатывает DELETE /documents/:id.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant de document invalide"})
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), docID)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document introuvable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if doc.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "accès refusé à ce document"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), docID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), doc.FilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// listAllowedExtensions возвращает список разрешённых расширений.
func listAllowedExtensions() []string {
	exts := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		exts = append(exts, ext)
	}
	return exts
}
