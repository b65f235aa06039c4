package delivery

import (
	"errors"
	"net/http"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
)

// StorageHandler streams stored PDFs to authenticated clients. These are the
// URLs the document viewer loads, so the responses carry the content type and
// an inline disposition rather than forcing a download.
type StorageHandler struct {
	paperUC domain.PaperUseCase
	noteUC  domain.NoteUseCase
}

func NewStorageHandler(r *gin.Engine, paperUC domain.PaperUseCase, noteUC domain.NoteUseCase, jwtManager *utils.JWTManager) {
	handler := &StorageHandler{paperUC: paperUC, noteUC: noteUC}

	storage := r.Group("/storage")
	storage.Use(config.AuthMiddleware(jwtManager))
	{
		storage.GET("/papers/:id", handler.ServePaper)
		storage.GET("/notes/:id", handler.ServeNote)
	}
}

func (h *StorageHandler) ServePaper(c *gin.Context) {
	userID := c.GetString("userID")
	f, paper, err := h.paperUC.OpenPaperFile(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		utils.PrintLogInfo(&userID, status, "ServePaper", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to open file",
			"error":   utils.TranslateDBError(err),
		})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+paper.OriginalFilename+`"`)
	http.ServeContent(c.Writer, c.Request, paper.OriginalFilename, paper.UpdatedAt, f)
}

func (h *StorageHandler) ServeNote(c *gin.Context) {
	userID := c.GetString("userID")
	f, note, err := h.noteUC.OpenNoteFile(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		utils.PrintLogInfo(&userID, status, "ServeNote", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to open file",
			"error":   utils.TranslateDBError(err),
		})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+note.OriginalFilename+`"`)
	http.ServeContent(c.Writer, c.Request, note.OriginalFilename, note.UpdatedAt, f)
}
