package delivery

import (
	"errors"
	"net/http"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/dto"
	"github.com/kundanmehta01/UniNotes-sub001/middleware"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	noteUC domain.NoteUseCase
}

func NewNoteHandler(r *gin.Engine, noteUC domain.NoteUseCase, jwtManager *utils.JWTManager) {
	handler := &NoteHandler{noteUC: noteUC}

	notes := r.Group("/notes")
	notes.Use(config.AuthMiddleware(jwtManager))
	{
		notes.GET("", handler.List)
		notes.GET("/:id", handler.Get)
		notes.POST("", handler.Upload)
	}

	admin := r.Group("/notes")
	admin.Use(config.AuthMiddleware(jwtManager), middleware.AdminOnly())
	{
		admin.PATCH("/:id/moderate", handler.Moderate)
	}
}

func (h *NoteHandler) List(c *gin.Context) {
	var q dto.ListDocumentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid query",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	userID := c.GetString("userID")
	filter := dto.MapListQuery(&q, userID)
	notes, total, err := h.noteUC.ListNotes(c.Request.Context(), filter, userID, c.GetString("role"))
	if err != nil {
		utils.PrintLogInfo(nil, 500, "ListNotes", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list notes",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notes,
		"total":   total,
	})
}

func (h *NoteHandler) Get(c *gin.Context) {
	note, err := h.noteUC.GetNote(c.Request.Context(), c.Param("id"), c.GetString("userID"), c.GetString("role"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to fetch note",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    note,
	})
}

func (h *NoteHandler) Upload(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	data, filename, mimeType, ok := readUploadedPDF(c)
	if !ok {
		return
	}

	userID := c.GetString("userID")
	note, err := h.noteUC.UploadNote(c.Request.Context(), domain.DocumentUpload{
		Title:            req.Title,
		Description:      req.Description,
		Year:             req.Year,
		SubjectID:        req.SubjectID,
		UploaderID:       userID,
		OriginalFilename: filename,
		MimeType:         mimeType,
		Data:             data,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDuplicateDocument) {
			status = http.StatusConflict
		}
		utils.PrintLogInfo(&userID, status, "UploadNote", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to upload note",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	utils.PrintLogInfo(&userID, 201, "UploadNote", nil)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Note uploaded, pending moderation",
		"data":    note,
	})
}

func (h *NoteHandler) Moderate(c *gin.Context) {
	var req dto.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	note, err := h.noteUC.ModerateNote(c.Request.Context(), c.Param("id"), req.Action == "approve", req.Notes)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrDocumentNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrNotModeratable):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to moderate note",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note " + note.Status,
		"data":    note,
	})
}
