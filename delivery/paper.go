package delivery

import (
	"errors"
	"io"
	"net/http"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/dto"
	"github.com/kundanmehta01/UniNotes-sub001/middleware"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 25 << 20 // 25MB

type PaperHandler struct {
	paperUC domain.PaperUseCase
}

func NewPaperHandler(r *gin.Engine, paperUC domain.PaperUseCase, jwtManager *utils.JWTManager) {
	handler := &PaperHandler{paperUC: paperUC}

	papers := r.Group("/papers")
	papers.Use(config.AuthMiddleware(jwtManager))
	{
		papers.GET("", handler.List)
		papers.GET("/:id", handler.Get)
		papers.POST("", handler.Upload)
		papers.POST("/:id/bookmark", handler.ToggleBookmark)
		papers.GET("/bookmarks", handler.ListBookmarks)
	}

	admin := r.Group("/papers")
	admin.Use(config.AuthMiddleware(jwtManager), middleware.AdminOnly())
	{
		admin.PATCH("/:id/moderate", handler.Moderate)
	}
}

func (h *PaperHandler) List(c *gin.Context) {
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
	papers, total, err := h.paperUC.ListPapers(c.Request.Context(), filter, userID, c.GetString("role"))
	if err != nil {
		utils.PrintLogInfo(nil, 500, "ListPapers", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list papers",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    papers,
		"total":   total,
	})
}

func (h *PaperHandler) Get(c *gin.Context) {
	paper, err := h.paperUC.GetPaper(c.Request.Context(), c.Param("id"), c.GetString("userID"), c.GetString("role"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to fetch paper",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    paper,
	})
}

func (h *PaperHandler) Upload(c *gin.Context) {
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
	paper, err := h.paperUC.UploadPaper(c.Request.Context(), domain.DocumentUpload{
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
		utils.PrintLogInfo(&userID, status, "UploadPaper", err)
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to upload paper",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	utils.PrintLogInfo(&userID, 201, "UploadPaper", nil)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Paper uploaded, pending moderation",
		"data":    paper,
	})
}

func (h *PaperHandler) Moderate(c *gin.Context) {
	var req dto.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	paper, err := h.paperUC.ModeratePaper(c.Request.Context(), c.Param("id"), req.Action == "approve", req.Notes)
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
			"message": "Failed to moderate paper",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Paper " + paper.Status,
		"data":    paper,
	})
}

func (h *PaperHandler) ToggleBookmark(c *gin.Context) {
	userID := c.GetString("userID")
	bookmarked, err := h.paperUC.ToggleBookmark(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to toggle bookmark",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"bookmarked": bookmarked,
	})
}

func (h *PaperHandler) ListBookmarks(c *gin.Context) {
	var q dto.ListDocumentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid query",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	papers, total, err := h.paperUC.ListBookmarks(c.Request.Context(), c.GetString("userID"), q.Page, q.PerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list bookmarks",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    papers,
		"total":   total,
	})
}

// readUploadedPDF pulls the "file" part out of the multipart form and
// enforces the PDF content type and size cap. Writes the error response
// itself so handlers can just bail out.
func readUploadedPDF(c *gin.Context) (data []byte, filename, mimeType string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing file",
			"error":   "a PDF file is required",
		})
		return nil, "", "", false
	}

	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"message": "File too large",
			"error":   "file size exceeds the 25MB limit",
		})
		return nil, "", "", false
	}

	mimeType = fileHeader.Header.Get("Content-Type")
	if mimeType != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid file type",
			"error":   "only PDF files are accepted",
		})
		return nil, "", "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to read file",
			"error":   err.Error(),
		})
		return nil, "", "", false
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to read file",
			"error":   "could not read the uploaded file",
		})
		return nil, "", "", false
	}

	return data, fileHeader.Filename, mimeType, true
}
