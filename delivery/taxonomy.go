package delivery

import (
	"net/http"

	"github.com/kundanmehta01/UniNotes-sub001/config"
	"github.com/kundanmehta01/UniNotes-sub001/dto"
	"github.com/kundanmehta01/UniNotes-sub001/middleware"
	"github.com/kundanmehta01/UniNotes-sub001/service"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/gin-gonic/gin"
)

type TaxonomyHandler struct {
	taxonomyUC service.TaxonomyUseCase
}

func NewTaxonomyHandler(r *gin.Engine, taxonomyUC service.TaxonomyUseCase, jwtManager *utils.JWTManager) {
	handler := &TaxonomyHandler{taxonomyUC: taxonomyUC}

	taxonomy := r.Group("/taxonomy")
	taxonomy.Use(config.AuthMiddleware(jwtManager))
	{
		taxonomy.GET("/subjects", handler.ListSubjects)
	}

	admin := r.Group("/taxonomy")
	admin.Use(config.AuthMiddleware(jwtManager), middleware.AdminOnly())
	{
		admin.POST("/subjects", handler.CreateSubject)
	}
}

func (h *TaxonomyHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.taxonomyUC.ListSubjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to list subjects",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subjects,
	})
}

func (h *TaxonomyHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request",
			"error":   utils.TranslateValidationError(err),
		})
		return
	}

	subject, err := h.taxonomyUC.CreateSubject(c.Request.Context(), req.Name, req.Code)
	if err != nil {
		status := http.StatusInternalServerError
		if utils.IsUniqueViolation(err) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"message": "Failed to create subject",
			"error":   utils.TranslateDBError(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    subject,
	})
}
