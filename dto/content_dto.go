package dto

import "github.com/kundanmehta01/UniNotes-sub001/domain"

type UploadDocumentRequest struct {
	Title       string `form:"title" binding:"required,min=3,max=500"`
	Description string `form:"description" binding:"omitempty,max=2000"`
	Year        int    `form:"year" binding:"required,min=1950,max=2100"`
	SubjectID   string `form:"subject_id" binding:"required,uuid"`
}

type ModerateRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Notes  string `json:"notes" binding:"omitempty,max=2000"`
}

type ListDocumentsQuery struct {
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
	Year      int    `form:"year" binding:"omitempty,min=1950,max=2100"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Mine      bool   `form:"mine"`
	Search    string `form:"q" binding:"omitempty,max=200"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PerPage   int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// MapListQuery builds the repository filter. The "mine" flag scopes the
// listing to the viewer's own uploads (any status); otherwise the service
// forces the approved-only view for non-admins.
func MapListQuery(q *ListDocumentsQuery, viewerID string) domain.PaperFilter {
	filter := domain.PaperFilter{
		SubjectID: q.SubjectID,
		Year:      q.Year,
		Status:    q.Status,
		Search:    q.Search,
		Page:      q.Page,
		PerPage:   q.PerPage,
	}
	if q.Mine {
		filter.UploaderID = viewerID
	}
	return filter
}

type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=2,max=200"`
	Code string `json:"code" binding:"required,min=2,max=50"`
}
