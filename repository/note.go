package repository

import (
	"context"
	"errors"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) domain.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) CreateNote(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) RecordDownload(ctx context.Context, userID, noteID string) error {
	dl := domain.NoteDownload{UserID: userID, NoteID: noteID}
	return r.db.WithContext(ctx).Create(&dl).Error
}

func (r *noteRepository) GetNoteByID(ctx context.Context, id string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).
		Preload("Subject").
		First(&note, "id = ? AND deleted_at IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListNotes(ctx context.Context, filter domain.PaperFilter) ([]domain.Note, int64, error) {
	var notes []domain.Note
	var total int64

	q := r.db.WithContext(ctx).Model(&domain.Note{}).Where("deleted_at IS NULL")
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Year != 0 {
		q = q.Where("semester_year = ?", filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UploaderID != "" {
		q = q.Where("uploader_id = ?", filter.UploaderID)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	err := q.Preload("Subject").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *noteRepository) UpdateNote(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *noteRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}
