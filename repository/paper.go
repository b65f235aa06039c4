package repository

import (
	"context"
	"errors"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"gorm.io/gorm"
)

type paperRepository struct {
	db *gorm.DB
}

func NewPaperRepository(db *gorm.DB) domain.PaperRepository {
	return &paperRepository{db: db}
}

func (r *paperRepository) CreatePaper(ctx context.Context, paper *domain.Paper) error {
	return r.db.WithContext(ctx).Create(paper).Error
}

func (r *paperRepository) GetPaperByID(ctx context.Context, id string) (*domain.Paper, error) {
	var paper domain.Paper
	err := r.db.WithContext(ctx).
		Preload("Subject").
		First(&paper, "id = ? AND deleted_at IS NULL", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &paper, nil
}

func applyPaperFilter(q *gorm.DB, filter domain.PaperFilter) *gorm.DB {
	q = q.Where("deleted_at IS NULL")
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Year != 0 {
		q = q.Where("exam_year = ?", filter.Year)
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
	return q
}

func (r *paperRepository) ListPapers(ctx context.Context, filter domain.PaperFilter) ([]domain.Paper, int64, error) {
	var papers []domain.Paper
	var total int64

	q := applyPaperFilter(r.db.WithContext(ctx).Model(&domain.Paper{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := normalizePage(filter.Page, filter.PerPage)
	err := q.Preload("Subject").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&papers).Error
	if err != nil {
		return nil, 0, err
	}
	return papers, total, nil
}

func (r *paperRepository) UpdatePaper(ctx context.Context, paper *domain.Paper) error {
	return r.db.WithContext(ctx).Save(paper).Error
}

func (r *paperRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Paper{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *paperRepository) IncrementDownloadCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Paper{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

// ToggleBookmark adds or removes the bookmark and reports whether it now exists.
func (r *paperRepository) ToggleBookmark(ctx context.Context, userID, paperID string) (bool, error) {
	var existing domain.Bookmark
	err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND paper_id = ?", userID, paperID).Error
	if err == nil {
		if err := r.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	bookmark := domain.Bookmark{UserID: userID, PaperID: paperID}
	if err := r.db.WithContext(ctx).Create(&bookmark).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *paperRepository) ListBookmarked(ctx context.Context, userID string, page, perPage int) ([]domain.Paper, int64, error) {
	var papers []domain.Paper
	var total int64

	q := r.db.WithContext(ctx).
		Model(&domain.Paper{}).
		Joins("JOIN bookmarks ON bookmarks.paper_id = papers.id").
		Where("bookmarks.user_id = ? AND papers.deleted_at IS NULL", userID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage = normalizePage(page, perPage)
	err := q.Preload("Subject").
		Order("bookmarks.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&papers).Error
	if err != nil {
		return nil, 0, err
	}
	return papers, total, nil
}

func (r *paperRepository) RecordDownload(ctx context.Context, userID, paperID string) error {
	dl := domain.Download{UserID: userID, PaperID: paperID}
	return r.db.WithContext(ctx).Create(&dl).Error
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
