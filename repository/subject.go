package repository

import (
	"context"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"gorm.io/gorm"
)

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) domain.SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) CreateSubject(ctx context.Context, subject *domain.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) GetSubjectByID(ctx context.Context, id string) (*domain.Subject, error) {
	var subject domain.Subject
	if err := r.db.WithContext(ctx).First(&subject, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var subjects []domain.Subject
	if err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}
