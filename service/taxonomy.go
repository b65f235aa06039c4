package service

import (
	"context"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
)

type taxonomyService struct {
	subjectRepo domain.SubjectRepository
}

type TaxonomyUseCase interface {
	CreateSubject(ctx context.Context, name, code string) (*domain.Subject, error)
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
}

func NewTaxonomyService(subjectRepo domain.SubjectRepository) TaxonomyUseCase {
	return &taxonomyService{subjectRepo: subjectRepo}
}

func (s *taxonomyService) CreateSubject(ctx context.Context, name, code string) (*domain.Subject, error) {
	subject := &domain.Subject{Name: name, Code: code}
	if err := s.subjectRepo.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *taxonomyService) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	return s.subjectRepo.ListSubjects(ctx)
}
