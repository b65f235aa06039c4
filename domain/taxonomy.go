package domain

import (
	"context"
	"time"
)

type Subject struct {
	ID        string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name      string     `gorm:"size:200;not null" json:"name"`
	Code      string     `gorm:"size:50;unique;not null" json:"code"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject *Subject) error
	GetSubjectByID(ctx context.Context, id string) (*Subject, error)
	ListSubjects(ctx context.Context) ([]Subject, error)
}
