package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDuplicateDocument = errors.New("this file has already been uploaded")
	ErrNotModeratable    = errors.New("document is not pending moderation")
)

// Paper is an uploaded exam paper. The binary lives on disk under StorageKey;
// only approved papers are visible outside the uploader/admin views.
type Paper struct {
	ID               string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title            string     `gorm:"size:500;not null;index" json:"title"`
	Description      string     `json:"description,omitempty"`
	ExamYear         int        `gorm:"not null;index" json:"exam_year"`
	StorageKey       string     `gorm:"size:500;not null" json:"-"`
	FileHash         string     `gorm:"size:64;unique;not null" json:"file_hash"`
	OriginalFilename string     `gorm:"size:500" json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `gorm:"size:100" json:"mime_type"`
	Status           string     `gorm:"not null;default:pending;index" json:"status"`
	ModerationNotes  string     `json:"moderation_notes,omitempty"`
	SubjectID        string     `gorm:"type:uuid;not null;index" json:"subject_id"`
	UploaderID       string     `gorm:"type:uuid" json:"uploader_id"`
	DownloadCount    int        `gorm:"not null;default:0" json:"download_count"`
	ViewCount        int        `gorm:"not null;default:0" json:"view_count"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

// Note mirrors Paper but is keyed by semester year instead of exam year.
type Note struct {
	ID               string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title            string     `gorm:"size:500;not null;index" json:"title"`
	Description      string     `json:"description,omitempty"`
	SemesterYear     int        `gorm:"not null;index" json:"semester_year"`
	StorageKey       string     `gorm:"size:500;not null" json:"-"`
	FileHash         string     `gorm:"size:64;unique;not null" json:"file_hash"`
	OriginalFilename string     `gorm:"size:500" json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `gorm:"size:100" json:"mime_type"`
	Status           string     `gorm:"not null;default:pending;index" json:"status"`
	ModerationNotes  string     `json:"moderation_notes,omitempty"`
	SubjectID        string     `gorm:"type:uuid;not null;index" json:"subject_id"`
	UploaderID       string     `gorm:"type:uuid" json:"uploader_id"`
	DownloadCount    int        `gorm:"not null;default:0" json:"download_count"`
	ViewCount        int        `gorm:"not null;default:0" json:"view_count"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

type Bookmark struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	PaperID   string    `gorm:"primaryKey;type:uuid" json:"paper_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Download struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	PaperID   string    `gorm:"type:uuid;index" json:"paper_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NoteDownload struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	NoteID    string    `gorm:"type:uuid;index" json:"note_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PaperFilter narrows listings; zero values mean "no filter".
type PaperFilter struct {
	SubjectID  string
	Year       int
	Status     string
	UploaderID string
	Search     string
	Page       int
	PerPage    int
}

type PaperRepository interface {
	CreatePaper(ctx context.Context, paper *Paper) error
	GetPaperByID(ctx context.Context, id string) (*Paper, error)
	ListPapers(ctx context.Context, filter PaperFilter) ([]Paper, int64, error)
	UpdatePaper(ctx context.Context, paper *Paper) error
	IncrementViewCount(ctx context.Context, id string) error
	IncrementDownloadCount(ctx context.Context, id string) error
	ToggleBookmark(ctx context.Context, userID, paperID string) (bool, error)
	ListBookmarked(ctx context.Context, userID string, page, perPage int) ([]Paper, int64, error)
	RecordDownload(ctx context.Context, userID, paperID string) error
}

// DocumentUpload carries the metadata and bytes of a multipart upload.
type DocumentUpload struct {
	Title            string
	Description      string
	Year             int // exam year for papers, semester year for notes
	SubjectID        string
	UploaderID       string
	OriginalFilename string
	MimeType         string
	Data             []byte
}

// FileStore persists document binaries under opaque storage keys.
type FileStore interface {
	Save(key string, data []byte) error
	Open(key string) (io.ReadSeekCloser, int64, error)
	Delete(key string) error
}

type PaperUseCase interface {
	UploadPaper(ctx context.Context, up DocumentUpload) (*Paper, error)
	GetPaper(ctx context.Context, id, viewerID, viewerRole string) (*Paper, error)
	ListPapers(ctx context.Context, filter PaperFilter, viewerID, viewerRole string) ([]Paper, int64, error)
	ModeratePaper(ctx context.Context, id string, approve bool, notes string) (*Paper, error)
	ToggleBookmark(ctx context.Context, userID, paperID string) (bool, error)
	ListBookmarks(ctx context.Context, userID string, page, perPage int) ([]Paper, int64, error)
	OpenPaperFile(ctx context.Context, id, userID string) (io.ReadSeekCloser, *Paper, error)
}

type NoteUseCase interface {
	UploadNote(ctx context.Context, up DocumentUpload) (*Note, error)
	GetNote(ctx context.Context, id, viewerID, viewerRole string) (*Note, error)
	ListNotes(ctx context.Context, filter PaperFilter, viewerID, viewerRole string) ([]Note, int64, error)
	ModerateNote(ctx context.Context, id string, approve bool, notes string) (*Note, error)
	OpenNoteFile(ctx context.Context, id, userID string) (io.ReadSeekCloser, *Note, error)
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *Note) error
	GetNoteByID(ctx context.Context, id string) (*Note, error)
	ListNotes(ctx context.Context, filter PaperFilter) ([]Note, int64, error)
	UpdateNote(ctx context.Context, note *Note) error
	IncrementViewCount(ctx context.Context, id string) error
	IncrementDownloadCount(ctx context.Context, id string) error
	RecordDownload(ctx context.Context, userID, noteID string) error
}
