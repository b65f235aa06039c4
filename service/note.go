package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"github.com/google/uuid"
)

type noteService struct {
	noteRepo domain.NoteRepository
	files    domain.FileStore

	now func() time.Time // mockable
}

func NewNoteService(noteRepo domain.NoteRepository, files domain.FileStore) domain.NoteUseCase {
	return &noteService{
		noteRepo: noteRepo,
		files:    files,
		now:      time.Now,
	}
}

func (s *noteService) UploadNote(ctx context.Context, up domain.DocumentUpload) (*domain.Note, error) {
	sum := sha256.Sum256(up.Data)
	hash := hex.EncodeToString(sum[:])

	key := uuid.New().String() + ".pdf"
	if err := s.files.Save(key, up.Data); err != nil {
		return nil, err
	}

	note := &domain.Note{
		Title:            up.Title,
		Description:      up.Description,
		SemesterYear:     up.Year,
		StorageKey:       key,
		FileHash:         hash,
		OriginalFilename: up.OriginalFilename,
		FileSize:         int64(len(up.Data)),
		MimeType:         up.MimeType,
		Status:           domain.StatusPending,
		SubjectID:        up.SubjectID,
		UploaderID:       up.UploaderID,
	}

	if err := s.noteRepo.CreateNote(ctx, note); err != nil {
		_ = s.files.Delete(key)
		if utils.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateDocument
		}
		return nil, err
	}
	return note, nil
}

func (s *noteService) GetNote(ctx context.Context, id, viewerID, viewerRole string) (*domain.Note, error) {
	note, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status != domain.StatusApproved &&
		viewerRole != domain.RoleAdmin && note.UploaderID != viewerID {
		return nil, domain.ErrDocumentNotFound
	}

	if note.UploaderID != viewerID {
		if err := s.noteRepo.IncrementViewCount(ctx, id); err == nil {
			note.ViewCount++
		}
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, filter domain.PaperFilter, viewerID, viewerRole string) ([]domain.Note, int64, error) {
	if viewerRole != domain.RoleAdmin && filter.UploaderID != viewerID {
		filter.Status = domain.StatusApproved
	}
	return s.noteRepo.ListNotes(ctx, filter)
}

func (s *noteService) ModerateNote(ctx context.Context, id string, approve bool, notes string) (*domain.Note, error) {
	note, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note.Status != domain.StatusPending {
		return nil, domain.ErrNotModeratable
	}

	if approve {
		note.Status = domain.StatusApproved
		approvedAt := s.now()
		note.ApprovedAt = &approvedAt
	} else {
		note.Status = domain.StatusRejected
	}
	note.ModerationNotes = notes

	if err := s.noteRepo.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// OpenNoteFile opens the stored binary for streaming and records the download.
func (s *noteService) OpenNoteFile(ctx context.Context, id, userID string) (io.ReadSeekCloser, *domain.Note, error) {
	note, err := s.noteRepo.GetNoteByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, _, err := s.files.Open(note.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	_ = s.noteRepo.RecordDownload(ctx, userID, id)
	_ = s.noteRepo.IncrementDownloadCount(ctx, id)
	return f, note, nil
}
