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

type paperService struct {
	paperRepo domain.PaperRepository
	files     domain.FileStore

	now func() time.Time // mockable
}

func NewPaperService(paperRepo domain.PaperRepository, files domain.FileStore) domain.PaperUseCase {
	return &paperService{
		paperRepo: paperRepo,
		files:     files,
		now:       time.Now,
	}
}

func (s *paperService) UploadPaper(ctx context.Context, up domain.DocumentUpload) (*domain.Paper, error) {
	sum := sha256.Sum256(up.Data)
	hash := hex.EncodeToString(sum[:])

	key := uuid.New().String() + ".pdf"
	if err := s.files.Save(key, up.Data); err != nil {
		return nil, err
	}

	paper := &domain.Paper{
		Title:            up.Title,
		Description:      up.Description,
		ExamYear:         up.Year,
		StorageKey:       key,
		FileHash:         hash,
		OriginalFilename: up.OriginalFilename,
		FileSize:         int64(len(up.Data)),
		MimeType:         up.MimeType,
		Status:           domain.StatusPending,
		SubjectID:        up.SubjectID,
		UploaderID:       up.UploaderID,
	}

	if err := s.paperRepo.CreatePaper(ctx, paper); err != nil {
		// Orphaned binaries are cleaned up here; the hash column is unique.
		_ = s.files.Delete(key)
		if utils.IsUniqueViolation(err) {
			return nil, domain.ErrDuplicateDocument
		}
		return nil, err
	}
	return paper, nil
}

// GetPaper enforces visibility: pending/rejected papers are only shown to
// their uploader and admins. Views by other users bump the view counter.
func (s *paperService) GetPaper(ctx context.Context, id, viewerID, viewerRole string) (*domain.Paper, error) {
	paper, err := s.paperRepo.GetPaperByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper.Status != domain.StatusApproved &&
		viewerRole != domain.RoleAdmin && paper.UploaderID != viewerID {
		return nil, domain.ErrDocumentNotFound
	}

	if paper.UploaderID != viewerID {
		if err := s.paperRepo.IncrementViewCount(ctx, id); err == nil {
			paper.ViewCount++
		}
	}
	return paper, nil
}

// ListPapers forces the approved-only view for non-admin listings that do not
// target the viewer's own uploads.
func (s *paperService) ListPapers(ctx context.Context, filter domain.PaperFilter, viewerID, viewerRole string) ([]domain.Paper, int64, error) {
	if viewerRole != domain.RoleAdmin && filter.UploaderID != viewerID {
		filter.Status = domain.StatusApproved
	}
	return s.paperRepo.ListPapers(ctx, filter)
}

func (s *paperService) ModeratePaper(ctx context.Context, id string, approve bool, notes string) (*domain.Paper, error) {
	paper, err := s.paperRepo.GetPaperByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper.Status != domain.StatusPending {
		return nil, domain.ErrNotModeratable
	}

	if approve {
		paper.Status = domain.StatusApproved
		approvedAt := s.now()
		paper.ApprovedAt = &approvedAt
	} else {
		paper.Status = domain.StatusRejected
	}
	paper.ModerationNotes = notes

	if err := s.paperRepo.UpdatePaper(ctx, paper); err != nil {
		return nil, err
	}
	return paper, nil
}

func (s *paperService) ToggleBookmark(ctx context.Context, userID, paperID string) (bool, error) {
	if _, err := s.paperRepo.GetPaperByID(ctx, paperID); err != nil {
		return false, err
	}
	return s.paperRepo.ToggleBookmark(ctx, userID, paperID)
}

func (s *paperService) ListBookmarks(ctx context.Context, userID string, page, perPage int) ([]domain.Paper, int64, error) {
	return s.paperRepo.ListBookmarked(ctx, userID, page, perPage)
}

// OpenPaperFile opens the stored binary for streaming and records the download.
func (s *paperService) OpenPaperFile(ctx context.Context, id, userID string) (io.ReadSeekCloser, *domain.Paper, error) {
	paper, err := s.paperRepo.GetPaperByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, _, err := s.files.Open(paper.StorageKey)
	if err != nil {
		return nil, nil, err
	}

	_ = s.paperRepo.RecordDownload(ctx, userID, id)
	_ = s.paperRepo.IncrementDownloadCount(ctx, id)
	return f, paper, nil
}
