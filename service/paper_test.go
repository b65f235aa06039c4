package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaperRepo struct {
	byID      map[string]*domain.Paper
	byHash    map[string]bool
	bookmarks map[string]bool // userID|paperID
	downloads int
	nextID    int
}

func newFakePaperRepo() *fakePaperRepo {
	return &fakePaperRepo{
		byID:      map[string]*domain.Paper{},
		byHash:    map[string]bool{},
		bookmarks: map[string]bool{},
	}
}

func (r *fakePaperRepo) CreatePaper(ctx context.Context, paper *domain.Paper) error {
	if r.byHash[paper.FileHash] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_papers_file_hash"}
	}
	r.nextID++
	paper.ID = fmt.Sprintf("paper-%d", r.nextID)
	r.byID[paper.ID] = paper
	r.byHash[paper.FileHash] = true
	return nil
}

func (r *fakePaperRepo) GetPaperByID(ctx context.Context, id string) (*domain.Paper, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaperRepo) ListPapers(ctx context.Context, filter domain.PaperFilter) ([]domain.Paper, int64, error) {
	var out []domain.Paper
	for _, p := range r.byID {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.UploaderID != "" && p.UploaderID != filter.UploaderID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaperRepo) UpdatePaper(ctx context.Context, paper *domain.Paper) error {
	r.byID[paper.ID] = paper
	return nil
}

func (r *fakePaperRepo) IncrementViewCount(ctx context.Context, id string) error {
	r.byID[id].ViewCount++
	return nil
}

func (r *fakePaperRepo) IncrementDownloadCount(ctx context.Context, id string) error {
	r.byID[id].DownloadCount++
	return nil
}

func (r *fakePaperRepo) ToggleBookmark(ctx context.Context, userID, paperID string) (bool, error) {
	key := userID + "|" + paperID
	if r.bookmarks[key] {
		delete(r.bookmarks, key)
		return false, nil
	}
	r.bookmarks[key] = true
	return true, nil
}

func (r *fakePaperRepo) ListBookmarked(ctx context.Context, userID string, page, perPage int) ([]domain.Paper, int64, error) {
	var out []domain.Paper
	for key := range r.bookmarks {
		for _, p := range r.byID {
			if key == userID+"|"+p.ID {
				out = append(out, *p)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePaperRepo) RecordDownload(ctx context.Context, userID, paperID string) error {
	r.downloads++
	return nil
}

// memFileStore keeps binaries in a map.
type memFileStore struct {
	files map[string][]byte
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: map[string][]byte{}}
}

func (s *memFileStore) Save(key string, data []byte) error {
	s.files[key] = data
	return nil
}

type nopReadSeekCloser struct{ *bytes.Reader }

func (nopReadSeekCloser) Close() error { return nil }

func (s *memFileStore) Open(key string) (io.ReadSeekCloser, int64, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, 0, fmt.Errorf("no file for key %q", key)
	}
	return nopReadSeekCloser{bytes.NewReader(data)}, int64(len(data)), nil
}

func (s *memFileStore) Delete(key string) error {
	delete(s.files, key)
	return nil
}

func newPaperServiceForTests(t *testing.T) (*paperService, *fakePaperRepo, *memFileStore) {
	t.Helper()
	repo := newFakePaperRepo()
	files := newMemFileStore()
	svc := NewPaperService(repo, files).(*paperService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, files
}

func pdfUpload(title string, body []byte) domain.DocumentUpload {
	return domain.DocumentUpload{
		Title:            title,
		Year:             2025,
		SubjectID:        "subject-1",
		UploaderID:       "user-1",
		OriginalFilename: "exam.pdf",
		MimeType:         "application/pdf",
		Data:             body,
	}
}

func TestUploadPaper(t *testing.T) {
	svc, _, files := newPaperServiceForTests(t)

	paper, err := svc.UploadPaper(context.Background(), pdfUpload("Algorithms 2025", []byte("%PDF-1.7 one")))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, paper.Status, "uploads start unmoderated")
	assert.NotEmpty(t, paper.FileHash)
	assert.Contains(t, files.files, paper.StorageKey)
}

func TestUploadPaperDuplicateBinary(t *testing.T) {
	svc, _, files := newPaperServiceForTests(t)

	body := []byte("%PDF-1.7 same bytes")
	_, err := svc.UploadPaper(context.Background(), pdfUpload("First", body))
	require.NoError(t, err)

	_, err = svc.UploadPaper(context.Background(), pdfUpload("Second, same file", body))

	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
	assert.Len(t, files.files, 1, "the duplicate binary is removed again")
}

func TestGetPaperVisibility(t *testing.T) {
	svc, repo, _ := newPaperServiceForTests(t)
	paper, err := svc.UploadPaper(context.Background(), pdfUpload("Pending paper", []byte("%PDF-1.7 x")))
	require.NoError(t, err)

	// The uploader and admins see pending papers; other students do not.
	_, err = svc.GetPaper(context.Background(), paper.ID, "user-1", domain.RoleStudent)
	assert.NoError(t, err)
	_, err = svc.GetPaper(context.Background(), paper.ID, "moderator", domain.RoleAdmin)
	assert.NoError(t, err)
	_, err = svc.GetPaper(context.Background(), paper.ID, "user-2", domain.RoleStudent)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// The admin's view already counted; the hidden one did not.
	require.Equal(t, 1, repo.byID[paper.ID].ViewCount)

	repo.byID[paper.ID].Status = domain.StatusApproved
	got, err := svc.GetPaper(context.Background(), paper.ID, "user-2", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount, "a view by someone else bumps the counter")

	// The uploader's own views do not count.
	got, err = svc.GetPaper(context.Background(), paper.ID, "user-1", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)
}

func TestListPapersForcesApprovedForStudents(t *testing.T) {
	svc, repo, _ := newPaperServiceForTests(t)
	approved, _ := svc.UploadPaper(context.Background(), pdfUpload("Approved", []byte("%PDF-1.7 a")))
	repo.byID[approved.ID].Status = domain.StatusApproved
	_, err := svc.UploadPaper(context.Background(), pdfUpload("Still pending", []byte("%PDF-1.7 b")))
	require.NoError(t, err)

	papers, total, err := svc.ListPapers(context.Background(), domain.PaperFilter{}, "user-2", domain.RoleStudent)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Approved", papers[0].Title)

	// Admins and the own-uploads view see everything.
	_, total, err = svc.ListPapers(context.Background(), domain.PaperFilter{}, "moderator", domain.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = svc.ListPapers(context.Background(), domain.PaperFilter{UploaderID: "user-1"}, "user-1", domain.RoleStudent)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestModeratePaper(t *testing.T) {
	svc, _, _ := newPaperServiceForTests(t)
	paper, err := svc.UploadPaper(context.Background(), pdfUpload("Pending", []byte("%PDF-1.7 m")))
	require.NoError(t, err)

	approved, err := svc.ModeratePaper(context.Background(), paper.ID, true, "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	// Moderation is one-shot.
	_, err = svc.ModeratePaper(context.Background(), paper.ID, false, "changed my mind")
	assert.ErrorIs(t, err, domain.ErrNotModeratable)
}

func TestToggleBookmark(t *testing.T) {
	svc, _, _ := newPaperServiceForTests(t)
	paper, err := svc.UploadPaper(context.Background(), pdfUpload("Bookmarkable", []byte("%PDF-1.7 bm")))
	require.NoError(t, err)

	on, err := svc.ToggleBookmark(context.Background(), "user-2", paper.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.ToggleBookmark(context.Background(), "user-2", paper.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = svc.ToggleBookmark(context.Background(), "user-2", "no-such-paper")
	assert.Error(t, err, "bookmarking requires an existing paper")
}

func TestOpenPaperFileRecordsDownload(t *testing.T) {
	svc, repo, _ := newPaperServiceForTests(t)
	paper, err := svc.UploadPaper(context.Background(), pdfUpload("Downloadable", []byte("%PDF-1.7 dl")))
	require.NoError(t, err)

	f, got, err := svc.OpenPaperFile(context.Background(), paper.ID, "user-2")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 dl"), data)
	assert.Equal(t, paper.ID, got.ID)
	assert.Equal(t, 1, repo.downloads)
	assert.Equal(t, 1, repo.byID[paper.ID].DownloadCount)
}
