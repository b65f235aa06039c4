package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNoteRepo struct {
	byID      map[string]*domain.Note
	byHash    map[string]bool
	downloads map[string]int // userID -> count
	nextID    int
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{
		byID:      map[string]*domain.Note{},
		byHash:    map[string]bool{},
		downloads: map[string]int{},
	}
}

func (r *fakeNoteRepo) CreateNote(ctx context.Context, note *domain.Note) error {
	if r.byHash[note.FileHash] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_notes_file_hash"}
	}
	r.nextID++
	note.ID = fmt.Sprintf("note-%d", r.nextID)
	r.byID[note.ID] = note
	r.byHash[note.FileHash] = true
	return nil
}

func (r *fakeNoteRepo) GetNoteByID(ctx context.Context, id string) (*domain.Note, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNoteRepo) ListNotes(ctx context.Context, filter domain.PaperFilter) ([]domain.Note, int64, error) {
	var out []domain.Note
	for _, n := range r.byID {
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNoteRepo) UpdateNote(ctx context.Context, note *domain.Note) error {
	r.byID[note.ID] = note
	return nil
}

func (r *fakeNoteRepo) IncrementViewCount(ctx context.Context, id string) error {
	r.byID[id].ViewCount++
	return nil
}

func (r *fakeNoteRepo) IncrementDownloadCount(ctx context.Context, id string) error {
	r.byID[id].DownloadCount++
	return nil
}

func (r *fakeNoteRepo) RecordDownload(ctx context.Context, userID, noteID string) error {
	r.downloads[userID]++
	return nil
}

func TestOpenNoteFileRecordsDownload(t *testing.T) {
	repo := newFakeNoteRepo()
	files := newMemFileStore()
	svc := NewNoteService(repo, files)

	note, err := svc.UploadNote(context.Background(), pdfUpload("Semester notes", []byte("%PDF-1.7 notes")))
	require.NoError(t, err)

	f, got, err := svc.OpenNoteFile(context.Background(), note.ID, "user-2")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 notes"), data)
	assert.Equal(t, note.ID, got.ID)
	assert.Equal(t, 1, repo.downloads["user-2"], "each download leaves a per-user record")
	assert.Equal(t, 1, repo.byID[note.ID].DownloadCount)
}

func TestUploadNoteDuplicateBinary(t *testing.T) {
	repo := newFakeNoteRepo()
	files := newMemFileStore()
	svc := NewNoteService(repo, files)

	body := []byte("%PDF-1.7 dup")
	_, err := svc.UploadNote(context.Background(), pdfUpload("First", body))
	require.NoError(t, err)

	_, err = svc.UploadNote(context.Background(), pdfUpload("Same file again", body))
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
}
