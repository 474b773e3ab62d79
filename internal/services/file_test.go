package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/docqa-backend/internal/platform/apierr"
)

func newFileService(env *testEnv, idx IndexerService) FileService {
	return NewFileService(env.log, env.users, env.files, env.folders, idx)
}

func TestUploadStoresFileRecordsRowAndReindexes(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "up@example.com", "pw")
	idx := &fakeIndexer{chunks: 3}
	svc := newFileService(env, idx)

	res, err := svc.Upload(ctxAs(u), u.ID, UploadInput{
		Filename: "dir/report.PDF",
		Body:     strings.NewReader("%PDF-1.4 body"),
	})
	require.NoError(t, err)
	require.Equal(t, "File 'report.PDF' uploaded successfully to user "+itoa(u.ID)+".", res.Message)
	require.Equal(t, "application/pdf", res.File.FileType)
	require.Equal(t, filepath.Join(env.folders.BaseDir(), u.FolderName, "report.PDF"), res.File.FilePath)

	raw, err := os.ReadFile(res.File.FilePath)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 body", string(raw))
	require.Equal(t, []string{u.FolderName}, idx.calls)

	// same name again: file overwritten on disk, second row recorded
	_, err = svc.Upload(ctxAs(u), u.ID, UploadInput{Filename: "report.PDF", Body: strings.NewReader("v2")})
	require.NoError(t, err)
	rows, err := svc.List(ctxAs(u), u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, rows[0].FilePath, rows[1].FilePath)
}

func TestUploadForAnotherUserIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	a := env.signup(t, "a@example.com", "pw")
	b := env.signup(t, "b@example.com", "pw")
	idx := &fakeIndexer{}
	svc := newFileService(env, idx)

	_, err := svc.Upload(ctxAs(a), b.ID, UploadInput{Filename: "x.pdf", Body: strings.NewReader("x")})
	require.True(t, apierr.Is(err, http.StatusForbidden))
	require.Empty(t, idx.calls)

	require.Equal(t, "You do not have permission to upload files for this user.", apierr.PublicMessage(err))

	_, err = svc.List(ctxAs(a), b.ID, 0, 0)
	require.True(t, apierr.Is(err, http.StatusForbidden))
	require.Equal(t, "You do not have permission to view files for this user.", apierr.PublicMessage(err))

	_, statErr := os.Stat(filepath.Join(env.folders.BaseDir(), b.FolderName, "x.pdf"))
	require.True(t, os.IsNotExist(statErr))
}

func TestUploadRejectsBadFilename(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "u@example.com", "pw")
	svc := newFileService(env, &fakeIndexer{})

	for _, name := range []string{"", "..", "a/.."} {
		_, err := svc.Upload(ctxAs(u), u.ID, UploadInput{Filename: name, Body: strings.NewReader("x")})
		require.True(t, apierr.Is(err, http.StatusBadRequest), "filename %q", name)
	}
}

func TestUploadIndexFailureKeepsFileAndRow(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "u@example.com", "pw")
	svc := newFileService(env, &fakeIndexer{err: errors.New("embedder down")})

	_, err := svc.Upload(ctxAs(u), u.ID, UploadInput{Filename: "a.pdf", Body: strings.NewReader("x")})
	status, code := apierr.StatusOf(err)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "index_rebuild_failed", code)

	rows, err := svc.List(ctxAs(u), u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	_, err = os.Stat(rows[0].FilePath)
	require.NoError(t, err)
}

func TestDeleteFile(t *testing.T) {
	env := newTestEnv(t)
	a := env.signup(t, "a@example.com", "pw")
	b := env.signup(t, "b@example.com", "pw")
	idx := &fakeIndexer{}
	svc := newFileService(env, idx)
	ctx := ctxAs(a)

	first, err := svc.Upload(ctx, a.ID, UploadInput{Filename: "a.pdf", Body: strings.NewReader("1")})
	require.NoError(t, err)
	second, err := svc.Upload(ctx, a.ID, UploadInput{Filename: "a.pdf", Body: strings.NewReader("2")})
	require.NoError(t, err)

	err = svc.Delete(ctxAs(b), b.ID, first.File.ID)
	require.True(t, apierr.Is(err, http.StatusNotFound), "file owned by someone else")
	err = svc.Delete(ctx, a.ID, 9999)
	require.True(t, apierr.Is(err, http.StatusNotFound))

	require.NoError(t, svc.Delete(ctx, a.ID, first.File.ID))
	_, err = os.Stat(second.File.FilePath)
	require.NoError(t, err, "another row still references the file")

	require.NoError(t, svc.Delete(ctx, a.ID, second.File.ID))
	_, err = os.Stat(second.File.FilePath)
	require.True(t, os.IsNotExist(err))
	require.Len(t, idx.calls, 4)
}

func TestFileServiceWithoutCaller(t *testing.T) {
	env := newTestEnv(t)
	u := env.signup(t, "u@example.com", "pw")
	svc := newFileService(env, &fakeIndexer{})
	_, err := svc.List(context.Background(), u.ID, 0, 0)
	require.True(t, apierr.Is(err, http.StatusForbidden))
}
