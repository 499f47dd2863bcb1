package interactions

import (
	"context"
	"errors"
	"testing"

	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/notes"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&notes.Note{}, &Bookmark{}, &Download{}))
	return gdb
}

func seedNote(t *testing.T, gdb *gorm.DB) *notes.Note {
	t.Helper()
	n := &notes.Note{
		Title:        "Calc Notes",
		Description:  "derivatives and integrals",
		FileRef:      "notes/calc.pdf",
		SubjectID:    1,
		UploadedByID: 1,
		IsApproved:   true,
	}
	require.NoError(t, gdb.Create(n).Error)
	return n
}

func TestToggleBookmarkAlternates(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}
	n := seedNote(t, gdb)
	ctx := context.Background()

	active, err := store.ToggleBookmark(ctx, n.ID, 7)
	require.NoError(t, err)
	require.True(t, active)

	active, err = store.ToggleBookmark(ctx, n.ID, 7)
	require.NoError(t, err)
	require.False(t, active)

	active, err = store.ToggleBookmark(ctx, n.ID, 7)
	require.NoError(t, err)
	require.True(t, active)

	var count int64
	require.NoError(t, gdb.Model(&Bookmark{}).Where("note_id = ? and user_id = ?", n.ID, 7).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestToggleBookmarkMissingNote(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}

	_, err := store.ToggleBookmark(context.Background(), 999, 7)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRecordDownloadIdempotent(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}
	n := seedNote(t, gdb)
	ctx := context.Background()

	already, err := store.RecordDownload(ctx, n.ID, 7)
	require.NoError(t, err)
	require.False(t, already)

	// repeat calls keep the single record and do not move the counter
	for i := 0; i < 3; i++ {
		already, err = store.RecordDownload(ctx, n.ID, 7)
		require.NoError(t, err)
		require.True(t, already)
	}

	var count int64
	require.NoError(t, gdb.Model(&Download{}).Where("note_id = ? and user_id = ?", n.ID, 7).Count(&count).Error)
	require.EqualValues(t, 1, count)

	var reloaded notes.Note
	require.NoError(t, gdb.First(&reloaded, n.ID).Error)
	require.EqualValues(t, 1, reloaded.DownloadsCount)
}

func TestRecordDownloadCountsUniqueDownloaders(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}
	n := seedNote(t, gdb)
	ctx := context.Background()

	for _, uid := range []uint64{1, 2, 3} {
		_, err := store.RecordDownload(ctx, n.ID, uid)
		require.NoError(t, err)
	}
	_, err := store.RecordDownload(ctx, n.ID, 2)
	require.NoError(t, err)

	var reloaded notes.Note
	require.NoError(t, gdb.First(&reloaded, n.ID).Error)
	require.EqualValues(t, 3, reloaded.DownloadsCount)
}

// The end-to-end interaction scenario: B views and downloads, C bookmarks
// and unbookmarks.
func TestInteractionScenario(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}
	n := seedNote(t, gdb)
	ctx := context.Background()

	const userB, userC uint64 = 2, 3

	require.NoError(t, notes.IncrementViews(gdb, n.ID))

	for i := 0; i < 2; i++ {
		_, err := store.RecordDownload(ctx, n.ID, userB)
		require.NoError(t, err)
	}
	already, err := store.RecordDownload(ctx, n.ID, userB)
	require.NoError(t, err)
	require.True(t, already)

	active, err := store.ToggleBookmark(ctx, n.ID, userC)
	require.NoError(t, err)
	require.True(t, active)
	active, err = store.ToggleBookmark(ctx, n.ID, userC)
	require.NoError(t, err)
	require.False(t, active)

	var reloaded notes.Note
	require.NoError(t, gdb.First(&reloaded, n.ID).Error)
	require.EqualValues(t, 1, reloaded.ViewsCount)
	require.EqualValues(t, 1, reloaded.DownloadsCount)

	var dlCount int64
	require.NoError(t, gdb.Model(&Download{}).Where("note_id = ?", n.ID).Count(&dlCount).Error)
	require.EqualValues(t, 1, dlCount)
}

func TestListBookmarksAndDownloads(t *testing.T) {
	gdb := setupDB(t)
	store := &Store{DB: gdb}
	n := seedNote(t, gdb)
	ctx := context.Background()

	_, err := store.ToggleBookmark(ctx, n.ID, 5)
	require.NoError(t, err)
	_, err = store.RecordDownload(ctx, n.ID, 5)
	require.NoError(t, err)

	bms, err := store.ListBookmarks(ctx, 5)
	require.NoError(t, err)
	require.Len(t, bms, 1)
	require.Equal(t, "Calc Notes", bms[0].Note.Title)

	dls, err := store.ListDownloads(ctx, 5)
	require.NoError(t, err)
	require.Len(t, dls, 1)
	require.Equal(t, n.ID, dls[0].NoteID)

	// other users see nothing
	bms, err = store.ListBookmarks(ctx, 6)
	require.NoError(t, err)
	require.Empty(t, bms)
}

// Duplicate inserts must not poison the surrounding transaction: toggling off
// and repeat downloads hit the conflict path, and every later statement in the
// same transaction still has to succeed.
func TestConflictPathsInsideEnclosingTransaction(t *testing.T) {
	gdb := setupDB(t)
	n := seedNote(t, gdb)
	ctx := context.Background()

	err := gdb.Transaction(func(tx *gorm.DB) error {
		store := &Store{DB: tx}

		active, err := store.ToggleBookmark(ctx, n.ID, 9)
		require.NoError(t, err)
		require.True(t, active)

		active, err = store.ToggleBookmark(ctx, n.ID, 9)
		require.NoError(t, err)
		require.False(t, active)

		already, err := store.RecordDownload(ctx, n.ID, 9)
		require.NoError(t, err)
		require.False(t, already)

		already, err = store.RecordDownload(ctx, n.ID, 9)
		require.NoError(t, err)
		require.True(t, already)

		// the transaction is still usable after both conflict paths
		return tx.Model(&notes.Note{}).Where("id = ?", n.ID).Update("title", "Calc Notes v2").Error
	})
	require.NoError(t, err)

	var got notes.Note
	require.NoError(t, gdb.First(&got, n.ID).Error)
	require.Equal(t, "Calc Notes v2", got.Title)
	require.EqualValues(t, 1, got.DownloadsCount)
}
