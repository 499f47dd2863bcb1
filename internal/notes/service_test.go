package notes

import (
	"context"
	"errors"
	"testing"

	"github.com/DHEENA0007/notsharing/internal/catalog"
	"github.com/DHEENA0007/notsharing/internal/domain"

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

	require.NoError(t, gdb.AutoMigrate(&catalog.Subject{}, &Note{}))
	return gdb
}

func TestCreateWithSubjectName(t *testing.T) {
	gdb := setupDB(t)
	svc := &Service{DB: gdb}
	ctx := context.Background()

	n, err := svc.Create(ctx, 1, CreateInput{
		Title:       "Calc Notes",
		Description: "limits and derivatives",
		FileRef:     "notes/calc.pdf",
		SubjectName: "Calculus",
		Tags:        "Math, calculus , math",
	})
	require.NoError(t, err)
	require.NotZero(t, n.ID)
	require.EqualValues(t, 0, n.ViewsCount)
	require.EqualValues(t, 0, n.DownloadsCount)
	require.Equal(t, []string{"math", "calculus"}, []string(n.Tags))

	var sub catalog.Subject
	require.NoError(t, gdb.Where("name = ?", "Calculus").First(&sub).Error)
	require.Equal(t, sub.ID, n.SubjectID)

	// second note with the same subject name reuses the subject
	n2, err := svc.Create(ctx, 2, CreateInput{
		Title:       "More Calc",
		Description: "integrals",
		FileRef:     "notes/calc2.pdf",
		SubjectName: "Calculus",
	})
	require.NoError(t, err)
	require.Equal(t, sub.ID, n2.SubjectID)

	var count int64
	require.NoError(t, gdb.Model(&catalog.Subject{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateValidation(t *testing.T) {
	gdb := setupDB(t)
	svc := &Service{DB: gdb}
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateInput{Title: "x", Description: "y", FileRef: "f"})
	require.True(t, errors.Is(err, domain.ErrInvalid), "missing subject")

	_, err = svc.Create(ctx, 1, CreateInput{Description: "y", FileRef: "f", SubjectName: "s"})
	require.True(t, errors.Is(err, domain.ErrInvalid), "missing title")

	missing := uint64(999)
	_, err = svc.Create(ctx, 1, CreateInput{Title: "x", Description: "y", FileRef: "f", SubjectID: &missing})
	require.True(t, errors.Is(err, domain.ErrNotFound), "unknown subject id")
}

func TestGetCountsView(t *testing.T) {
	gdb := setupDB(t)
	svc := &Service{DB: gdb}
	ctx := context.Background()

	n, err := svc.Create(ctx, 1, CreateInput{
		Title: "Calc Notes", Description: "d", FileRef: "f", SubjectName: "Calculus",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, got.ViewsCount)

	got, err = svc.Get(ctx, n.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.ViewsCount)

	// Peek does not count
	got, err = svc.Peek(ctx, n.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.ViewsCount)

	_, err = svc.Get(ctx, 999)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListFilters(t *testing.T) {
	gdb := setupDB(t)
	svc := &Service{DB: gdb}
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateInput{Title: "Linear Algebra", Description: "vectors", FileRef: "a", SubjectName: "Math"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, CreateInput{Title: "Organic Chemistry", Description: "benzene rings", FileRef: "b", SubjectName: "Chemistry"})
	require.NoError(t, err)

	rows, err := svc.List(ctx, ListFilter{Search: "algebra"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Linear Algebra", rows[0].Title)

	rows, err = svc.List(ctx, ListFilter{Search: "BENZENE"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Organic Chemistry", rows[0].Title)

	uploader := uint64(1)
	rows, err = svc.List(ctx, ListFilter{UploaderID: &uploader})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// newest first
	require.Equal(t, "Organic Chemistry", rows[0].Title)
}

func TestIncrementDownloadsMissingNote(t *testing.T) {
	gdb := setupDB(t)

	err := IncrementDownloads(gdb, 42)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}
