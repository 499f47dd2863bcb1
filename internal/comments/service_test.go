package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/jobs"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/notifications"
	"github.com/DHEENA0007/notsharing/internal/requests"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	userA   auth.User // uploads the note, posts the request
	userB   auth.User
	note    notes.Note
	request requests.NoteRequest
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&auth.User{}, &notes.Note{}, &requests.NoteRequest{},
		&Comment{}, &notifications.Notification{}, &jobs.Job{},
	))

	f := &fixture{db: gdb}
	f.userA = auth.User{Email: "a@example.com", FullName: "Alice Adams", PasswordHash: "x"}
	f.userB = auth.User{Email: "b@example.com", FullName: "Bob Brown", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&f.userA).Error)
	require.NoError(t, gdb.Create(&f.userB).Error)

	f.note = notes.Note{
		Title: "Calc Notes", Description: "d", FileRef: "f",
		SubjectID: 1, UploadedByID: f.userA.ID, IsApproved: true,
	}
	require.NoError(t, gdb.Create(&f.note).Error)

	f.request = requests.NoteRequest{
		Title: "Need Linear Algebra", Description: "d",
		RequestedByID: f.userA.ID, Status: requests.StatusOpen,
	}
	require.NoError(t, gdb.Create(&f.request).Error)

	dispatcher := &notifications.Dispatcher{DB: gdb, Jobs: &jobs.Repo{DB: gdb}}
	f.svc = &Service{DB: gdb, Notifier: dispatcher}
	return f
}

func TestCreateNotifiesNoteOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, CreateInput{
		Anchor:   NoteAnchor(f.note.ID),
		AuthorID: f.userB.ID,
		Text:     "very helpful, thanks",
	})
	require.NoError(t, err)
	require.Equal(t, NoteAnchor(f.note.ID), c.Anchor())

	var ns []notifications.Notification
	require.NoError(t, f.db.Find(&ns).Error)
	require.Len(t, ns, 1)
	require.Equal(t, f.userA.ID, ns[0].UserID)
	require.Equal(t, "New Comment on Note", ns[0].Title)
	require.Equal(t, `Bob Brown commented on your note "Calc Notes".`, ns[0].Message)

	// delivery job enqueued with the notification
	var js []jobs.Job
	require.NoError(t, f.db.Find(&js).Error)
	require.Len(t, js, 1)
	require.Equal(t, "NOTIFICATION_DELIVERY", js[0].Type)
}

func TestCreateOnRequestNotifiesRequester(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Anchor:   RequestAnchor(f.request.ID),
		AuthorID: f.userB.ID,
		Text:     "I have these notes",
	})
	require.NoError(t, err)

	var ns []notifications.Notification
	require.NoError(t, f.db.Find(&ns).Error)
	require.Len(t, ns, 1)
	require.Equal(t, "New Comment on Request", ns[0].Title)
	require.Equal(t, `Bob Brown commented on your request "Need Linear Algebra".`, ns[0].Message)
}

func TestCreateSelfCommentNoNotification(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		Anchor:   NoteAnchor(f.note.ID),
		AuthorID: f.userA.ID, // the uploader commenting on their own note
		Text:     "clarifying section 2",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&notifications.Notification{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestCreateTwiceNotifiesTwice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Create(ctx, CreateInput{
			Anchor:   NoteAnchor(f.note.ID),
			AuthorID: f.userB.ID,
			Text:     "another thought",
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&notifications.Notification{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{Anchor: NoteAnchor(f.note.ID), AuthorID: f.userB.ID, Text: "   "})
	require.True(t, errors.Is(err, domain.ErrInvalid), "blank text")

	_, err = f.svc.Create(ctx, CreateInput{Anchor: Anchor{}, AuthorID: f.userB.ID, Text: "x"})
	require.True(t, errors.Is(err, domain.ErrInvalid), "no anchor")

	_, err = f.svc.Create(ctx, CreateInput{Anchor: NoteAnchor(999), AuthorID: f.userB.ID, Text: "x"})
	require.True(t, errors.Is(err, domain.ErrNotFound), "missing note")

	_, err = f.svc.Create(ctx, CreateInput{Anchor: RequestAnchor(999), AuthorID: f.userB.ID, Text: "x"})
	require.True(t, errors.Is(err, domain.ErrNotFound), "missing request")

	missingParent := uint64(999)
	_, err = f.svc.Create(ctx, CreateInput{Anchor: NoteAnchor(f.note.ID), AuthorID: f.userB.ID, Text: "x", ParentID: &missingParent})
	require.True(t, errors.Is(err, domain.ErrNotFound), "missing parent")
}

func TestReplyAnchorMustMatchParent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	parent, err := f.svc.Create(ctx, CreateInput{
		Anchor:   NoteAnchor(f.note.ID),
		AuthorID: f.userB.ID,
		Text:     "parent",
	})
	require.NoError(t, err)

	// reply anchored at the request but parented under a note comment
	_, err = f.svc.Create(ctx, CreateInput{
		Anchor:   RequestAnchor(f.request.ID),
		AuthorID: f.userA.ID,
		Text:     "mismatched reply",
		ParentID: &parent.ID,
	})
	require.True(t, errors.Is(err, domain.ErrInvalid))

	// matching anchor is fine
	reply, err := f.svc.Create(ctx, CreateInput{
		Anchor:   NoteAnchor(f.note.ID),
		AuthorID: f.userA.ID,
		Text:     "proper reply",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.Equal(t, parent.ID, *reply.ParentID)
}

func TestListThreadBuildsOrderedTree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	mk := func(text string, parentID *uint64) *Comment {
		c, err := f.svc.Create(ctx, CreateInput{
			Anchor:   NoteAnchor(f.note.ID),
			AuthorID: f.userB.ID,
			Text:     text,
			ParentID: parentID,
		})
		require.NoError(t, err)
		return c
	}

	root1 := mk("first", nil)
	root2 := mk("second", nil)
	r1a := mk("reply to first", &root1.ID)
	mk("another reply to first", &root1.ID)
	mk("nested", &r1a.ID)
	_ = root2

	thread, err := f.svc.ListThread(ctx, NoteAnchor(f.note.ID))
	require.NoError(t, err)
	require.Len(t, thread, 2)

	require.Equal(t, "first", thread[0].Text)
	require.Equal(t, "second", thread[1].Text)

	require.Len(t, thread[0].Replies, 2)
	require.Equal(t, "reply to first", thread[0].Replies[0].Text)
	require.Equal(t, "another reply to first", thread[0].Replies[1].Text)

	require.Len(t, thread[0].Replies[0].Replies, 1)
	require.Equal(t, "nested", thread[0].Replies[0].Replies[0].Text)

	require.Empty(t, thread[1].Replies)
}

func TestListThreadScopedToAnchor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{Anchor: NoteAnchor(f.note.ID), AuthorID: f.userB.ID, Text: "on note"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, CreateInput{Anchor: RequestAnchor(f.request.ID), AuthorID: f.userB.ID, Text: "on request"})
	require.NoError(t, err)

	noteThread, err := f.svc.ListThread(ctx, NoteAnchor(f.note.ID))
	require.NoError(t, err)
	require.Len(t, noteThread, 1)
	require.Equal(t, "on note", noteThread[0].Text)

	reqThread, err := f.svc.ListThread(ctx, RequestAnchor(f.request.ID))
	require.NoError(t, err)
	require.Len(t, reqThread, 1)
	require.Equal(t, "on request", reqThread[0].Text)

	_, err = f.svc.ListThread(ctx, NoteAnchor(999))
	require.True(t, errors.Is(err, domain.ErrNotFound))

	count, err := f.svc.CountFor(ctx, NoteAnchor(f.note.ID))
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
