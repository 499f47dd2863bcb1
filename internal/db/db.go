package db

import (
	"fmt"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/catalog"
	"github.com/DHEENA0007/notsharing/internal/comments"
	"github.com/DHEENA0007/notsharing/internal/interactions"
	"github.com/DHEENA0007/notsharing/internal/jobs"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/notifications"
	"github.com/DHEENA0007/notsharing/internal/requests"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables. The (note_id, user_id) unique indexes on bookmarks/downloads
	// come from model tags.
	if err := gdb.AutoMigrate(
		&auth.User{},
		&catalog.Subject{},
		&notes.Note{},
		&requests.NoteRequest{},
		&comments.Comment{},
		&interactions.Bookmark{},
		&interactions.Download{},
		&notifications.Notification{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// A comment anchors exactly one of a note or a request.
	if err := gdb.Exec(`
create or replace function enforce_comment_anchor() returns trigger as $$
begin
  if (new.note_id is null) = (new.request_id is null) then
    raise exception 'comment must anchor exactly one of note_id/request_id';
  end if;
  return new;
end $$ language plpgsql;
`).Error; err != nil {
		return err
	}
	if err := gdb.Exec(`
drop trigger if exists trg_comments_anchor on comments;
create trigger trg_comments_anchor before insert or update on comments
for each row execute function enforce_comment_anchor();
`).Error; err != nil {
		return err
	}

	// Tag filter (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_notes_tags on notes using gin (tags);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_comments_note_created on comments(note_id, created_at, id);`,
		`create index if not exists idx_comments_request_created on comments(request_id, created_at, id);`,
		`create index if not exists idx_notifications_user_created on notifications(user_id, created_at desc);`,
		`create index if not exists idx_requests_status_created on note_requests(status, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
