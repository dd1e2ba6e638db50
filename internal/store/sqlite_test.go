package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "okto.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestGuildSettingsRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	in := &domain.GuildSettings{
		Guild:                100,
		Filters:              []string{"falcon", "starship"},
		Mentions:             []int64{555, 556},
		ScrubNotifications:   true,
		OutcomeNotifications: false,
		MentionOthers:        true,
		Muted:                true,
		NotificationsChannel: 9000,
	}
	if err := repo.UpsertGuildSettings(ctx, in); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetGuildSettings(ctx, 100)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.NotificationsChannel != 9000 || !got.ScrubNotifications || got.OutcomeNotifications {
		t.Errorf("got %+v", got)
	}
	if len(got.Filters) != 2 || got.Filters[0] != "falcon" {
		t.Errorf("filters = %v", got.Filters)
	}
	if len(got.Mentions) != 2 || got.Mentions[1] != 556 {
		t.Errorf("mentions = %v", got.Mentions)
	}
	if !got.MentionOthers || !got.Muted {
		t.Errorf("flags not persisted: %+v", got)
	}

	// Upsert replaces the row.
	in.OutcomeNotifications = true
	in.Muted = false
	in.NotificationsChannel = 0
	if err := repo.UpsertGuildSettings(ctx, in); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	got, _ = repo.GetGuildSettings(ctx, 100)
	if !got.OutcomeNotifications || got.Muted || got.NotificationsChannel != 0 {
		t.Errorf("after update: %+v", got)
	}
}

func TestUserSettingsMutedRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	in := &domain.UserSettings{User: 7, ScrubNotifications: true, Muted: true}
	if err := repo.UpsertUserSettings(ctx, in); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetUserSettings(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Muted || !got.ScrubNotifications {
		t.Errorf("got %+v", got)
	}

	in.Muted = false
	if err := repo.UpsertUserSettings(ctx, in); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	got, _ = repo.GetUserSettings(ctx, 7)
	if got.Muted {
		t.Errorf("after unmute: %+v", got)
	}
}

func TestGetSettings_NotFound(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetGuildSettings(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("guild err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetUserSettings(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("user err = %v, want ErrNotFound", err)
	}
}

func TestListReminders_GroupsByMinutes(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	mustNil := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	mustNil(repo.AddChannelReminder(ctx, 1, 10, 60))
	mustNil(repo.AddChannelReminder(ctx, 2, 20, 60))
	mustNil(repo.AddUserReminder(ctx, 7, 60))
	mustNil(repo.AddUserReminder(ctx, 7, 1440))
	// Duplicate insert is a no-op.
	mustNil(repo.AddUserReminder(ctx, 7, 60))

	rems, err := repo.ListReminders(ctx)
	mustNil(err)
	if len(rems) != 2 {
		t.Fatalf("got %d reminder buckets: %+v", len(rems), rems)
	}
	if rems[0].Minutes != 60 || rems[1].Minutes != 1440 {
		t.Errorf("buckets not sorted: %+v", rems)
	}
	if len(rems[0].Channels) != 2 || len(rems[0].Users) != 1 {
		t.Errorf("60m bucket = %+v", rems[0])
	}

	mustNil(repo.RemoveUserReminder(ctx, 7, 1440))
	rems, _ = repo.ListReminders(ctx)
	if len(rems) != 1 {
		t.Errorf("after removal: %+v", rems)
	}
}

func TestListSkipsMalformedRows(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertUserSettings(ctx, &domain.UserSettings{User: 1, Filters: []string{"iss"}}); err != nil {
		t.Fatal(err)
	}
	// Corrupt a second row's filters column behind the repo's back.
	if _, err := repo.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, filters) VALUES (2, 'not json')`); err != nil {
		t.Fatal(err)
	}

	users, err := repo.ListUserSettings(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].User != 1 {
		t.Errorf("got %+v, want only the well-formed row", users)
	}
}
