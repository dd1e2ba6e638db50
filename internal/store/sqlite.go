package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Baev1/okto/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool tiny.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db, log: log}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// GetGuildSettings returns a guild's settings or ErrNotFound.
func (r *SQLiteRepo) GetGuildSettings(ctx context.Context, guildID int64) (*domain.GuildSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT guild_id, filters, mentions, scrub_notifications,
		       outcome_notifications, mention_others, muted, notifications_channel
		FROM guild_settings
		WHERE guild_id = ?`,
		guildID,
	)
	s, err := scanGuildSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertGuildSettings inserts or fully replaces a guild's settings row.
func (r *SQLiteRepo) UpsertGuildSettings(ctx context.Context, s *domain.GuildSettings) error {
	if s == nil {
		return errors.New("nil guild settings")
	}
	filters, err := encodeStrings(s.Filters)
	if err != nil {
		return err
	}
	mentions, err := encodeInt64s(s.Mentions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO guild_settings (
			guild_id, filters, mentions, scrub_notifications,
			outcome_notifications, mention_others, muted, notifications_channel
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			filters               = excluded.filters,
			mentions              = excluded.mentions,
			scrub_notifications   = excluded.scrub_notifications,
			outcome_notifications = excluded.outcome_notifications,
			mention_others        = excluded.mention_others,
			muted                 = excluded.muted,
			notifications_channel = excluded.notifications_channel`,
		s.Guild, filters, mentions, boolToInt(s.ScrubNotifications),
		boolToInt(s.OutcomeNotifications), boolToInt(s.MentionOthers),
		boolToInt(s.Muted), toNullInt64(s.NotificationsChannel),
	)
	return err
}

// ListGuildSettings returns all guild settings. A row that fails to decode
// is logged and skipped; it never fails the whole listing.
func (r *SQLiteRepo) ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT guild_id, filters, mentions, scrub_notifications,
		       outcome_notifications, mention_others, muted, notifications_channel
		FROM guild_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.GuildSettings
	for rows.Next() {
		s, err := scanGuildSettings(rows)
		if err != nil {
			r.log.Warn("skipping malformed guild settings row", zap.Error(err))
			continue
		}
		res = append(res, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// GetUserSettings returns a user's settings or ErrNotFound.
func (r *SQLiteRepo) GetUserSettings(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, filters, scrub_notifications, outcome_notifications, muted
		FROM user_settings
		WHERE user_id = ?`,
		userID,
	)
	s, err := scanUserSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertUserSettings inserts or fully replaces a user's settings row.
func (r *SQLiteRepo) UpsertUserSettings(ctx context.Context, s *domain.UserSettings) error {
	if s == nil {
		return errors.New("nil user settings")
	}
	filters, err := encodeStrings(s.Filters)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_settings (
			user_id, filters, scrub_notifications, outcome_notifications, muted
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			filters               = excluded.filters,
			scrub_notifications   = excluded.scrub_notifications,
			outcome_notifications = excluded.outcome_notifications,
			muted                 = excluded.muted`,
		s.User, filters, boolToInt(s.ScrubNotifications), boolToInt(s.OutcomeNotifications),
		boolToInt(s.Muted),
	)
	return err
}

// ListUserSettings returns all user settings, skipping malformed rows.
func (r *SQLiteRepo) ListUserSettings(ctx context.Context) ([]domain.UserSettings, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, filters, scrub_notifications, outcome_notifications, muted
		FROM user_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.UserSettings
	for rows.Next() {
		s, err := scanUserSettings(rows)
		if err != nil {
			r.log.Warn("skipping malformed user settings row", zap.Error(err))
			continue
		}
		res = append(res, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// ListReminders collects channel and user reminder rows and groups them by
// lead-time minutes, ascending.
func (r *SQLiteRepo) ListReminders(ctx context.Context) ([]domain.Reminder, error) {
	byMinutes := make(map[int64]*domain.Reminder)
	get := func(minutes int64) *domain.Reminder {
		rem, ok := byMinutes[minutes]
		if !ok {
			rem = &domain.Reminder{Minutes: minutes}
			byMinutes[minutes] = rem
		}
		return rem
	}

	rows, err := r.db.QueryContext(ctx, `SELECT guild_id, channel_id, minutes FROM channel_reminders`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var guildID, channelID, minutes int64
		if err := rows.Scan(&guildID, &channelID, &minutes); err != nil {
			_ = rows.Close()
			return nil, err
		}
		rem := get(minutes)
		rem.Channels = append(rem.Channels, domain.ChannelTarget{Guild: guildID, Channel: channelID})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	rows, err = r.db.QueryContext(ctx, `SELECT user_id, minutes FROM user_reminders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var userID, minutes int64
		if err := rows.Scan(&userID, &minutes); err != nil {
			return nil, err
		}
		rem := get(minutes)
		rem.Users = append(rem.Users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res := make([]domain.Reminder, 0, len(byMinutes))
	for _, rem := range byMinutes {
		res = append(res, *rem)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Minutes < res[j].Minutes })
	return res, nil
}

// AddChannelReminder binds a guild channel to a lead-time bucket.
func (r *SQLiteRepo) AddChannelReminder(ctx context.Context, guildID, channelID, minutes int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO channel_reminders (guild_id, channel_id, minutes)
		VALUES (?, ?, ?)
		ON CONFLICT(guild_id, channel_id, minutes) DO NOTHING`,
		guildID, channelID, minutes,
	)
	return err
}

// RemoveChannelReminder removes a channel binding; removing a missing row
// is not an error.
func (r *SQLiteRepo) RemoveChannelReminder(ctx context.Context, guildID, channelID, minutes int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM channel_reminders
		WHERE guild_id = ? AND channel_id = ? AND minutes = ?`,
		guildID, channelID, minutes,
	)
	return err
}

// AddUserReminder binds a user to a lead-time bucket for direct messages.
func (r *SQLiteRepo) AddUserReminder(ctx context.Context, userID, minutes int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_reminders (user_id, minutes)
		VALUES (?, ?)
		ON CONFLICT(user_id, minutes) DO NOTHING`,
		userID, minutes,
	)
	return err
}

// RemoveUserReminder removes a user binding.
func (r *SQLiteRepo) RemoveUserReminder(ctx context.Context, userID, minutes int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_reminders
		WHERE user_id = ? AND minutes = ?`,
		userID, minutes,
	)
	return err
}
