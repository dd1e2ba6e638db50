package store

import (
	"context"
	"errors"

	"github.com/Baev1/okto/internal/domain"
)

// ErrNotFound is returned when a guild or user has no stored settings.
var ErrNotFound = errors.New("settings not found")

// Repo defines storage operations for subscriber settings and reminder
// rules. The scheduler only uses the read side; the command router writes.
type Repo interface {
	GetGuildSettings(ctx context.Context, guildID int64) (*domain.GuildSettings, error)
	UpsertGuildSettings(ctx context.Context, s *domain.GuildSettings) error
	ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error)

	GetUserSettings(ctx context.Context, userID int64) (*domain.UserSettings, error)
	UpsertUserSettings(ctx context.Context, s *domain.UserSettings) error
	ListUserSettings(ctx context.Context) ([]domain.UserSettings, error)

	// ListReminders returns all reminder rules grouped by lead-time minutes.
	ListReminders(ctx context.Context) ([]domain.Reminder, error)
	AddChannelReminder(ctx context.Context, guildID, channelID, minutes int64) error
	RemoveChannelReminder(ctx context.Context, guildID, channelID, minutes int64) error
	AddUserReminder(ctx context.Context, userID, minutes int64) error
	RemoveUserReminder(ctx context.Context, userID, minutes int64) error

	Close() error
}
