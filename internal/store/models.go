package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Baev1/okto/internal/domain"
)

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGuildSettings(sc scanner) (*domain.GuildSettings, error) {
	var (
		guildID     int64
		filtersRaw  string
		mentionsRaw string
		scrubInt    int
		outcomeInt  int
		othersInt   int
		mutedInt    int
		channelNS   sql.NullInt64
	)
	if err := sc.Scan(&guildID, &filtersRaw, &mentionsRaw, &scrubInt, &outcomeInt, &othersInt, &mutedInt, &channelNS); err != nil {
		return nil, err
	}

	filters, err := decodeStrings(filtersRaw)
	if err != nil {
		return nil, fmt.Errorf("guild %d filters: %w", guildID, err)
	}
	mentions, err := decodeInt64s(mentionsRaw)
	if err != nil {
		return nil, fmt.Errorf("guild %d mentions: %w", guildID, err)
	}

	return &domain.GuildSettings{
		Guild:                guildID,
		Filters:              filters,
		Mentions:             mentions,
		ScrubNotifications:   scrubInt != 0,
		OutcomeNotifications: outcomeInt != 0,
		MentionOthers:        othersInt != 0,
		Muted:                mutedInt != 0,
		NotificationsChannel: fromNullInt64(channelNS),
	}, nil
}

func scanUserSettings(sc scanner) (*domain.UserSettings, error) {
	var (
		userID     int64
		filtersRaw string
		scrubInt   int
		outcomeInt int
		mutedInt   int
	)
	if err := sc.Scan(&userID, &filtersRaw, &scrubInt, &outcomeInt, &mutedInt); err != nil {
		return nil, err
	}

	filters, err := decodeStrings(filtersRaw)
	if err != nil {
		return nil, fmt.Errorf("user %d filters: %w", userID, err)
	}

	return &domain.UserSettings{
		User:                 userID,
		Filters:              filters,
		ScrubNotifications:   scrubInt != 0,
		OutcomeNotifications: outcomeInt != 0,
		Muted:                mutedInt != 0,
	}, nil
}

// Filters and mentions are persisted as JSON arrays in TEXT columns.

func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeStrings(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func encodeInt64s(v []int64) (string, error) {
	if v == nil {
		v = []int64{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeInt64s(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var v []int64
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func fromNullInt64(ns sql.NullInt64) int64 {
	if !ns.Valid {
		return 0
	}
	return ns.Int64
}
