package domain

import (
	"strings"
	"time"
)

// Reminder is a lead-time rule: notify the bound channels and users when
// the time remaining before a launch drops below Minutes.
type Reminder struct {
	Minutes  int64
	Channels []ChannelTarget
	Users    []int64
}

// ChannelTarget binds a reminder rule to one guild channel.
type ChannelTarget struct {
	Guild   int64
	Channel int64
}

// Duration returns the lead time of the rule.
func (r Reminder) Duration() time.Duration {
	return time.Duration(r.Minutes) * time.Minute
}

// GuildSettings is a guild's notification profile. Mentions lists role ids
// pinged in lead-time reminders; MentionOthers extends the ping to scrub
// and outcome notifications as well. Muted suppresses every notification
// class for the guild without touching its reminder rules.
type GuildSettings struct {
	Guild                int64
	Filters              []string
	Mentions             []int64
	ScrubNotifications   bool
	OutcomeNotifications bool
	MentionOthers        bool
	Muted                bool
	NotificationsChannel int64 // 0 means not configured
}

// UserSettings is a user's notification profile for direct messages.
type UserSettings struct {
	User                 int64
	Filters              []string
	ScrubNotifications   bool
	OutcomeNotifications bool
	Muted                bool
}

// ReminderSettings is the capability shared by guild and user profiles,
// read by the resolver when deciding who gets notified.
type ReminderSettings interface {
	GetFilters() []string
	NotifyScrub() bool
	NotifyOutcome() bool
}

func (g GuildSettings) GetFilters() []string { return g.Filters }
func (g GuildSettings) NotifyScrub() bool    { return g.ScrubNotifications }
func (g GuildSettings) NotifyOutcome() bool  { return g.OutcomeNotifications }

func (u UserSettings) GetFilters() []string { return u.Filters }
func (u UserSettings) NotifyScrub() bool    { return u.ScrubNotifications }
func (u UserSettings) NotifyOutcome() bool  { return u.OutcomeNotifications }

// Filtered reports whether any configured filter matches the launch's
// vehicle, provider or mission type. Matching is a case-insensitive
// substring test.
func Filtered(s ReminderSettings, l LaunchRecord) bool {
	if s == nil {
		return false
	}
	vehicle := strings.ToLower(l.Vehicle)
	provider := strings.ToLower(l.Provider)
	mission := strings.ToLower(l.MissionType)
	for _, f := range s.GetFilters() {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if strings.Contains(vehicle, f) || strings.Contains(provider, f) || strings.Contains(mission, f) {
			return true
		}
	}
	return false
}
