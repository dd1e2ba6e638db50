// Package resolver decides which guilds and users get notified about a
// launch. It is pure given a launch and a point-in-time settings snapshot;
// the scheduler fetches that snapshot once per tick.
package resolver

import (
	"github.com/Baev1/okto/internal/domain"
)

// Snapshot is the settings state one tick evaluates against. Staleness
// between the store and the snapshot is bounded by the tick interval.
type Snapshot struct {
	Guilds    map[int64]domain.GuildSettings
	Users     map[int64]domain.UserSettings
	Reminders []domain.Reminder
}

// NewSnapshot indexes settings lists by subscriber id.
func NewSnapshot(guilds []domain.GuildSettings, users []domain.UserSettings, reminders []domain.Reminder) Snapshot {
	s := Snapshot{
		Guilds:    make(map[int64]domain.GuildSettings, len(guilds)),
		Users:     make(map[int64]domain.UserSettings, len(users)),
		Reminders: reminders,
	}
	for _, g := range guilds {
		s.Guilds[g.Guild] = g
	}
	for _, u := range users {
		s.Users[u.User] = u
	}
	return s
}

// LeadTimeTargets expands one reminder rule into dispatch instructions for a
// launch. Muted subscribers and filter matches are excluded; the
// scrub/outcome toggles never gate lead-time reminders. A guild without
// stored settings has no filters and is still a valid target.
func LeadTimeTargets(launch domain.LaunchRecord, rule domain.Reminder, snap Snapshot) []domain.DueReminder {
	var out []domain.DueReminder

	for _, ch := range rule.Channels {
		var (
			channel  = ch.Channel
			mentions []int64
		)
		if g, ok := snap.Guilds[ch.Guild]; ok {
			if g.Muted || domain.Filtered(g, launch) {
				continue
			}
			if g.NotificationsChannel != 0 {
				channel = g.NotificationsChannel
			}
			mentions = g.Mentions
		}
		out = append(out, domain.DueReminder{
			Launch:       launch,
			Class:        domain.ClassLeadTime,
			Kind:         domain.SubscriberGuild,
			SubscriberID: ch.Guild,
			ChannelID:    channel,
			Minutes:      rule.Minutes,
			Mentions:     mentions,
		})
	}

	for _, userID := range rule.Users {
		if u, ok := snap.Users[userID]; ok && (u.Muted || domain.Filtered(u, launch)) {
			continue
		}
		out = append(out, domain.DueReminder{
			Launch:       launch,
			Class:        domain.ClassLeadTime,
			Kind:         domain.SubscriberUser,
			SubscriberID: userID,
			Minutes:      rule.Minutes,
		})
	}

	return out
}

// StatusChangeTargets resolves recipients for a scrub or outcome
// notification. Only unmuted subscribers with the matching toggle are
// included; filters still apply. Guilds without a dedicated notifications
// channel fall back to their channel-reminder targets.
func StatusChangeTargets(launch domain.LaunchRecord, class domain.NotificationClass, snap Snapshot) []domain.DueReminder {
	var out []domain.DueReminder

	wantsClass := func(s domain.ReminderSettings) bool {
		switch class {
		case domain.ClassScrub:
			return s.NotifyScrub()
		case domain.ClassOutcome:
			return s.NotifyOutcome()
		default:
			return false
		}
	}

	for _, g := range snap.Guilds {
		if g.Muted || !wantsClass(g) || domain.Filtered(g, launch) {
			continue
		}
		// Role mentions on status-change notifications are opt-in.
		var mentions []int64
		if g.MentionOthers {
			mentions = g.Mentions
		}
		channels := guildChannels(g, snap.Reminders)
		for _, channel := range channels {
			out = append(out, domain.DueReminder{
				Launch:       launch,
				Class:        class,
				Kind:         domain.SubscriberGuild,
				SubscriberID: g.Guild,
				ChannelID:    channel,
				Status:       launch.Status,
				Mentions:     mentions,
			})
		}
	}

	for _, u := range snap.Users {
		if u.Muted || !wantsClass(u) || domain.Filtered(u, launch) {
			continue
		}
		out = append(out, domain.DueReminder{
			Launch:       launch,
			Class:        class,
			Kind:         domain.SubscriberUser,
			SubscriberID: u.User,
			Status:       launch.Status,
		})
	}

	return out
}

// guildChannels returns the guild's notification channel, or every channel
// the guild has bound a reminder to when no single channel is configured.
func guildChannels(g domain.GuildSettings, reminders []domain.Reminder) []int64 {
	if g.NotificationsChannel != 0 {
		return []int64{g.NotificationsChannel}
	}
	seen := make(map[int64]struct{})
	var channels []int64
	for _, rule := range reminders {
		for _, ch := range rule.Channels {
			if ch.Guild != g.Guild {
				continue
			}
			if _, ok := seen[ch.Channel]; ok {
				continue
			}
			seen[ch.Channel] = struct{}{}
			channels = append(channels, ch.Channel)
		}
	}
	return channels
}
