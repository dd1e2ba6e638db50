package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/domain"
	"github.com/Baev1/okto/internal/store"
)

type toggleKind int

const (
	toggleScrub toggleKind = iota
	toggleOutcome
	toggleMentionOthers
)

func isPrivate(msg *tgbotapi.Message) bool {
	return msg.Chat.IsPrivate()
}

func (r *Router) handleNextLaunch(chatID int64) {
	snap, _, err := r.launches.Snapshot()
	if err != nil || len(snap) == 0 {
		r.sendText(chatID, "No launch schedule available yet, try again in a minute.")
		return
	}

	now := time.Now().UTC()
	for _, l := range snap {
		if l.NET.After(now) {
			r.sendText(chatID, formatNextLaunch(l, now))
			return
		}
	}
	r.sendText(chatID, "No upcoming launches on the schedule.")
}

func (r *Router) handleRemind(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		r.sendText(msg.Chat.ID, "Usage: /remind <lead time>, e.g. /remind 1h or /remind 30m")
		return
	}
	minutes, err := domain.ParseLeadTime(args[0])
	if err != nil {
		r.sendText(msg.Chat.ID, "Can't parse that lead time: "+err.Error())
		return
	}

	if isPrivate(msg) {
		err = r.repo.AddUserReminder(ctx, msg.Chat.ID, minutes)
	} else {
		err = r.repo.AddChannelReminder(ctx, msg.Chat.ID, msg.Chat.ID, minutes)
	}
	if err != nil {
		r.log.Error("add reminder failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving that reminder.")
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf("⏰ I will remind this chat %s before every launch.", formatLead(minutes)))
}

func (r *Router) handleUnremind(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		r.sendText(msg.Chat.ID, "Usage: /unremind <lead time>")
		return
	}
	minutes, err := domain.ParseLeadTime(args[0])
	if err != nil {
		r.sendText(msg.Chat.ID, "Can't parse that lead time: "+err.Error())
		return
	}

	if isPrivate(msg) {
		err = r.repo.RemoveUserReminder(ctx, msg.Chat.ID, minutes)
	} else {
		err = r.repo.RemoveChannelReminder(ctx, msg.Chat.ID, msg.Chat.ID, minutes)
	}
	if err != nil {
		r.log.Error("remove reminder failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong removing that reminder.")
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf("Removed the %s reminder.", formatLead(minutes)))
}

func (r *Router) handleListReminders(ctx context.Context, msg *tgbotapi.Message) {
	rems, err := r.repo.ListReminders(ctx)
	if err != nil {
		r.log.Error("list reminders failed", zap.Error(err))
		r.sendText(msg.Chat.ID, "Something went wrong reading reminders.")
		return
	}

	var mine []int64
	for _, rule := range rems {
		if isPrivate(msg) {
			for _, u := range rule.Users {
				if u == msg.Chat.ID {
					mine = append(mine, rule.Minutes)
				}
			}
			continue
		}
		for _, ch := range rule.Channels {
			if ch.Guild == msg.Chat.ID {
				mine = append(mine, rule.Minutes)
			}
		}
	}
	if len(mine) == 0 {
		r.sendText(msg.Chat.ID, "No reminders set for this chat. Try /remind 1h.")
		return
	}

	sort.Slice(mine, func(i, j int) bool { return mine[i] < mine[j] })
	parts := make([]string, len(mine))
	for i, m := range mine {
		parts[i] = formatLead(m)
	}
	r.sendText(msg.Chat.ID, "⏰ Reminders for this chat: "+strings.Join(parts, ", "))
}

func (r *Router) handleFilters(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		filters := r.currentFilters(ctx, msg)
		if len(filters) == 0 {
			r.sendText(msg.Chat.ID, "No filters set. Add one with /filters add falcon.")
			return
		}
		r.sendText(msg.Chat.ID, "Filters: "+strings.Join(filters, ", "))
		return
	}
	if len(args) < 2 {
		r.sendText(msg.Chat.ID, "Usage: /filters add <word> or /filters remove <word>")
		return
	}

	word := strings.ToLower(strings.Join(args[1:], " "))
	filters := r.currentFilters(ctx, msg)
	switch strings.ToLower(args[0]) {
	case "add":
		for _, f := range filters {
			if f == word {
				r.sendText(msg.Chat.ID, "That filter is already set.")
				return
			}
		}
		filters = append(filters, word)
	case "remove":
		kept := filters[:0]
		for _, f := range filters {
			if f != word {
				kept = append(kept, f)
			}
		}
		filters = kept
	default:
		r.sendText(msg.Chat.ID, "Usage: /filters add <word> or /filters remove <word>")
		return
	}

	if err := r.saveFilters(ctx, msg, filters); err != nil {
		r.log.Error("save filters failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving filters.")
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf("Filters updated (%d active). Matching launches are skipped.", len(filters)))
}

func (r *Router) currentFilters(ctx context.Context, msg *tgbotapi.Message) []string {
	if isPrivate(msg) {
		if s, err := r.repo.GetUserSettings(ctx, msg.Chat.ID); err == nil {
			return s.Filters
		}
		return nil
	}
	if s, err := r.repo.GetGuildSettings(ctx, msg.Chat.ID); err == nil {
		return s.Filters
	}
	return nil
}

func (r *Router) saveFilters(ctx context.Context, msg *tgbotapi.Message, filters []string) error {
	if isPrivate(msg) {
		s, err := r.userSettings(ctx, msg.Chat.ID)
		if err != nil {
			return err
		}
		s.Filters = filters
		return r.repo.UpsertUserSettings(ctx, s)
	}
	s, err := r.guildSettings(ctx, msg.Chat.ID)
	if err != nil {
		return err
	}
	s.Filters = filters
	return r.repo.UpsertGuildSettings(ctx, s)
}

func (r *Router) handleToggle(ctx context.Context, msg *tgbotapi.Message, kind toggleKind) {
	var (
		enabled bool
		err     error
	)
	if isPrivate(msg) {
		if kind == toggleMentionOthers {
			r.sendText(msg.Chat.ID, "/togglementions only applies to group chats.")
			return
		}
		var s *domain.UserSettings
		if s, err = r.userSettings(ctx, msg.Chat.ID); err == nil {
			if kind == toggleScrub {
				s.ScrubNotifications = !s.ScrubNotifications
				enabled = s.ScrubNotifications
			} else {
				s.OutcomeNotifications = !s.OutcomeNotifications
				enabled = s.OutcomeNotifications
			}
			err = r.repo.UpsertUserSettings(ctx, s)
		}
	} else {
		var s *domain.GuildSettings
		if s, err = r.guildSettings(ctx, msg.Chat.ID); err == nil {
			switch kind {
			case toggleScrub:
				s.ScrubNotifications = !s.ScrubNotifications
				enabled = s.ScrubNotifications
			case toggleOutcome:
				s.OutcomeNotifications = !s.OutcomeNotifications
				enabled = s.OutcomeNotifications
			case toggleMentionOthers:
				s.MentionOthers = !s.MentionOthers
				enabled = s.MentionOthers
			}
			err = r.repo.UpsertGuildSettings(ctx, s)
		}
	}
	if err != nil {
		r.log.Error("toggle failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving that setting.")
		return
	}

	var name string
	switch kind {
	case toggleScrub:
		name = "Scrub"
	case toggleOutcome:
		name = "Outcome"
	case toggleMentionOthers:
		name = "Status-change mention"
	}
	state := "off"
	if enabled {
		state = "on"
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf("%s notifications are now %s.", name, state))
}

// handleMute toggles the chat's muted flag. Reminder rules and filters stay
// in place; the resolver just stops producing targets for the chat.
func (r *Router) handleMute(ctx context.Context, msg *tgbotapi.Message) {
	var (
		muted bool
		err   error
	)
	if isPrivate(msg) {
		var s *domain.UserSettings
		if s, err = r.userSettings(ctx, msg.Chat.ID); err == nil {
			s.Muted = !s.Muted
			muted = s.Muted
			err = r.repo.UpsertUserSettings(ctx, s)
		}
	} else {
		var s *domain.GuildSettings
		if s, err = r.guildSettings(ctx, msg.Chat.ID); err == nil {
			s.Muted = !s.Muted
			muted = s.Muted
			err = r.repo.UpsertGuildSettings(ctx, s)
		}
	}
	if err != nil {
		r.log.Error("mute failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving that setting.")
		return
	}

	if muted {
		r.sendText(msg.Chat.ID, "🔇 Notifications muted for this chat. Send /mute again to unmute.")
	} else {
		r.sendText(msg.Chat.ID, "🔔 Notifications unmuted for this chat.")
	}
}

// handleMentions manages the role ids pinged in this guild's notifications.
func (r *Router) handleMentions(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if isPrivate(msg) {
		r.sendText(msg.Chat.ID, "/mentions only applies to group chats.")
		return
	}

	s, err := r.guildSettings(ctx, msg.Chat.ID)
	if err != nil {
		r.log.Error("load guild settings failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong reading settings.")
		return
	}

	if len(args) == 0 || strings.EqualFold(args[0], "list") {
		if len(s.Mentions) == 0 {
			r.sendText(msg.Chat.ID, "No mentions set. Add one with /mentions add <id>.")
			return
		}
		parts := make([]string, len(s.Mentions))
		for i, id := range s.Mentions {
			parts[i] = fmt.Sprintf("@%d", id)
		}
		r.sendText(msg.Chat.ID, "Mentions: "+strings.Join(parts, " "))
		return
	}
	if len(args) != 2 {
		r.sendText(msg.Chat.ID, "Usage: /mentions add <id>, /mentions remove <id> or /mentions list")
		return
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		r.sendText(msg.Chat.ID, "That doesn't look like a numeric id.")
		return
	}

	switch strings.ToLower(args[0]) {
	case "add":
		for _, m := range s.Mentions {
			if m == id {
				r.sendText(msg.Chat.ID, "That mention is already set.")
				return
			}
		}
		s.Mentions = append(s.Mentions, id)
	case "remove":
		kept := s.Mentions[:0]
		for _, m := range s.Mentions {
			if m != id {
				kept = append(kept, m)
			}
		}
		s.Mentions = kept
	default:
		r.sendText(msg.Chat.ID, "Usage: /mentions add <id>, /mentions remove <id> or /mentions list")
		return
	}

	if err := r.repo.UpsertGuildSettings(ctx, s); err != nil {
		r.log.Error("save mentions failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving mentions.")
		return
	}
	r.sendText(msg.Chat.ID, fmt.Sprintf("Mentions updated (%d active).", len(s.Mentions)))
}

func (r *Router) handleNotifyChannel(ctx context.Context, msg *tgbotapi.Message) {
	if isPrivate(msg) {
		r.sendText(msg.Chat.ID, "Direct messages always arrive here; /notifychannel only applies to group chats.")
		return
	}

	s, err := r.guildSettings(ctx, msg.Chat.ID)
	if err == nil {
		s.NotificationsChannel = msg.Chat.ID
		err = r.repo.UpsertGuildSettings(ctx, s)
	}
	if err != nil {
		r.log.Error("set notifications channel failed", zap.Error(err), zap.Int64("chat", msg.Chat.ID))
		r.sendText(msg.Chat.ID, "Something went wrong saving that setting.")
		return
	}
	r.sendText(msg.Chat.ID, "📡 Launch notifications for this chat will be sent here.")
}

// guildSettings loads existing settings or starts a fresh profile.
func (r *Router) guildSettings(ctx context.Context, guildID int64) (*domain.GuildSettings, error) {
	s, err := r.repo.GetGuildSettings(ctx, guildID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.GuildSettings{Guild: guildID}, nil
	}
	return s, err
}

func (r *Router) userSettings(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	s, err := r.repo.GetUserSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &domain.UserSettings{User: userID}, nil
	}
	return s, err
}
