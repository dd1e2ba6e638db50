package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/cache"
	"github.com/Baev1/okto/internal/store"
)

// sender is the part of tgbotapi.BotAPI the router needs to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Router wires bot commands to the settings store and the launch cache.
// Group chats act as guilds; private chats act as users.
type Router struct {
	bot      sender
	log      *zap.Logger
	repo     store.Repo
	launches *cache.LaunchCache
}

func NewRouter(bot *tgbotapi.BotAPI, log *zap.Logger, repo store.Repo, launches *cache.LaunchCache) *Router {
	return &Router{bot: bot, log: log, repo: repo, launches: launches}
}

// HandleUpdate routes a single update to the matching handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	cmd, args := splitCommand(text)
	switch cmd {
	case "/start", "/help":
		r.sendText(msg.Chat.ID, startText)
	case "/nextlaunch":
		r.handleNextLaunch(msg.Chat.ID)
	case "/remind":
		r.handleRemind(ctx, msg, args)
	case "/unremind":
		r.handleUnremind(ctx, msg, args)
	case "/reminders":
		r.handleListReminders(ctx, msg)
	case "/filters":
		r.handleFilters(ctx, msg, args)
	case "/togglescrub":
		r.handleToggle(ctx, msg, toggleScrub)
	case "/toggleoutcome":
		r.handleToggle(ctx, msg, toggleOutcome)
	case "/togglementions":
		r.handleToggle(ctx, msg, toggleMentionOthers)
	case "/mute":
		r.handleMute(ctx, msg)
	case "/mentions":
		r.handleMentions(ctx, msg, args)
	case "/notifychannel":
		r.handleNotifyChannel(ctx, msg)
	default:
		// Unknown command, ignore silently.
	}
}

// splitCommand separates the command word (bot mention stripped) from its
// arguments.
func splitCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	cmd := fields[0]
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send reply failed", zap.Error(err), zap.Int64("chat", chatID))
	}
}
