package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/domain"
)

// ErrQueueFull is returned when the dispatch queue is saturated; the
// notification is dropped, matching the fire-and-forget contract.
var ErrQueueFull = errors.New("notification queue full")

const queueSize = 256

// Notifier delivers dispatch instructions over the bot API. Dispatch only
// enqueues; a worker goroutine owns the actual sends, so the scheduler
// never blocks on transport I/O.
type Notifier struct {
	bot   *tgbotapi.BotAPI
	log   *zap.Logger
	queue chan domain.DueReminder
}

func NewNotifier(bot *tgbotapi.BotAPI, log *zap.Logger) *Notifier {
	return &Notifier{
		bot:   bot,
		log:   log,
		queue: make(chan domain.DueReminder, queueSize),
	}
}

// Dispatch enqueues one notification. It never blocks.
func (n *Notifier) Dispatch(d domain.DueReminder) error {
	select {
	case n.queue <- d:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run drains the queue until ctx is canceled.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.log.Info("notifier stopping", zap.Int("queued", len(n.queue)))
			return
		case d := <-n.queue:
			n.send(d)
		}
	}
}

func (n *Notifier) send(d domain.DueReminder) {
	chatID := d.ChannelID
	if d.Kind == domain.SubscriberUser {
		chatID = d.SubscriberID
	}
	if chatID == 0 {
		n.log.Warn("notification without a target chat",
			zap.String("class", d.Class.String()),
			zap.Int64("subscriber", d.SubscriberID),
		)
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatDueReminder(d))
	msg.DisableWebPagePreview = false
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error("send notification failed",
			zap.Error(err),
			zap.Int64("chat", chatID),
			zap.String("launch", d.Launch.Name),
		)
	}
}
