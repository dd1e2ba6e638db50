package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/cache"
	"github.com/Baev1/okto/internal/config"
	"github.com/Baev1/okto/internal/provider"
	"github.com/Baev1/okto/internal/scheduler"
	"github.com/Baev1/okto/internal/store"
	"github.com/Baev1/okto/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server

	repo     store.Repo
	launches *cache.LaunchCache
	poller   *provider.Poller
	cron     *cron.Cron
	notifier *telegram.Notifier
	sched    *scheduler.Scheduler
	router   *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting launch bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("poll", a.cfg.PollInterval),
		zap.Duration("tick", a.cfg.TickInterval),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath, a.log)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	a.launches = cache.New()
	client := provider.NewClient(a.cfg.LaunchAPIURL, a.cfg.LaunchLimit)
	a.poller = provider.NewPoller(client, a.launches, a.log)

	a.notifier = telegram.NewNotifier(a.bot, a.log)
	a.sched = scheduler.New(a.launches, a.repo, a.notifier, a.log, a.cfg.TickInterval)
	a.router = telegram.NewRouter(a.bot, a.log, a.repo, a.launches)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prime the cache before the first scheduler tick; a failed first poll
	// just means ticks skip until the cron catches up.
	a.poller.PollOnce(ctx)
	a.log.Info("launch cache primed", zap.Int("launches", a.launches.Len()))

	a.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := a.cron.AddFunc(fmt.Sprintf("@every %s", a.cfg.PollInterval), func() {
		a.poller.PollOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule launch poll: %w", err)
	}
	a.cron.Start()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.notifier.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.sched.Run(ctx)
	}()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown(&wg)
			return nil
		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// shutdown lets the in-progress tick and queued sends finish, then closes
// everything in dependency order.
func (a *App) shutdown(wg *sync.WaitGroup) {
	<-a.cron.Stop().Done()
	wg.Wait()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
}
