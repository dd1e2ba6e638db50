// Package scheduler evaluates the launch cache on a fixed interval and
// emits each due notification exactly once per launch record lifetime.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Baev1/okto/internal/domain"
	"github.com/Baev1/okto/internal/resolver"
)

// LaunchSource is the read side of the launch cache.
type LaunchSource interface {
	Snapshot() ([]domain.LaunchRecord, uint64, error)
}

// SettingsSource is the read side of the settings store. The scheduler
// fetches a fresh snapshot every tick; concurrent settings writes simply
// apply on the following tick.
type SettingsSource interface {
	ListGuildSettings(ctx context.Context) ([]domain.GuildSettings, error)
	ListUserSettings(ctx context.Context) ([]domain.UserSettings, error)
	ListReminders(ctx context.Context) ([]domain.Reminder, error)
}

// Dispatcher receives dispatch instructions. Dispatch must not block on
// delivery; the telegram notifier enqueues and returns. The scheduler never
// retries a failed dispatch.
type Dispatcher interface {
	Dispatch(d domain.DueReminder) error
}

// Scheduler drives the reminder evaluation loop. All bookkeeping is
// in-memory and per-process; a restart may re-send reminders, which is an
// accepted trade-off.
type Scheduler struct {
	launches   LaunchSource
	settings   SettingsSource
	dispatcher Dispatcher
	log        *zap.Logger
	interval   time.Duration
	now        func() time.Time

	// emitted holds dedup keys per internal launch id so eviction is a
	// single map delete when a launch leaves the snapshot.
	emitted    map[int64]map[string]struct{}
	lastStatus map[int64]int
}

// New creates a Scheduler ticking at the given interval.
func New(launches LaunchSource, settings SettingsSource, dispatcher Dispatcher, log *zap.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		launches:   launches,
		settings:   settings,
		dispatcher: dispatcher,
		log:        log,
		interval:   interval,
		now:        time.Now,
		emitted:    make(map[int64]map[string]struct{}),
		lastStatus: make(map[int64]int),
	}
}

// Run starts the loop until ctx is canceled. Ticks run inline, so they
// never overlap and an in-progress tick always finishes before Run returns.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one evaluation cycle. A cache or settings read failure
// aborts the cycle; it is retried on the next timer fire and is never fatal.
func (s *Scheduler) Tick(ctx context.Context) {
	snap, _, err := s.launches.Snapshot()
	if err != nil {
		s.log.Warn("launch snapshot unavailable, skipping tick", zap.Error(err))
		return
	}

	guilds, err := s.settings.ListGuildSettings(ctx)
	if err != nil {
		s.log.Error("list guild settings failed, skipping tick", zap.Error(err))
		return
	}
	users, err := s.settings.ListUserSettings(ctx)
	if err != nil {
		s.log.Error("list user settings failed, skipping tick", zap.Error(err))
		return
	}
	reminders, err := s.settings.ListReminders(ctx)
	if err != nil {
		s.log.Error("list reminders failed, skipping tick", zap.Error(err))
		return
	}
	rsnap := resolver.NewSnapshot(guilds, users, reminders)

	now := s.now().UTC()
	for _, l := range snap {
		s.evalLeadTime(l, now, rsnap)
		s.evalStatusChange(l, rsnap)
	}

	s.evict(snap)
}

// evalLeadTime emits a reminder the first tick the remaining lead time
// crosses below a rule's minutes, and never again for the same key.
func (s *Scheduler) evalLeadTime(l domain.LaunchRecord, now time.Time, rsnap resolver.Snapshot) {
	if !l.NET.After(now) {
		return
	}
	lead := l.NET.Sub(now)
	for _, rule := range rsnap.Reminders {
		if lead > rule.Duration() {
			continue
		}
		for _, due := range resolver.LeadTimeTargets(l, rule, rsnap) {
			s.emit(due)
		}
	}
}

// evalStatusChange compares the launch status to the previous tick's and
// emits scrub/outcome notifications on transitions into those classes.
func (s *Scheduler) evalStatusChange(l domain.LaunchRecord, rsnap resolver.Snapshot) {
	prev, seen := s.lastStatus[l.ID]
	s.lastStatus[l.ID] = l.Status
	if !seen || prev == l.Status {
		return
	}

	var class domain.NotificationClass
	switch {
	case l.IsScrubbed():
		class = domain.ClassScrub
	case l.HasOutcome():
		class = domain.ClassOutcome
	default:
		return
	}

	for _, due := range resolver.StatusChangeTargets(l, class, rsnap) {
		s.emit(due)
	}
}

// emit marks the dedup key before dispatching, so a dispatch failure can
// never cause a duplicate. Failed dispatches are logged and dropped.
func (s *Scheduler) emit(due domain.DueReminder) {
	keys, ok := s.emitted[due.Launch.ID]
	if !ok {
		keys = make(map[string]struct{})
		s.emitted[due.Launch.ID] = keys
	}
	key := due.Key()
	if _, dup := keys[key]; dup {
		return
	}
	keys[key] = struct{}{}

	if err := s.dispatcher.Dispatch(due); err != nil {
		s.log.Warn("dispatch failed",
			zap.Error(err),
			zap.String("key", key),
			zap.String("launch", due.Launch.Name),
		)
		return
	}
	s.log.Debug("notification dispatched",
		zap.String("key", key),
		zap.String("class", due.Class.String()),
		zap.String("launch", due.Launch.Name),
	)
}

// evict drops bookkeeping for launches no longer in the snapshot, bounding
// memory growth. A launch that later reappears carries a new internal id,
// so its reminders can fire again.
func (s *Scheduler) evict(snap []domain.LaunchRecord) {
	present := make(map[int64]struct{}, len(snap))
	for _, l := range snap {
		present[l.ID] = struct{}{}
	}
	for id := range s.emitted {
		if _, ok := present[id]; !ok {
			delete(s.emitted, id)
		}
	}
	for id := range s.lastStatus {
		if _, ok := present[id]; !ok {
			delete(s.lastStatus, id)
		}
	}
}
