// Package scheduler runs allocation digests on a cron schedule and posts them
// to the configured chat webhooks.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"allocation-board/internal/config"
	"allocation-board/internal/digest"
	"allocation-board/internal/discord"
	"allocation-board/internal/filter"
	"allocation-board/internal/slack"
	"allocation-board/internal/status"
	"allocation-board/internal/view"
)

// ErrRunInProgress is returned when a digest is requested while another is
// still running.
var ErrRunInProgress = errors.New("digest run already in progress")

// Sender posts a digest to one messenger.
type Sender interface {
	Name() string
	SendDigest(ctx context.Context, webhookURL string, d digest.Digest, formatConfig *config.FormatConfig) error
}

// Deps are the collaborators a Scheduler works with. Discord and Slack
// default to the real webhook senders when their webhook is enabled.
type Deps struct {
	Fetcher  view.Fetcher
	Resolver view.CountryResolver
	Tracker  *status.Tracker
	Discord  Sender
	Slack    Sender
	DryRun   bool
}

// RunResult summarises one digest run.
type RunResult struct {
	RunID   string
	Rows    int
	Sent    []string // Messengers posted to
	Skipped []string // Messengers in quiet hours or with nothing to post
	Failed  []string
}

type target struct {
	sender  Sender
	webhook config.WebhookConfig
}

// Scheduler manages digest execution
type Scheduler struct {
	config        *config.Config
	fetcher       view.Fetcher
	resolver      view.CountryResolver
	statusTracker *status.Tracker
	targets       []target
	dryRun        bool

	cron    *cron.Cron
	running sync.Mutex // Held for the duration of a run
	wg      sync.WaitGroup
	closers []func() error

	now      func() time.Time
	newRunID func() string
}

// New creates a new scheduler instance
func New(cfg *config.Config, deps Deps) (*Scheduler, error) {
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("scheduler requires a fetcher")
	}

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid digest timezone %q: %w", cfg.Digest.Timezone, err)
	}

	tracker := deps.Tracker
	if tracker == nil {
		tracker = status.NewTracker()
	}

	s := &Scheduler{
		config:        cfg,
		fetcher:       deps.Fetcher,
		resolver:      deps.Resolver,
		statusTracker: tracker,
		dryRun:        deps.DryRun,
		cron:          cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{})),
		now:           time.Now,
		newRunID:      func() string { return uuid.NewString() },
	}

	if cfg.Digest.Discord.Enabled {
		sender := deps.Discord
		if sender == nil {
			ds, err := discord.NewWebhookSender()
			if err != nil {
				return nil, fmt.Errorf("failed to create Discord sender: %w", err)
			}
			s.closers = append(s.closers, ds.Close)
			sender = ds
		}
		s.targets = append(s.targets, target{sender: sender, webhook: cfg.Digest.Discord})
	}

	if cfg.Digest.Slack.Enabled {
		sender := deps.Slack
		if sender == nil {
			sender = slack.NewWebhookSender()
		}
		s.targets = append(s.targets, target{sender: sender, webhook: cfg.Digest.Slack})
	}

	return s, nil
}

// Start registers the digest job and starts the cron loop. When
// run_on_start is set, one digest is posted immediately in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.Digest.Schedule, func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest %q: %w", s.config.Digest.Schedule, err)
	}

	s.cron.Start()

	if s.config.Digest.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runScheduled(ctx)
		}()
	}

	entries := s.cron.Entries()
	fields := log.Fields{
		"schedule": s.config.Digest.Schedule,
		"timezone": s.config.Digest.Timezone,
		"targets":  len(s.targets),
		"dry_run":  s.dryRun,
	}
	if len(entries) > 0 {
		fields["next_run"] = entries[0].Next.Format(time.RFC3339)
	}
	log.WithFields(fields).Info("Digest scheduler started")
	return nil
}

// Stop waits for a running digest to finish, then releases senders.
func (s *Scheduler) Stop() {
	log.Info("Stopping scheduler")

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.WithError(err).Warn("Failed to close sender")
		}
	}

	s.statusTracker.LogSummary()
	log.Info("Scheduler stopped")
}

// runScheduled runs one digest and logs the outcome. Overlapping ticks are
// skipped.
func (s *Scheduler) runScheduled(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if errors.Is(err, ErrRunInProgress) {
		log.Warn("Previous digest still running, skipping this tick")
		return
	}
	if err != nil {
		log.WithError(err).WithField("run_id", result.RunID).Error("Digest run failed")
		return
	}
	log.WithFields(log.Fields{
		"run_id":  result.RunID,
		"rows":    result.Rows,
		"sent":    result.Sent,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("Digest run completed")
}

// RunOnce fetches allocations once and posts a digest to every enabled
// webhook. A failed fetch aborts the run; a failed post is recorded in the
// result and the error, and the remaining webhooks are still tried.
func (s *Scheduler) RunOnce(ctx context.Context) (RunResult, error) {
	if !s.running.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer s.running.Unlock()

	if s.config.Digest.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Digest.Timeout)
		defer cancel()
	}

	result := RunResult{RunID: s.newRunID()}
	logger := log.WithField("run_id", result.RunID)
	logger.Info("Digest run starting")

	records, err := s.fetcher.FetchAllocations(ctx)
	if err != nil {
		s.statusTracker.UpdateSourceStatus(false, 0, err.Error())
		return result, fmt.Errorf("failed to fetch allocations: %w", err)
	}
	s.statusTracker.UpdateSourceStatus(true, len(records), "")

	rows := view.BuildRows(records, s.resolver, s.config.Board.FlagBaseURL)
	result.Rows = len(rows)
	newly := s.statusTracker.ObserveQualified(rows)
	if len(newly) > 0 {
		logger.WithField("countries", newly).Info("Countries newly qualified")
	}

	boardOpts := view.Options{
		GoalAmount:   s.config.Board.GoalAmount,
		GoalCurrency: s.config.Board.GoalCurrency,
	}
	now := s.now()

	var errs []error
	for _, t := range s.targets {
		name := t.sender.Name()
		tlog := logger.WithField("messenger", name)

		if t.webhook.QuietHours.IsActiveAt(now) {
			tlog.Info("Quiet hours active, skipping digest")
			result.Skipped = append(result.Skipped, name)
			continue
		}

		filtered := filter.Apply(t.webhook.Filters, rows, s.resolver)
		d := digest.Build(result.RunID, s.config.Format.DigestTitle, boardOpts.GoalText(),
			filtered, s.config.Digest.TopN, newly, now)
		if d.Empty() {
			tlog.Info("No rows after filtering, skipping digest")
			result.Skipped = append(result.Skipped, name)
			continue
		}

		if s.dryRun {
			tlog.WithFields(log.Fields{
				"rows":    len(d.Rows),
				"summary": d.Summary(),
			}).Info("Dry run: digest not sent")
			for _, row := range d.Rows {
				tlog.Debug(digest.Line(row, false))
			}
			result.Sent = append(result.Sent, name)
			continue
		}

		if err := t.sender.SendDigest(ctx, t.webhook.URL, d, &s.config.Format); err != nil {
			tlog.WithError(err).Error("Failed to send digest")
			result.Failed = append(result.Failed, name)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		s.statusTracker.RecordDigestSent(name, result.RunID, len(d.Rows))
		result.Sent = append(result.Sent, name)
	}

	return result, errors.Join(errs...)
}

// cronLogger routes cron's internal logging through logrus.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(kvFields(keysAndValues)).Debug("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithFields(kvFields(keysAndValues)).WithError(err).Error("cron: " + msg)
}

func kvFields(keysAndValues []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
