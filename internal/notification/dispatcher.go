package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"
	"campus-lost-found/internal/logger"

	"go.uber.org/zap"
)

var ErrDispatcherStopped = errors.New("notification dispatcher stopped")

// EmailDirectory lists the addresses of every registered user
type EmailDirectory interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// Sender delivers one message to all of its recipients in a single call
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// EventPublisher pushes report events to live subscribers
type EventPublisher interface {
	PublishReportCreated(ctx context.Context, event *ReportEvent) error
}

type Options struct {
	Workers      int
	QueueSize    int
	SendTimeout  time.Duration
	DashboardURL string
}

type job struct {
	report   report.Report
	reporter user.User
	queuedAt time.Time
}

// Dispatcher fans new reports out to every other user by email, off the
// request path. A full queue drops the job instead of blocking the caller.
type Dispatcher struct {
	directory EmailDirectory
	sender    Sender
	publisher EventPublisher

	workers      int
	sendTimeout  time.Duration
	dashboardURL string

	jobs chan job

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	stats *StatsTracker
	log   *zap.Logger
}

// NewDispatcher builds a dispatcher. sender and publisher may each be nil.
func NewDispatcher(directory EmailDirectory, sender Sender, publisher EventPublisher, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 15 * time.Second
	}

	return &Dispatcher{
		directory:    directory,
		sender:       sender,
		publisher:    publisher,
		workers:      opts.Workers,
		sendTimeout:  opts.SendTimeout,
		dashboardURL: opts.DashboardURL,
		jobs:         make(chan job, opts.QueueSize),
		stats:        NewStatsTracker(),
		log:          logger.Named("notification"),
	}
}

// Start launches the worker goroutines
func (d *Dispatcher) Start() {
	d.log.Info("Starting notification dispatcher",
		zap.Int("workers", d.workers),
		zap.Int("queue_size", cap(d.jobs)),
		zap.Duration("send_timeout", d.sendTimeout),
	)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop refuses new jobs, drains the queue and waits for the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()

	s := d.stats.Snapshot()
	d.log.Info("Notification dispatcher stopped",
		zap.Int64("queued", s.Queued),
		zap.Int64("sent", s.Sent),
		zap.Int64("failed", s.Failed),
		zap.Int64("dropped", s.Dropped),
		zap.Int64("skipped", s.Skipped),
	)
}

// NotifyNewReport enqueues a notification and returns immediately.
func (d *Dispatcher) NotifyNewReport(r *report.Report, reporter *user.User) {
	if r == nil || reporter == nil {
		return
	}
	if err := d.enqueue(job{report: *r, reporter: *reporter, queuedAt: time.Now()}); err != nil {
		d.log.Warn("Dropping report notification",
			zap.String("report_id", r.ID.String()),
			zap.Error(err),
			zap.String("event", "notification_dropped"),
		)
		d.stats.Update(func(s *Stats) { s.Dropped++ })
	}
}

func (d *Dispatcher) enqueue(j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.jobs <- j:
		d.stats.Update(func(s *Stats) {
			s.Queued++
			s.QueueDepth = len(d.jobs)
		})
		return nil
	default:
		return fmt.Errorf("notification queue full (%d)", cap(d.jobs))
	}
}

func (d *Dispatcher) Stats() Stats {
	s := d.stats.Snapshot()
	s.QueueDepth = len(d.jobs)
	return s
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for j := range d.jobs {
		d.handle(id, j)
	}
}

func (d *Dispatcher) handle(workerID int, j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	log := d.log.With(
		zap.Int("worker", workerID),
		zap.String("report_id", j.report.ID.String()),
	)

	if d.publisher != nil {
		if err := d.publisher.PublishReportCreated(ctx, NewReportEvent(&j.report, &j.reporter)); err != nil {
			log.Warn("Failed to publish report event", zap.Error(err))
		} else {
			d.stats.Update(func(s *Stats) { s.Published++ })
		}
	}

	sent, err := d.sendEmail(ctx, &j)
	switch {
	case err != nil:
		log.Error("Failed to send report notification",
			zap.Error(err),
			zap.String("event", "notification_failed"),
		)
		d.stats.Update(func(s *Stats) { s.Failed++ })
	case !sent:
		log.Debug("No recipients for report notification")
		d.stats.Update(func(s *Stats) { s.Skipped++ })
	default:
		log.Info("Report notification sent",
			zap.Duration("latency", time.Since(j.queuedAt)),
			zap.String("event", "notification_sent"),
		)
		d.stats.Update(func(s *Stats) {
			s.Sent++
			s.LastSentAt = time.Now()
		})
	}
}

// sendEmail reports false when email is disabled or nobody besides the
// reporter is registered.
func (d *Dispatcher) sendEmail(ctx context.Context, j *job) (bool, error) {
	if d.sender == nil {
		return false, nil
	}

	emails, err := d.directory.ListEmails(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list recipients: %w", err)
	}

	recipients := recipientsFor(emails, j.reporter.Email)
	if len(recipients) == 0 {
		return false, nil
	}

	body, err := renderNewReport(&j.report, &j.reporter, d.dashboardURL)
	if err != nil {
		return false, err
	}

	if err := d.sender.Send(ctx, &Message{
		Recipients: recipients,
		Subject:    subjectFor(&j.report),
		HTML:       body,
	}); err != nil {
		return false, err
	}

	return true, nil
}
