package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	emails []string
	err    error
}

func (f *fakeDirectory) ListEmails(context.Context) ([]string, error) {
	return f.emails, f.err
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []*Message
	err   error
	block chan struct{}
}

func (f *fakeSender) Send(ctx context.Context, msg *Message) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeSender) messages() []*Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Message(nil), f.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*ReportEvent
}

func (f *fakePublisher) PublishReportCreated(_ context.Context, e *ReportEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func testReport() (*report.Report, *user.User) {
	reporter := &user.User{ID: uuid.New(), Email: "A@x.com", Username: "alice", Name: "Alice"}
	r := &report.Report{
		ID:       uuid.New(),
		Title:    "Blue Backpack",
		Content:  "Left in library",
		Status:   report.StatusLost,
		Location: "Library 2F",
		OwnerID:  reporter.ID,
	}
	return r, reporter
}

func TestDispatcher_SendsOneMailToOthers(t *testing.T) {
	dir := &fakeDirectory{emails: []string{"a@x.com", "b@x.com", "c@x.com", "not-an-email"}}
	sender := &fakeSender{}
	pub := &fakePublisher{}

	d := NewDispatcher(dir, sender, pub, Options{Workers: 2, QueueSize: 10, DashboardURL: "https://lost.example.com/dashboard"})
	d.Start()

	r, reporter := testReport()
	d.NotifyNewReport(r, reporter)
	d.Stop()

	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.ElementsMatch(t, []string{"b@x.com", "c@x.com"}, msgs[0].Recipients)
	assert.Equal(t, "New Lost Item Reported", msgs[0].Subject)
	assert.Contains(t, msgs[0].HTML, "alice")
	assert.Contains(t, msgs[0].HTML, "Blue Backpack")
	assert.Contains(t, msgs[0].HTML, "Library 2F")
	assert.Contains(t, msgs[0].HTML, "https://lost.example.com/dashboard")

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventReportCreated, pub.events[0].Type)
	assert.Equal(t, r.ID, pub.events[0].ReportID)

	stats := d.Stats()
	assert.Equal(t, int64(1), stats.Queued)
	assert.Equal(t, int64(1), stats.Sent)
	assert.Equal(t, int64(1), stats.Published)
}

func TestDispatcher_SkipsWhenReporterIsAlone(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(&fakeDirectory{emails: []string{"a@x.com"}}, sender, nil, Options{})
	d.Start()

	r, reporter := testReport()
	d.NotifyNewReport(r, reporter)
	d.Stop()

	assert.Empty(t, sender.messages())
	assert.Equal(t, int64(1), d.Stats().Skipped)
}

func TestDispatcher_PublishesWithoutMailer(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("should not be queried")}
	pub := &fakePublisher{}
	d := NewDispatcher(dir, nil, pub, Options{})
	d.Start()

	r, reporter := testReport()
	d.NotifyNewReport(r, reporter)
	d.Stop()

	require.Len(t, pub.events, 1)
	assert.Equal(t, r.ID, pub.events[0].ReportID)

	stats := d.Stats()
	assert.Equal(t, int64(1), stats.Published)
	assert.Equal(t, int64(1), stats.Skipped)
	assert.Zero(t, stats.Failed)
	assert.Zero(t, stats.Sent)
}

func TestDispatcher_FailuresAreCounted(t *testing.T) {
	tests := []struct {
		name   string
		dir    *fakeDirectory
		sender *fakeSender
	}{
		{"directory error", &fakeDirectory{err: errors.New("db down")}, &fakeSender{}},
		{"send error", &fakeDirectory{emails: []string{"b@x.com"}}, &fakeSender{err: errors.New("smtp 550")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.dir, tt.sender, nil, Options{})
			d.Start()

			r, reporter := testReport()
			d.NotifyNewReport(r, reporter)
			d.Stop()

			assert.Equal(t, int64(1), d.Stats().Failed)
			assert.Zero(t, d.Stats().Sent)
		})
	}
}

func TestDispatcher_SendTimeout(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	d := NewDispatcher(&fakeDirectory{emails: []string{"b@x.com"}}, sender, nil, Options{SendTimeout: 20 * time.Millisecond})
	d.Start()

	r, reporter := testReport()
	d.NotifyNewReport(r, reporter)
	d.Stop()

	assert.Equal(t, int64(1), d.Stats().Failed)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := &fakeSender{}
	// not started: nothing drains the queue
	d := NewDispatcher(&fakeDirectory{emails: []string{"b@x.com"}}, sender, nil, Options{QueueSize: 1})

	r, reporter := testReport()
	d.NotifyNewReport(r, reporter)
	d.NotifyNewReport(r, reporter)

	stats := d.Stats()
	assert.Equal(t, int64(1), stats.Queued)
	assert.Equal(t, int64(1), stats.Dropped)
	assert.Equal(t, 1, stats.QueueDepth)

	d.Start()
	d.Stop()
	assert.Len(t, sender.messages(), 1)
}

func TestDispatcher_AfterStop(t *testing.T) {
	d := NewDispatcher(&fakeDirectory{}, &fakeSender{}, nil, Options{})
	d.Start()
	d.Stop()
	d.Stop()

	r, reporter := testReport()
	assert.NotPanics(t, func() { d.NotifyNewReport(r, reporter) })
	assert.Equal(t, int64(1), d.Stats().Dropped)
}

func TestRecipientsFor(t *testing.T) {
	got := recipientsFor([]string{"a@x.com", " B@x.com", "b@x.com", "", "bad"}, "A@X.com")
	assert.Equal(t, []string{"B@x.com"}, got)
}
