package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clinic-finance/backend/internal/application/usecase/report"
	"github.com/clinic-finance/backend/internal/domain/entity"
	"github.com/clinic-finance/backend/internal/integration/cache"
)

type countingSender struct {
	calls int
	err   error
}

func (s *countingSender) Execute(ctx context.Context, input report.SendDailyReportInput) (*report.SendDailyReportOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := entity.NewDailyReport("2026-10-17", entity.MetricsSnapshot{}, input.Recipients)
	r.MarkSent(len(input.Recipients))
	return &report.SendDailyReportOutput{Report: r}, nil
}

type failingLock struct{}

func (failingLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, errors.New("redis unavailable")
}

func newTestWorker(sender ReportSender, lock *cache.MemoryReportLock, now *time.Time) *ReportWorker {
	return NewReportWorker(sender, lock, ReportWorkerConfig{
		Recipients: []string{"gerencia@clinica.test"},
		SendHour:   21,
		Location:   time.FixedZone("PET", -5*3600),
	}).WithClock(func() time.Time { return *now })
}

func TestReportWorker_Tick(t *testing.T) {
	t.Run("waits for the send hour", func(t *testing.T) {
		sender := &countingSender{}
		now := time.Date(2026, 10, 17, 20, 0, 0, 0, time.UTC) // 15:00 clinic time
		w := newTestWorker(sender, cache.NewMemoryReportLock(), &now)

		if w.Tick(context.Background()) {
			t.Error("expected no report before the send hour")
		}
		if sender.calls != 0 {
			t.Errorf("expected 0 calls, got %d", sender.calls)
		}
	})

	t.Run("sends once per clinic day", func(t *testing.T) {
		sender := &countingSender{}
		now := time.Date(2026, 10, 18, 2, 30, 0, 0, time.UTC) // 21:30 on the 17th
		w := newTestWorker(sender, cache.NewMemoryReportLock(), &now)

		if !w.Tick(context.Background()) {
			t.Fatal("expected the report to be sent")
		}
		now = now.Add(time.Hour)
		if w.Tick(context.Background()) {
			t.Error("expected no second report on the same day")
		}
		if sender.calls != 1 {
			t.Errorf("expected 1 call, got %d", sender.calls)
		}

		now = now.Add(24 * time.Hour)
		if !w.Tick(context.Background()) {
			t.Error("expected a report on the next day")
		}
	})

	t.Run("lock held by another instance", func(t *testing.T) {
		lock := cache.NewMemoryReportLock()
		first := &countingSender{}
		second := &countingSender{}
		now := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)

		newTestWorker(first, lock, &now).Tick(context.Background())
		if newTestWorker(second, lock, &now).Tick(context.Background()) {
			t.Error("expected the second instance to skip")
		}
		if first.calls != 1 || second.calls != 0 {
			t.Errorf("expected 1/0 calls, got %d/%d", first.calls, second.calls)
		}
	})

	t.Run("lock error retries on the next tick", func(t *testing.T) {
		sender := &countingSender{}
		now := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
		w := NewReportWorker(sender, failingLock{}, ReportWorkerConfig{SendHour: 21}).
			WithClock(func() time.Time { return now })

		if w.Tick(context.Background()) {
			t.Error("expected no report without the lock")
		}
		if w.lastSent != "" {
			t.Errorf("expected the day to stay pending, got %q", w.lastSent)
		}
	})

	t.Run("send failure is not retried", func(t *testing.T) {
		sender := &countingSender{err: errors.New("bounced")}
		now := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
		w := newTestWorker(sender, cache.NewMemoryReportLock(), &now)

		w.Tick(context.Background())
		w.Tick(context.Background())
		if sender.calls != 1 {
			t.Errorf("expected 1 call, got %d", sender.calls)
		}
	})
}

func TestReportWorker_StartStopsOnCancel(t *testing.T) {
	sender := &countingSender{}
	now := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	w := newTestWorker(sender, cache.NewMemoryReportLock(), &now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestLogSender_Send(t *testing.T) {
	sender := NewLogSender()

	first, err := sender.Send(context.Background(), sendInput("a@clinica.test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := sender.Send(context.Background(), sendInput("b@clinica.test"))

	if !strings.HasPrefix(first.ResendID, "logged-") {
		t.Errorf("expected logged- id, got %s", first.ResendID)
	}
	if first.ResendID == second.ResendID {
		t.Error("expected distinct ids per email")
	}
}
