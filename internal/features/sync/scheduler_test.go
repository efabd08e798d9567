package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"go-synchub/internal/config"

	"go.uber.org/zap"
)

// fakeSyncService counts cycles and can block mid-cycle to simulate a slow sync.
type fakeSyncService struct {
	mu      gosync.Mutex
	cycles  int
	release chan struct{} // when set, SyncAll blocks until it is closed
	started chan struct{}
}

func (s *fakeSyncService) SyncAll(ctx context.Context) error {
	s.mu.Lock()
	s.cycles++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return nil
}

func (s *fakeSyncService) cycleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

func (s *fakeSyncService) SyncTenant(ctx context.Context, tenantID string) []SyncResult { return nil }
func (s *fakeSyncService) GetStatistics(ctx context.Context) ([]StatisticsRow, error) {
	return nil, nil
}
func (s *fakeSyncService) ExportStatistics(ctx context.Context) ([]byte, string, error) {
	return nil, "", nil
}
func (s *fakeSyncService) ListRuns(ctx context.Context, tenantID string, limit int64) ([]SyncRun, error) {
	return nil, nil
}
func (s *fakeSyncService) TenantCount(ctx context.Context) int { return 3 }

func newTestScheduler(service SyncService) *Scheduler {
	return NewScheduler(service, &config.Config{SyncIntervalMinutes: 5}, zap.NewNop())
}

func TestSchedulerStatusWhenStopped(t *testing.T) {
	scheduler := newTestScheduler(&fakeSyncService{})

	status := scheduler.GetStatus(context.Background())
	if status.IsRunning {
		t.Error("IsRunning = true before Start")
	}
	if status.NextRun != nil {
		t.Errorf("NextRun = %v, want nil", status.NextRun)
	}
	if status.TenantsCount != 3 {
		t.Errorf("TenantsCount = %d, want 3", status.TenantsCount)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	service := &fakeSyncService{}
	scheduler := newTestScheduler(service)

	if err := scheduler.Start(0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer scheduler.Stop()

	status := scheduler.GetStatus(context.Background())
	if !status.IsRunning {
		t.Error("IsRunning = false after Start")
	}
	if status.IntervalMinutes != 5 {
		t.Errorf("IntervalMinutes = %d, want configured default 5", status.IntervalMinutes)
	}
	if status.NextRun == nil {
		t.Error("NextRun = nil while running")
	}

	if err := scheduler.Start(1); !errors.Is(err, ErrSchedulerRunning) {
		t.Errorf("second Start() error = %v, want ErrSchedulerRunning", err)
	}

	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := scheduler.Stop(); !errors.Is(err, ErrSchedulerStopped) {
		t.Errorf("second Stop() error = %v, want ErrSchedulerStopped", err)
	}

	status = scheduler.GetStatus(context.Background())
	if status.IsRunning {
		t.Error("IsRunning = true after Stop")
	}
}

func TestSchedulerRunsFirstCycleImmediately(t *testing.T) {
	service := &fakeSyncService{}
	scheduler := newTestScheduler(service)

	if err := scheduler.Start(60); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer scheduler.Stop()

	deadline := time.After(2 * time.Second)
	for service.cycleCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first cycle did not run within 2s of Start")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// slowSyncService blocks mid-cycle and records whether the cycle was cut short
// by context cancellation or allowed to run to completion.
type slowSyncService struct {
	fakeSyncService
	started chan struct{}
	release chan struct{}
	done    chan error
}

func (s *slowSyncService) SyncAll(ctx context.Context) error {
	s.started <- struct{}{}
	select {
	case <-ctx.Done():
		s.done <- ctx.Err()
		return ctx.Err()
	case <-s.release:
		s.done <- nil
		return nil
	}
}

func TestSchedulerStopLetsInFlightCycleFinish(t *testing.T) {
	service := &slowSyncService{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		done:    make(chan error, 1),
	}
	scheduler := newTestScheduler(service)

	if err := scheduler.Start(60); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	<-service.started // first cycle is in flight

	if err := scheduler.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	// Stopping drops the timer but must not cancel the running cycle.
	select {
	case err := <-service.done:
		t.Fatalf("in-flight cycle ended at Stop() with %v, want it to keep running", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(service.release)
	select {
	case err := <-service.done:
		if err != nil {
			t.Errorf("cycle finished with %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight cycle never finished after Stop()")
	}
}

func TestSchedulerSkipsOverlappingCycles(t *testing.T) {
	service := &fakeSyncService{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	scheduler := newTestScheduler(service)

	go scheduler.runCycle(context.Background())
	<-service.started // first cycle is now in flight and blocked

	// A tick arriving while the cycle runs must be dropped, not queued.
	scheduler.runCycle(context.Background())
	if got := service.cycleCount(); got != 1 {
		t.Errorf("cycles = %d, want 1 (overlap must be skipped)", got)
	}

	close(service.release)
}
