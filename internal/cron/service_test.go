package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gymdesk/gymdesk-backend/pkg/logger"
)

type fakeLock struct {
	available bool
	acquired  int
	released  int
}

func (l *fakeLock) Acquire(_ context.Context) (bool, error) {
	l.acquired++
	return l.available, nil
}

func (l *fakeLock) Release(_ context.Context) error {
	l.released++
	return nil
}

type countingJob struct {
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(_ context.Context) error {
	j.runs++
	return j.err
}

func TestRunCycle_RunsJobsUnderLock(t *testing.T) {
	lock := &fakeLock{available: true}
	jobA := &countingJob{name: "a"}
	jobB := &countingJob{name: "b", err: errors.New("boom")}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(jobA, jobB),
		Lock:     lock,
		Interval: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if jobA.runs != 1 || jobB.runs != 1 {
		t.Fatalf("expected each job to run once, got %d and %d", jobA.runs, jobB.runs)
	}
	if lock.released != 1 {
		t.Fatalf("expected lock released, got %d", lock.released)
	}
}

func TestRunCycle_SkipsWhenLockHeldElsewhere(t *testing.T) {
	lock := &fakeLock{available: false}
	job := &countingJob{name: "a"}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: NewRegistry(job),
		Lock:     lock,
		Interval: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs while lock is held, got %d", job.runs)
	}
	if lock.released != 0 {
		t.Fatalf("lock must not be released by a non-owner, got %d", lock.released)
	}
}

func TestRegistry_IgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &countingJob{name: "a"})
	registry.Register(nil)
	registry.Register(&countingJob{name: "b"})

	if got := len(registry.Jobs()); got != 2 {
		t.Fatalf("expected 2 jobs, got %d", got)
	}
}
