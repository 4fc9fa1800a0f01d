package service

import (
	"context"
	"sync"
	"time"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/Wilmersdorf/spaceoverview/internal/telemetry"
	"go.uber.org/zap"
)

const (
	defaultRecomputeDebounce = 250 * time.Millisecond
	defaultRecomputeTimeout  = 5 * time.Minute
)

type recomputeRunner interface {
	Recompute(ctx context.Context) ([]domain.Computation, error)
}

// RecomputeScheduler runs recomputes in the background. Triggers that arrive
// while a run is pending are coalesced into that run.
type RecomputeScheduler struct {
	engine  recomputeRunner
	logger  *zap.Logger
	metrics *telemetry.Metrics

	debounce time.Duration
	timeout  time.Duration

	triggerCh chan struct{}
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewRecomputeScheduler(engine recomputeRunner, logger *zap.Logger) *RecomputeScheduler {
	return &RecomputeScheduler{
		engine:    engine,
		logger:    logger,
		debounce:  defaultRecomputeDebounce,
		timeout:   defaultRecomputeTimeout,
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

func (s *RecomputeScheduler) SetDebounce(d time.Duration) {
	s.debounce = d
}

func (s *RecomputeScheduler) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Trigger requests a recompute without waiting for it.
func (s *RecomputeScheduler) Trigger() {
	s.metrics.ObserveTrigger()
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

func (s *RecomputeScheduler) RecomputeAfterChange(_ context.Context) error {
	s.Trigger()
	return nil
}

func (s *RecomputeScheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.logger.Info("recompute scheduler started", zap.Duration("debounce", s.debounce))

		for {
			select {
			case <-s.triggerCh:
				timer := time.NewTimer(s.debounce)
				select {
				case <-timer.C:
				case <-s.stopCh:
					timer.Stop()
					// Flush the pending request so no edit is left underived.
					s.run()
					s.logger.Info("recompute scheduler stopped")
					return
				}
				// Triggers received during the debounce are covered by this run.
				select {
				case <-s.triggerCh:
				default:
				}
				s.run()
			case <-s.stopCh:
				select {
				case <-s.triggerCh:
					s.run()
				default:
				}
				s.logger.Info("recompute scheduler stopped")
				return
			}
		}
	}()
}

// Stop waits for an in-flight run to finish.
func (s *RecomputeScheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *RecomputeScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.engine.Recompute(ctx); err != nil {
		s.logger.Warn("scheduled recompute failed", zap.Error(err))
	}
}
