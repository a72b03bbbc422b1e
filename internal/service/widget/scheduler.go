package widget

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"pageforge/internal/domain/models/builder"
)

type runnerKey struct {
	pageID  string
	blockID string
}

type runner struct {
	state  State
	cancel context.CancelFunc
}

// Scheduler owns the animation goroutines for every widget on every
// published page. Runners are keyed by (page, block) so removing a
// block or unpublishing a page tears its timers down; leaked timers
// would keep ticking against state nothing reads anymore.
type Scheduler struct {
	mu      sync.Mutex
	runners map[runnerKey]*runner
	logger  *slog.Logger
	wg      sync.WaitGroup
	closed  bool
	now     func() time.Time
}

// NewScheduler creates an empty widget scheduler
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runners: make(map[runnerKey]*runner),
		logger:  logger,
		now:     time.Now,
	}
}

// EnsurePage syncs the runner set to the page's current widget blocks,
// top-level and business-info both. New widgets start ticking, widgets
// no longer on the page stop.
func (s *Scheduler) EnsurePage(page *builder.Page) {
	wanted := make(map[runnerKey]builder.WidgetContent)
	collect := func(blocks []builder.Block) {
		for _, block := range blocks {
			wc, ok := block.Content.(builder.WidgetContent)
			if !ok {
				continue
			}
			wanted[runnerKey{pageID: page.ID, blockID: block.ID}] = wc
		}
	}
	collect(page.Elements)
	if page.Settings.BusinessInfo.IsVisible {
		collect(page.Settings.BusinessInfo.Elements)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for key, r := range s.runners {
		if key.pageID != page.ID {
			continue
		}
		if _, still := wanted[key]; !still {
			r.cancel()
			delete(s.runners, key)
		}
	}

	for key, wc := range wanted {
		if _, running := s.runners[key]; running {
			continue
		}
		s.start(key, wc)
	}
}

// Snapshot returns the current display state for one widget block.
func (s *Scheduler) Snapshot(pageID, blockID string) (Snapshot, bool) {
	s.mu.Lock()
	r, ok := s.runners[runnerKey{pageID: pageID, blockID: blockID}]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return r.state.Snapshot(s.now()), true
}

// StopPage tears down every runner belonging to a page.
func (s *Scheduler) StopPage(pageID string) {
	s.mu.Lock()
	for key, r := range s.runners {
		if key.pageID == pageID {
			r.cancel()
			delete(s.runners, key)
		}
	}
	s.mu.Unlock()
}

// Close stops every runner and waits for their goroutines to exit.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for key, r := range s.runners {
		r.cancel()
		delete(s.runners, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// start launches one runner goroutine. Caller holds s.mu.
func (s *Scheduler) start(key runnerKey, wc builder.WidgetContent) {
	now := s.now()
	rng := rand.New(rand.NewSource(now.UnixNano()))
	state := NewState(wc.WidgetType, wc.WidgetConfig, rng, now)
	if state.Interval() == 0 {
		// Static widget: keep the state for snapshots, skip the timer.
		s.runners[key] = &runner{state: state, cancel: func() {}}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{state: state, cancel: cancel}
	s.runners[key] = r

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			timer := time.NewTimer(state.Interval())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case tick := <-timer.C:
				state.Tick(tick)
			}
		}
	}()

	s.logger.Debug("widget runner started",
		"page_id", key.pageID,
		"block_id", key.blockID,
		"kind", wc.WidgetType,
	)
}
