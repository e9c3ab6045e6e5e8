// Package onboarding drives the client side of the onboarding pipeline: a
// fixed-interval status poller plus the pure view-selection rules.
package onboarding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/logging"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// StatusGateway is the slice of the gateway the poller depends on.
type StatusGateway interface {
	ProcessingStatus(ctx context.Context, token string) (*models.ProcessingState, error)
	SubmitClarification(ctx context.Context, token string, answers []models.ClarificationAnswer) (*models.ClarificationSubmitResult, error)
	SkipClarification(ctx context.Context, token string) (*models.ClarificationSkipResult, error)
}

// Callbacks receive poller events. All callbacks run on the poller
// goroutine; they must not block for long. Nil callbacks are skipped.
type Callbacks struct {
	// OnUpdate fires for every successfully fetched snapshot with the view
	// selected for it.
	OnUpdate func(state *models.ProcessingState, view View)
	// OnReady fires exactly once when the pipeline reaches the ready stage.
	OnReady func(state *models.ProcessingState)
	// OnError fires when the pipeline reports a terminal error, after which
	// polling stops.
	OnError func(perr *models.ProcessingError)
	// OnFetchError fires for transport failures. Polling continues at the
	// fixed interval until the consecutive-failure cap is hit.
	OnFetchError func(err error)
}

// Option configures a Poller.
type Option func(*Poller)

// WithClarification toggles the clarification capability. When disabled the
// needs_clarification stage renders as normal progress and polling never
// suspends.
func WithClarification(enabled bool) Option {
	return func(p *Poller) { p.clarification = enabled }
}

// WithFailureCap overrides how many consecutive transport failures are
// tolerated before the poller gives up.
func WithFailureCap(n int) Option {
	return func(p *Poller) { p.failureCap = n }
}

// defaultFailureCap tolerates 30 consecutive failures (one minute at the
// 2s interval) before the poller surfaces a terminal error.
const defaultFailureCap = 30

// Poller fetches onboarding status at a fixed interval. Fetches are
// strictly sequential: the next one is scheduled only after the previous
// resolves, so requests never overlap. Polling suspends while a
// clarification view is being shown and resumes on submit or skip.
type Poller struct {
	gw       StatusGateway
	token    string
	interval time.Duration
	cb       Callbacks
	logger   *zap.Logger

	clarification bool
	failureCap    int

	mu         sync.Mutex
	alive      bool
	suspended  bool
	readyFired bool
	cancel     context.CancelFunc
	resume     chan struct{}
	done       chan struct{}
}

// NewPoller creates a poller for one onboarding run. interval is the fixed
// delay between polls; the backend contract assumes 2 seconds.
func NewPoller(gw StatusGateway, token string, interval time.Duration, cb Callbacks, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		gw:            gw,
		token:         token,
		interval:      interval,
		cb:            cb,
		logger:        logger.Named("onboarding-poller"),
		clarification: true,
		failureCap:    defaultFailureCap,
		resume:        make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling with an immediate first fetch. It may be called once.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.alive || p.cancel != nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.alive = true
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop cancels polling and discards any in-flight response: after Stop
// returns, no callback will fire for a response that was still on the wire.
// The backend is not notified. Stop is idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	wasAlive := p.alive
	p.alive = false
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if wasAlive {
		<-p.done
	}
}

// Suspended reports whether polling is currently paused on clarification.
func (p *Poller) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspended
}

// Done is closed when the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// SubmitAnswers sends the user's clarification answers and resumes polling
// on success. Empty answers are dropped client-side; submission is keyed by
// question ID. The improved-score report in the result is advisory.
func (p *Poller) SubmitAnswers(ctx context.Context, answers []models.ClarificationAnswer) (*models.ClarificationSubmitResult, error) {
	filtered := make([]models.ClarificationAnswer, 0, len(answers))
	for _, a := range answers {
		if a.Answer != "" {
			filtered = append(filtered, a)
		}
	}

	res, err := p.gw.SubmitClarification(ctx, p.token, filtered)
	if err != nil {
		return nil, err
	}
	p.resumePolling()
	return res, nil
}

// Skip tells the backend to continue without answers and resumes polling
// unconditionally, even if the skip call itself failed.
func (p *Poller) Skip(ctx context.Context) (*models.ClarificationSkipResult, error) {
	res, err := p.gw.SkipClarification(ctx, p.token)
	p.resumePolling()
	return res, err
}

func (p *Poller) resumePolling() {
	p.mu.Lock()
	wasSuspended := p.suspended
	p.suspended = false
	p.mu.Unlock()

	if wasSuspended {
		select {
		case p.resume <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) isAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	failures := 0
	for {
		state, err := p.gw.ProcessingStatus(ctx, p.token)

		// Liveness guard: a response that arrives after Stop is a no-op.
		if !p.isAlive() || ctx.Err() != nil {
			return
		}

		if err != nil {
			failures++
			p.logger.Warn("status fetch failed",
				zap.Int("consecutive_failures", failures),
				zap.String("error", logging.SanitizeError(err)))
			if p.cb.OnFetchError != nil {
				p.cb.OnFetchError(err)
			}
			if failures >= p.failureCap {
				if p.cb.OnError != nil {
					p.cb.OnError(&models.ProcessingError{
						Message:   fmt.Sprintf("status polling failed %d times in a row: %v", failures, err),
						Retryable: true,
					})
				}
				return
			}
		} else {
			failures = 0
			if !p.handleState(ctx, state) {
				return
			}
		}

		// Fixed interval between polls; failures never retry faster.
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

// handleState interprets one snapshot. Returns false when polling must stop.
func (p *Poller) handleState(ctx context.Context, state *models.ProcessingState) bool {
	if state.Error != nil {
		p.logger.Info("pipeline reported terminal error",
			zap.String("stage", string(state.Error.Stage)),
			zap.Bool("retryable", state.Error.Retryable))
		if p.cb.OnError != nil {
			p.cb.OnError(state.Error)
		}
		return false
	}

	view := SelectView(state, p.clarification)

	// Suspend before the update callback so answers submitted from inside
	// it resume polling instead of racing the flag.
	if view == ViewClarification {
		p.mu.Lock()
		p.suspended = true
		p.mu.Unlock()
		p.logger.Debug("polling suspended for clarification",
			zap.Int("pending", state.Clarification.PendingCount))
	}

	if p.cb.OnUpdate != nil {
		p.cb.OnUpdate(state, view)
	}

	if state.Stage == models.StageReady {
		p.fireReady(state)
		return false
	}

	if view == ViewClarification {
		p.mu.Lock()
		still := p.suspended
		p.mu.Unlock()
		if still {
			// No further fetch until submit or skip resolves.
			select {
			case <-ctx.Done():
				return false
			case <-p.resume:
			}
		} else {
			// Resumed during the callback; drop the buffered signal.
			select {
			case <-p.resume:
			default:
			}
		}
		p.logger.Debug("polling resumed")
	}
	return true
}

func (p *Poller) fireReady(state *models.ProcessingState) {
	p.mu.Lock()
	fired := p.readyFired
	p.readyFired = true
	p.mu.Unlock()

	if fired {
		return
	}
	p.logger.Info("onboarding ready")
	if p.cb.OnReady != nil {
		p.cb.OnReady(state)
	}
}
