package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samvad-hq/image-gallery/internal/domain"
	"github.com/samvad-hq/image-gallery/internal/logger"
	"github.com/samvad-hq/image-gallery/pkg/sources"
)

// ErrAlreadyStarted is returned when Load or Start is called a second time.
var ErrAlreadyStarted = errors.New("image load already started")

// Loader runs one aggregate load over a fixed request list and exposes its
// state. The state moves from loading to success or error exactly once.
type Loader struct {
	fetcher sources.Fetcher
	sources []sources.Source
	log     logger.Logger

	mu      sync.RWMutex
	state   State
	started bool
	done    chan struct{}
}

// New builds a loader for list. The list is copied.
func New(fetcher sources.Fetcher, list []sources.Source, log logger.Logger) (*Loader, error) {
	if fetcher == nil {
		return nil, errors.New("image fetcher is nil")
	}
	if len(list) == 0 {
		return nil, ErrNoSources
	}
	cp := make([]sources.Source, len(list))
	copy(cp, list)

	return &Loader{
		fetcher: fetcher,
		sources: cp,
		log:     logger.Ensure(log),
		state:   loadingState(),
		done:    make(chan struct{}),
	}, nil
}

// Sources returns a copy of the request list.
func (l *Loader) Sources() []sources.Source {
	out := make([]sources.Source, len(l.sources))
	copy(out, l.sources)
	return out
}

// State returns a snapshot of the current state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.snapshot()
}

// Done is closed once the final state has been set.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Wait blocks until the load finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (State, error) {
	select {
	case <-l.done:
		return l.State(), nil
	case <-ctx.Done():
		return l.State(), ctx.Err()
	}
}

// Start runs the load in the background.
func (l *Loader) Start(ctx context.Context) error {
	if err := l.claim(); err != nil {
		return err
	}
	go l.run(ctx)
	return nil
}

// Load runs the load and returns the final state.
func (l *Loader) Load(ctx context.Context) (State, error) {
	if err := l.claim(); err != nil {
		return l.State(), err
	}
	return l.run(ctx), nil
}

func (l *Loader) claim() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return ErrAlreadyStarted
	}
	l.started = true
	return nil
}

func (l *Loader) run(ctx context.Context) State {
	start := time.Now()
	l.log.InfoObj("image load started", "load_meta", map[string]any{
		"sources_count": len(l.sources),
		"started_at":    start.UTC(),
	})

	images, err := FetchAll(ctx, l.fetcher, l.sources)
	var final State
	if err != nil {
		final = errorState(err)
		l.log.ErrorObj("image load failed", "load_error", errorFields(err, time.Since(start)))
	} else {
		final = successState(images)
		l.log.InfoObj("image load completed", "load_result", map[string]any{
			"images":     domain.URLs(images),
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
	}

	l.finish(final)
	return final.snapshot()
}

func (l *Loader) finish(final State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Final() {
		return
	}
	l.state = final
	close(l.done)
}

func errorFields(err error, elapsed time.Duration) map[string]any {
	fields := map[string]any{
		"error":      err.Error(),
		"elapsed_ms": elapsed.Milliseconds(),
	}
	var netErr *sources.NetworkError
	if errors.As(err, &netErr) {
		fields["source_url"] = netErr.SourceURL
		if netErr.StatusCode != 0 {
			fields["status"] = netErr.StatusCode
		}
		if netErr.Snippet != "" {
			fields["body"] = netErr.Snippet
		}
	}
	return fields
}
