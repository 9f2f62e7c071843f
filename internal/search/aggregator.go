package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// minQueryRunes is the shortest trimmed query that triggers a lookup.
	minQueryRunes = 2

	// DefaultDebounce is the quiet period between the last keystroke and
	// the lookup.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultLimit is the per-group result count requested from the backend.
	DefaultLimit = 10
)

// Gateway performs the three entity lookups against the backend.
// Implementations must honor ctx cancellation.
type Gateway interface {
	SearchClients(ctx context.Context, query string, limit int) ([]ClientHit, error)
	SearchPatients(ctx context.Context, query string, limit int) ([]PatientHit, error)
	SearchAppointments(ctx context.Context, query string, limit int) ([]AppointmentHit, error)
}

// Navigator receives the route of a selected result.
type Navigator interface {
	Navigate(route string)
}

// Listener receives a snapshot after every state change. It is invoked with
// the aggregator's lock held: hand the snapshot off to your own scheduler and
// do not call back into the Aggregator synchronously.
type Listener func(Snapshot)

// Config tunes the aggregator. Zero values fall back to the defaults.
type Config struct {
	Debounce     time.Duration
	Limit        int // per-group count requested from the backend
	DisplayLimit int // per-group cap applied to results, 0 = unlimited
}

// Aggregator owns the search box state machine. It debounces keystrokes,
// fans a query out to the three entity lookups, and suppresses superseded
// completions with a generation token. In-flight lookups are not aborted at
// the transport level when a newer one starts; the newest token simply wins.
type Aggregator struct {
	mu       sync.Mutex
	cfg      Config
	gw       Gateway
	nav      Navigator
	log      *logger.Logger
	debounce *Debouncer
	listener Listener

	baseCtx context.Context
	cancel  context.CancelFunc

	generation uint64
	phase      Phase
	query      string
	groups     Groups
	err        error
	closed     bool
}

// New creates an aggregator in the Idle state.
func New(gw Gateway, nav Navigator, cfg Config, log *logger.Logger) *Aggregator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		cfg:      cfg,
		gw:       gw,
		nav:      nav,
		log:      log,
		debounce: NewDebouncer(),
		baseCtx:  ctx,
		cancel:   cancel,
		phase:    PhaseIdle,
	}
}

// SetListener registers the presenter callback. See Listener for the
// re-entrancy constraint.
func (a *Aggregator) SetListener(fn Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = fn
}

// Snapshot returns the current state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// OnQueryChange ingests the full text of the search box after a keystroke.
// The echoed query updates immediately; a trimmed query shorter than two
// runes silently resets to Idle, anything longer re-arms the debounce timer.
func (a *Aggregator) OnQueryChange(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.query = text
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minQueryRunes {
		// Too short to search: drop any pending or in-flight lookup and
		// return to Idle without surfacing an error.
		a.generation++
		a.debounce.Cancel()
		a.groups = Groups{}
		a.err = nil
		a.phase = PhaseIdle
		a.emitLocked()
		return
	}

	a.err = nil
	a.phase = PhaseDebouncing
	a.emitLocked()
	a.debounce.Schedule(func() { a.lookup(trimmed) }, a.cfg.Debounce)
}

// OnSelect resets the search box and navigates to the selected hit's detail
// route. Unknown kinds are ignored.
func (a *Aggregator) OnSelect(kind Kind, id uuid.UUID) {
	route, ok := RouteFor(kind, id)
	if !ok {
		a.log.Warn("select ignored, unknown result kind", "kind", string(kind))
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.resetLocked()
	a.emitLocked()
	a.mu.Unlock()

	a.nav.Navigate(route)
}

// OnDismiss resets the search box to Idle. A lookup still in flight settles
// against a stale token and is discarded.
func (a *Aggregator) OnDismiss() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.resetLocked()
	a.emitLocked()
}

// Close resets the state and cancels the context shared by in-flight
// lookups. No callback can reach the gateway after Close returns.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.resetLocked()
	a.closed = true
	a.mu.Unlock()

	a.cancel()
}

// lookup runs on the debounce timer's goroutine.
func (a *Aggregator) lookup(query string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.generation++
	gen := a.generation
	a.err = nil
	a.phase = PhaseLoading
	a.emitLocked()
	ctx := a.baseCtx
	limit := a.cfg.Limit
	a.mu.Unlock()

	var (
		clients      []ClientHit
		patients     []PatientHit
		appointments []AppointmentHit
	)

	// Join-all fan-out: a failed lookup does not cancel its siblings, and
	// the outcome is applied only after all three settle.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if clients, err = a.gw.SearchClients(ctx, query, limit); err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if patients, err = a.gw.SearchPatients(ctx, query, limit); err != nil {
			return fmt.Errorf("patients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if appointments, err = a.gw.SearchAppointments(ctx, query, limit); err != nil {
			return fmt.Errorf("appointments: %w", err)
		}
		return nil
	})
	err := g.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || gen != a.generation {
		a.log.Debug("discarding superseded search results", "query", query)
		return
	}

	if err != nil {
		// All-or-nothing: one failed lookup poisons the whole result.
		a.groups = Groups{}
		a.err = apperr.Wrap(apperr.KindUnavailable, "search failed", err).WithOp("search.lookup")
		a.phase = PhaseError
		a.log.Warn("search lookup failed", "query", query, "error", err.Error())
	} else {
		a.groups = capGroups(Groups{
			Clients:      clients,
			Patients:     patients,
			Appointments: appointments,
		}, a.cfg.DisplayLimit)
		a.err = nil
		a.phase = PhaseSuccess
	}
	a.emitLocked()
}

func (a *Aggregator) resetLocked() {
	a.generation++
	a.debounce.Cancel()
	a.query = ""
	a.groups = Groups{}
	a.err = nil
	a.phase = PhaseIdle
}

func (a *Aggregator) snapshotLocked() Snapshot {
	return Snapshot{
		Query:   a.query,
		Groups:  a.groups,
		Loading: a.phase == PhaseLoading,
		Err:     a.err,
		Phase:   a.phase,
	}
}

func (a *Aggregator) emitLocked() {
	if a.listener != nil {
		a.listener(a.snapshotLocked())
	}
}

func capGroups(g Groups, limit int) Groups {
	if limit <= 0 {
		return g
	}
	if len(g.Clients) > limit {
		g.Clients = g.Clients[:limit]
	}
	if len(g.Patients) > limit {
		g.Patients = g.Patients[:limit]
	}
	if len(g.Appointments) > limit {
		g.Appointments = g.Appointments[:limit]
	}
	return g
}
