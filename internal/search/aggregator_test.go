package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"

	"github.com/google/uuid"
	"go.uber.org/goleak"
)

// script holds the canned outcome for one query. A non-nil gate blocks all
// three lookups until it is closed or the context is canceled.
type script struct {
	clients      []ClientHit
	patients     []PatientHit
	appointments []AppointmentHit
	clientErr    error
	patientErr   error
	appointErr   error
	gate         chan struct{}
}

func (s *script) wait(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// scriptedGateway serves scripted outcomes keyed by query text and counts
// lookup rounds.
type scriptedGateway struct {
	mu      sync.Mutex
	scripts map[string]*script
	rounds  atomic.Int32
	queries []string
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{scripts: make(map[string]*script)}
}

func (g *scriptedGateway) script(query string) *script {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.scripts[query]
	if !ok {
		s = &script{}
		g.scripts[query] = s
	}
	return s
}

func (g *scriptedGateway) lastQuery() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queries) == 0 {
		return ""
	}
	return g.queries[len(g.queries)-1]
}

func (g *scriptedGateway) SearchClients(ctx context.Context, query string, limit int) ([]ClientHit, error) {
	g.rounds.Add(1)
	g.mu.Lock()
	g.queries = append(g.queries, query)
	g.mu.Unlock()

	s := g.script(query)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.clientErr != nil {
		return nil, s.clientErr
	}
	return s.clients, nil
}

func (g *scriptedGateway) SearchPatients(ctx context.Context, query string, limit int) ([]PatientHit, error) {
	s := g.script(query)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.patientErr != nil {
		return nil, s.patientErr
	}
	return s.patients, nil
}

func (g *scriptedGateway) SearchAppointments(ctx context.Context, query string, limit int) ([]AppointmentHit, error) {
	s := g.script(query)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if s.appointErr != nil {
		return nil, s.appointErr
	}
	return s.appointments, nil
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *snapshotRecorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *snapshotRecorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

const testDebounce = 15 * time.Millisecond

func newTestAggregator(t *testing.T, gw Gateway, cfg Config) (*Aggregator, *recordingNavigator, *snapshotRecorder) {
	t.Helper()
	if cfg.Debounce == 0 {
		cfg.Debounce = testDebounce
	}
	nav := &recordingNavigator{}
	rec := &snapshotRecorder{}
	agg := New(gw, nav, cfg, logger.New("development"))
	agg.SetListener(rec.listen)
	t.Cleanup(agg.Close)
	return agg, nav, rec
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestShortQueriesCauseNoLookups(t *testing.T) {
	gw := newScriptedGateway()
	agg, _, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("a")
	agg.OnQueryChange(" b ")
	agg.OnQueryChange("")
	time.Sleep(5 * testDebounce)

	if got := gw.rounds.Load(); got != 0 {
		t.Fatalf("expected no lookups for short queries, got %d", got)
	}
	snap := agg.Snapshot()
	if snap.Phase != PhaseIdle || snap.Err != nil || snap.Groups.Total() != 0 {
		t.Fatalf("expected clean idle snapshot, got %+v", snap)
	}
}

func TestBurstCoalescesIntoOneLookup(t *testing.T) {
	gw := newScriptedGateway()
	gw.script("casper").clients = []ClientHit{{ID: uuid.New(), FirstName: "Dana", LastName: "Reyes"}}
	agg, _, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("c")
	agg.OnQueryChange("ca")
	agg.OnQueryChange("cas")
	agg.OnQueryChange("casper")

	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	if got := gw.rounds.Load(); got != 1 {
		t.Fatalf("expected exactly one lookup for the burst, got %d", got)
	}
	if got := gw.lastQuery(); got != "casper" {
		t.Fatalf("expected the final query to be looked up, got %q", got)
	}
	if got := len(agg.Snapshot().Groups.Clients); got != 1 {
		t.Fatalf("expected 1 client hit, got %d", got)
	}
}

func TestSupersededLookupIsDiscarded(t *testing.T) {
	gw := newScriptedGateway()
	slow := gw.script("alpha")
	slow.gate = make(chan struct{})
	slow.clients = []ClientHit{{ID: uuid.New(), FirstName: "Alice", LastName: "Stale"}}
	gw.script("bravo").clients = []ClientHit{{ID: uuid.New(), FirstName: "Bob", LastName: "Fresh"}}

	agg, _, rec := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("alpha")
	waitFor(t, 2*time.Second, "first lookup to start", func() bool {
		return gw.rounds.Load() == 1
	})

	agg.OnQueryChange("bravo")
	waitFor(t, 2*time.Second, "second lookup to complete", func() bool {
		snap := agg.Snapshot()
		return snap.Phase == PhaseSuccess && len(snap.Groups.Clients) == 1
	})

	// The first lookup settles after the second one already won.
	close(slow.gate)
	time.Sleep(50 * time.Millisecond)

	snap := agg.Snapshot()
	if snap.Phase != PhaseSuccess || len(snap.Groups.Clients) != 1 {
		t.Fatalf("expected the fresh result to survive, got %+v", snap)
	}
	if got := snap.Groups.Clients[0].FirstName; got != "Bob" {
		t.Fatalf("expected fresh result, got %q", got)
	}
	for _, s := range rec.all() {
		for _, hit := range s.Groups.Clients {
			if hit.FirstName == "Alice" {
				t.Fatal("stale lookup result leaked into a snapshot")
			}
		}
	}
}

func TestGroupCountsMatchArrayLengths(t *testing.T) {
	gw := newScriptedGateway()
	gw.script("bella").clients = []ClientHit{{ID: uuid.New(), FirstName: "Bella", LastName: "Ortiz"}}
	agg, _, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("bella")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	snap := agg.Snapshot()
	if len(snap.Groups.Clients) != 1 || len(snap.Groups.Patients) != 0 || len(snap.Groups.Appointments) != 0 {
		t.Fatalf("expected groups 1/0/0, got %d/%d/%d",
			len(snap.Groups.Clients), len(snap.Groups.Patients), len(snap.Groups.Appointments))
	}
	if snap.Empty() {
		t.Fatal("a lookup with one hit must not report the empty state")
	}
}

func TestEmptyResultIsDistinctState(t *testing.T) {
	gw := newScriptedGateway()
	agg, _, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("nomatches")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	snap := agg.Snapshot()
	if !snap.Empty() {
		t.Fatalf("expected empty result state, got %+v", snap)
	}
	if snap.Err != nil {
		t.Fatalf("zero matches is not an error, got %v", snap.Err)
	}
}

func TestAnyFailurePoisonsTheWholeLookup(t *testing.T) {
	gw := newScriptedGateway()
	failing := gw.script("fluffy")
	failing.clients = []ClientHit{{ID: uuid.New(), FirstName: "Fay"}}
	failing.appointments = []AppointmentHit{{ID: uuid.New(), Title: "Checkup"}}
	failing.patientErr = apperr.FromStatus("GET /api/patients", 500, "")

	agg, _, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("fluffy")
	waitFor(t, 2*time.Second, "lookup to fail", func() bool {
		return agg.Snapshot().Phase == PhaseError
	})

	snap := agg.Snapshot()
	if snap.Groups.Total() != 0 {
		t.Fatalf("expected no partial results on failure, got %d hits", snap.Groups.Total())
	}
	if !apperr.Is(snap.Err, apperr.KindUnavailable) {
		t.Fatalf("expected aggregate unavailable error, got %v", snap.Err)
	}
	var domainErr *apperr.Error
	if !errors.As(snap.Err, &domainErr) || domainErr.Err == nil ||
		!strings.Contains(domainErr.Err.Error(), "patients") {
		t.Fatalf("expected the failed lookup to be named, got %v", snap.Err)
	}
}

func TestDismissMidFlightLeavesCleanIdle(t *testing.T) {
	gw := newScriptedGateway()
	slow := gw.script("ghost")
	slow.gate = make(chan struct{})
	slow.clients = []ClientHit{{ID: uuid.New(), FirstName: "Ghost"}}

	agg, _, rec := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("ghost")
	waitFor(t, 2*time.Second, "lookup to start", func() bool {
		return gw.rounds.Load() == 1
	})

	agg.OnDismiss()

	// The dismissed lookup resolves afterwards and must change nothing.
	close(slow.gate)
	time.Sleep(50 * time.Millisecond)

	snap := agg.Snapshot()
	if snap.Phase != PhaseIdle || snap.Query != "" || snap.Err != nil || snap.Groups.Total() != 0 {
		t.Fatalf("expected clean idle after dismiss, got %+v", snap)
	}
	all := rec.all()
	if last := all[len(all)-1]; last.Phase != PhaseIdle {
		t.Fatalf("expected the final emitted snapshot to be idle, got phase %v", last.Phase)
	}
}

func TestSelectNavigatesAndResets(t *testing.T) {
	gw := newScriptedGateway()
	patientID := uuid.New()
	gw.script("milo").patients = []PatientHit{{ID: patientID, Name: "Milo"}}
	agg, nav, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("milo")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	agg.OnSelect(KindPatient, patientID)

	if got, want := nav.last(), "/patients/"+patientID.String(); got != want {
		t.Fatalf("expected navigation to %q, got %q", want, got)
	}
	snap := agg.Snapshot()
	if snap.Phase != PhaseIdle || snap.Query != "" || snap.Groups.Total() != 0 {
		t.Fatalf("expected reset after select, got %+v", snap)
	}
}

func TestSelectUnknownKindIsIgnored(t *testing.T) {
	gw := newScriptedGateway()
	gw.script("kiwi").clients = []ClientHit{{ID: uuid.New(), FirstName: "Kim"}}
	agg, nav, _ := newTestAggregator(t, gw, Config{})

	agg.OnQueryChange("kiwi")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	agg.OnSelect(Kind("invoice"), uuid.New())

	if nav.last() != "" {
		t.Fatalf("expected no navigation for unknown kind, got %q", nav.last())
	}
	if snap := agg.Snapshot(); snap.Phase != PhaseSuccess {
		t.Fatalf("expected state untouched, got phase %v", snap.Phase)
	}
}

func TestQueryEchoIsImmediate(t *testing.T) {
	gw := newScriptedGateway()
	agg, _, _ := newTestAggregator(t, gw, Config{Debounce: 200 * time.Millisecond})

	agg.OnQueryChange("x")
	if snap := agg.Snapshot(); snap.Query != "x" || snap.Phase != PhaseIdle {
		t.Fatalf("expected short query echoed in idle, got %+v", snap)
	}

	agg.OnQueryChange("xy")
	if snap := agg.Snapshot(); snap.Query != "xy" || snap.Phase != PhaseDebouncing {
		t.Fatalf("expected valid query echoed while debouncing, got %+v", snap)
	}
}

func TestPriorResultsStayVisibleWhileDebouncing(t *testing.T) {
	gw := newScriptedGateway()
	gw.script("bella").clients = []ClientHit{{ID: uuid.New(), FirstName: "Bella"}}
	agg, _, _ := newTestAggregator(t, gw, Config{Debounce: 200 * time.Millisecond})

	agg.OnQueryChange("bella")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	agg.OnQueryChange("bell")
	snap := agg.Snapshot()
	if snap.Phase != PhaseDebouncing {
		t.Fatalf("expected debouncing, got phase %v", snap.Phase)
	}
	if len(snap.Groups.Clients) != 1 {
		t.Fatal("expected prior results to remain visible until the next lookup completes")
	}
}

func TestDisplayLimitCapsGroups(t *testing.T) {
	gw := newScriptedGateway()
	s := gw.script("maxed")
	for i := 0; i < 8; i++ {
		s.clients = append(s.clients, ClientHit{ID: uuid.New(), FirstName: "C"})
	}
	agg, _, _ := newTestAggregator(t, gw, Config{DisplayLimit: 3})

	agg.OnQueryChange("maxed")
	waitFor(t, 2*time.Second, "lookup to complete", func() bool {
		return agg.Snapshot().Phase == PhaseSuccess
	})

	if got := len(agg.Snapshot().Groups.Clients); got != 3 {
		t.Fatalf("expected display cap of 3, got %d", got)
	}
}

func TestCloseReleasesInFlightLookups(t *testing.T) {
	defer goleak.VerifyNone(t)

	gw := newScriptedGateway()
	slow := gw.script("slowpoke")
	slow.gate = make(chan struct{}) // never released; only Close can unblock

	nav := &recordingNavigator{}
	agg := New(gw, nav, Config{Debounce: testDebounce}, logger.New("development"))

	agg.OnQueryChange("slowpoke")
	waitFor(t, 2*time.Second, "lookup to start", func() bool {
		return gw.rounds.Load() == 1
	})

	agg.Close()

	if snap := agg.Snapshot(); snap.Phase != PhaseIdle || snap.Groups.Total() != 0 {
		t.Fatalf("expected closed aggregator to stay idle, got %+v", snap)
	}
}

func TestRouteFor(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		kind Kind
		want string
		ok   bool
	}{
		{KindClient, "/clients/" + id.String(), true},
		{KindPatient, "/patients/" + id.String(), true},
		{KindAppointment, "/appointments/" + id.String(), true},
		{Kind("invoice"), "", false},
	}
	for _, tc := range cases {
		got, ok := RouteFor(tc.kind, id)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("RouteFor(%q) = %q, %v; want %q, %v", tc.kind, got, ok, tc.want, tc.ok)
		}
	}
}
