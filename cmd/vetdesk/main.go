// Command vetdesk is the terminal front end for the clinic portal. It talks
// to the clinic backend API and renders the dashboard, calendar, records,
// and the global search box.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivenhartford/LCH-sub002/cmd/vetdesk/ui"
	analyticsgateway "github.com/ivenhartford/LCH-sub002/internal/analytics/gateway"
	analyticsservice "github.com/ivenhartford/LCH-sub002/internal/analytics/service"
	apptgateway "github.com/ivenhartford/LCH-sub002/internal/appointments/gateway"
	apptservice "github.com/ivenhartford/LCH-sub002/internal/appointments/service"
	authadapter "github.com/ivenhartford/LCH-sub002/internal/auth/adapter"
	authgateway "github.com/ivenhartford/LCH-sub002/internal/auth/gateway"
	authservice "github.com/ivenhartford/LCH-sub002/internal/auth/service"
	clientgateway "github.com/ivenhartford/LCH-sub002/internal/clients/gateway"
	clientservice "github.com/ivenhartford/LCH-sub002/internal/clients/service"
	"github.com/ivenhartford/LCH-sub002/internal/config"
	dashgateway "github.com/ivenhartford/LCH-sub002/internal/dashboard/gateway"
	dashservice "github.com/ivenhartford/LCH-sub002/internal/dashboard/service"
	domainevents "github.com/ivenhartford/LCH-sub002/internal/events"
	identitygateway "github.com/ivenhartford/LCH-sub002/internal/identity/gateway"
	identityservice "github.com/ivenhartford/LCH-sub002/internal/identity/service"
	patientgateway "github.com/ivenhartford/LCH-sub002/internal/patients/gateway"
	patientservice "github.com/ivenhartford/LCH-sub002/internal/patients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"
	searchgateway "github.com/ivenhartford/LCH-sub002/internal/search/gateway"
	"github.com/ivenhartford/LCH-sub002/platform/events"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/rest"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	tea "github.com/charmbracelet/bubbletea"
)

// snapshotBuffer sizes the channel between the aggregator listener and the
// program. The listener runs with the aggregator's lock held, so it must
// never block; when the buffer fills the oldest snapshot is dropped, which
// is safe because every snapshot carries the full state.
const snapshotBuffer = 32

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting vetdesk", "env", cfg.Env, "api", cfg.APIBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	val := validator.New()
	bus := events.NewInMemoryBus(log)

	// The session service signs in through the same rest client that needs
	// it as a token source, so the client starts against a bridge.
	tokens := authadapter.NewTokenBridge()
	restClient := rest.New(cfg, tokens, log)
	session := authservice.New(authgateway.New(restClient), val, cfg.SessionFile, log)
	tokens.Bind(session)
	session.Restore()

	restClient.SetUnauthorizedHook(func() {
		session.Expire()
		bus.Publish(context.Background(), domainevents.SessionExpired{BaseEvent: domainevents.NewBaseEvent()})
	})

	identity := identityservice.New(identitygateway.New(restClient), val, bus, log)
	deps := ui.Deps{
		Session:   session,
		Clients:   clientservice.New(clientgateway.New(restClient), val, bus, log),
		Patients:  patientservice.New(patientgateway.New(restClient), val, log),
		Calendar:  apptservice.New(apptgateway.New(restClient), val, bus, identity, time.Local, log),
		Dashboard: dashservice.New(dashgateway.New(restClient), log),
		Analytics: analyticsservice.New(analyticsgateway.New(restClient), log),
		Identity:  identity,
		Log:       log,
	}

	nav := ui.NewNavigator()
	agg := search.New(searchgateway.New(restClient), nav, search.Config{
		Debounce:     cfg.SearchDebounce,
		Limit:        cfg.SearchLimit,
		DisplayLimit: cfg.GroupDisplayLimit,
	}, log)
	deps.Search = agg

	program := tea.NewProgram(ui.New(deps), tea.WithAltScreen())
	nav.Bind(program.Send)

	// Snapshots are handed off through a buffered channel and forwarded
	// from a dedicated goroutine. Program.Send must not run inside the
	// listener: the listener fires while Update executes, and Send would
	// block on the loop it is called from.
	snapshots := make(chan search.Snapshot, snapshotBuffer)
	agg.SetListener(func(snap search.Snapshot) {
		for {
			select {
			case snapshots <- snap:
				return
			default:
			}
			select {
			case <-snapshots:
			default:
			}
		}
	})
	go func() {
		for snap := range snapshots {
			program.Send(ui.SearchSnapshotMsg{Snapshot: snap})
		}
	}()

	invalidate := func(prefixes ...string) events.Handler {
		return events.HandlerFunc(func(context.Context, events.Event) error {
			for _, p := range prefixes {
				restClient.Invalidate(p)
			}
			return nil
		})
	}
	bus.Subscribe(domainevents.AppointmentCreated{}.EventName(), invalidate("/api/appointments", "/api/dashboard", "/api/analytics"))
	bus.Subscribe(domainevents.AppointmentStatusChanged{}.EventName(), invalidate("/api/appointments", "/api/dashboard", "/api/analytics"))
	bus.Subscribe(domainevents.ClientSaved{}.EventName(), invalidate("/api/clients", "/api/dashboard"))
	bus.Subscribe(domainevents.ProfileUpdated{}.EventName(), invalidate("/api/profile"))
	bus.Subscribe(domainevents.SessionExpired{}.EventName(), events.HandlerFunc(func(context.Context, events.Event) error {
		program.Send(ui.SessionExpiredMsg{})
		return nil
	}))

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.Error("terminal program failed", "error", err)
		agg.Close()
		bus.Close()
		os.Exit(1)
	}

	agg.Close()
	close(snapshots)
	bus.Close()
	log.Info("vetdesk stopped")
}
