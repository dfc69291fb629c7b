package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/cfreminder/internal/client/client"
	"github.com/dmitrijs2005/cfreminder/internal/client/config"
	"github.com/dmitrijs2005/cfreminder/internal/client/gateway"
	"github.com/dmitrijs2005/cfreminder/internal/client/identity"
	"github.com/dmitrijs2005/cfreminder/internal/client/render"
	"github.com/dmitrijs2005/cfreminder/internal/client/services"
	"github.com/dmitrijs2005/cfreminder/internal/client/tz"
	"github.com/dmitrijs2005/cfreminder/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single connectivity probe.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	api     client.Client
	flow    *services.Workflow
	ui      *render.Terminal
	matcher *tz.Matcher
	log     logging.Logger
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database and wires the workflow against the
// configured backend. Close releases the database.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "init database failed", "path", c.DBPath, "error", err)
		return nil, fmt.Errorf("init database: %w", err)
	}

	gw := gateway.New(c.APIBaseURL,
		gateway.WithTimeout(c.RequestTimeout),
		gateway.WithRetry(c.RetryAttempts, c.RetryBackoff),
		gateway.WithLogger(log.With("component", "gateway")),
	)
	api := client.NewHTTPClient(gw, client.Credentials{APIKey: c.CFAPIKey, APISecret: c.CFAPISecret})

	opts := []render.Option{render.WithStatusTTL(c.StatusTTL)}
	if !styledOutput(out) {
		opts = append(opts, render.WithPlain())
	}
	ui := render.NewTerminal(out, opts...)

	matcher, err := newMatcher(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug(ctx, "timezone catalog ready", "zones", matcher.Len())

	return &App{
		config:  c,
		api:     api,
		flow:    services.NewWorkflow(api, identity.NewSQLiteCell(db), ui, log, c.DefaultTimezone),
		ui:      ui,
		matcher: matcher,
		log:     log,
		db:      db,
		reader:  bufio.NewReader(in),
		out:     out,
	}, nil
}

// newMatcher picks the timezone catalog once: the host zoneinfo tree when
// present, else the fixed list.
func newMatcher(ctx context.Context) (*tz.Matcher, error) {
	var env tz.CatalogSource
	if s := tz.NewEnvironmentSource(); s != nil {
		env = s
	}
	zones, err := tz.SelectSource(ctx, env, tz.FixedSource{})
	if err != nil {
		return nil, fmt.Errorf("timezone catalog: %w", err)
	}
	return tz.NewMatcher(zones), nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// checkOnline probes the backend once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// restore loads the persisted identity and, when there is one, the profile.
func (a *App) restore(ctx context.Context) bool {
	ok, err := a.flow.Restore(ctx)
	if err != nil || !ok {
		return false
	}
	_, _ = a.flow.Profile.Load(ctx)
	return true
}

func (a *App) getStatus() string {
	s := ""
	if id := a.flow.State.UserID(); id != "" {
		s = "#" + string(id) + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the interactive session and blocks until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Contest reminders CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restore(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
