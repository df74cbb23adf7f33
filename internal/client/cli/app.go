package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/client/config"
	"github.com/dmitrijs2005/moodiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodiary/internal/client/state"
	"github.com/dmitrijs2005/moodiary/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 30 * time.Second

type App struct {
	config *config.Config
	client client.Client
	state  *state.State
	local  metadata.Repository
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp builds the REPL. local may be nil, in which case nothing is
// remembered between runs.
func NewApp(c *config.Config, cl client.Client, st *state.State, local metadata.Repository, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		client: cl,
		state:  st,
		local:  local,
		logger: l.With("module", "cli"),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// ToastPrinter returns a Notifier printing one line per toast to w.
func ToastPrinter(w io.Writer) state.Notifier {
	return state.NotifierFunc(func(t state.Toast) {
		mark := "*"
		switch t.Level {
		case state.LevelSuccess:
			mark = "ok"
		case state.LevelError:
			mark = "!!"
		}
		fmt.Fprintf(w, "[%s] %s\n", mark, t.Message)
	})
}

// Run restores a saved session if there is one and serves the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.state.Close()

	fmt.Fprintln(a.out, "Welcome to moodiary (type 'help' for commands)")

	a.checkOnline(ctx)
	if a.state.Session.Restore(ctx) {
		fmt.Fprintf(a.out, "Signed in as %s\n", a.state.Session.CurrentUser().Username)
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(wctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.state.Session.CurrentUser() != nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx is
// done, keeping the mode shown in the prompt current.
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

func (a *App) getStatus() string {
	s := ""
	if u := a.state.Session.CurrentUser(); u != nil {
		s = u.Username + " "
	}
	s += string(a.state.Preferences.Current().Theme)
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

// requestContext bounds one command's server round trips.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
