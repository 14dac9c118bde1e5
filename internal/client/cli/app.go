package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/client/client"
	"github.com/dmitrijs2005/growthjournal/internal/client/config"
	"github.com/dmitrijs2005/growthjournal/internal/client/media"
	"github.com/dmitrijs2005/growthjournal/internal/client/offline"
	"github.com/dmitrijs2005/growthjournal/internal/client/repositories"
	"github.com/dmitrijs2005/growthjournal/internal/client/services"
	"github.com/dmitrijs2005/growthjournal/internal/client/syncer"
	"github.com/dmitrijs2005/growthjournal/internal/filex"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"golang.org/x/term"
)

var ErrNoUserID = errors.New("user id is not configured (use -u)")

const pingTimeout = 3 * time.Second

// syncService is the part of offline.Manager the commands use.
type syncService interface {
	SyncNow(ctx context.Context) (*syncer.Result, error)
	LastResult() (*syncer.Result, error)
	Online() bool
}

type App struct {
	config  *config.Config
	journal *services.Journal
	sync    syncService
	log     logging.Logger
	now     func() time.Time

	reader      *bufio.Reader
	out         io.Writer
	interactive bool

	background []func(context.Context)
	closers    []func() error
}

// NewApp wires the local store, the gRPC client, the sync engine and the
// offline manager described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if c.UserID == "" {
		return nil, ErrNoUserID
	}
	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := repositories.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewDocumentClient(c.ServerEndpointAddr, c.AccessToken)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	engine := syncer.New(store, api, log,
		syncer.WithUploader(media.NewUploader(api, c.UploadTimeout, log)),
		syncer.WithConcurrency(c.SyncConcurrency))
	prober := offline.NewPingProber(api, c.OnlineCheckInterval, pingTimeout, log)
	manager := offline.NewManager(prober, engine, c.UserID, log)

	a := &App{
		config:      c,
		journal:     services.NewJournal(store, engine, c.UserID, log),
		sync:        manager,
		log:         log,
		now:         time.Now,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		background:  []func(context.Context){prober.Run, manager.Run},
		closers:     []func() error{api.Close, store.Close},
	}
	return a, nil
}

// Run starts connectivity probing and automatic sync, then serves the REPL
// until the user exits or stdin ends.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	for _, fn := range a.background {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}

	fmt.Fprintln(a.out, "Growth Journal (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.prompt())

	cancel()
	wg.Wait()
	return a.Close()
}

func (a *App) prompt() io.Writer {
	if a.interactive {
		return a.out
	}
	return io.Discard
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) getStatus() string {
	mode := "offline"
	if a.sync.Online() {
		mode = "online"
	}
	return fmt.Sprintf("(%s %s)", a.journal.UserID(), mode)
}
