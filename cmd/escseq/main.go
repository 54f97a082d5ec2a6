package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/escseq/escseq"
	"github.com/escseq/escseq/config"
	"github.com/escseq/escseq/hub"
	"github.com/escseq/escseq/sig"
	"github.com/gdamore/tcell/v2"
	pdebug "github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

var version = "v0.1.0"

func main() {
	os.Exit(_main())
}

func _main() int {
	var opts cmdOptions
	if _, err := opts.parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "escseq: %s\n", err)
		return 1
	}

	if opts.OptHelp {
		os.Stdout.Write(opts.help())
		return 0
	}

	if opts.OptVersion {
		fmt.Fprintf(os.Stdout, "escseq: %s (built with %s)\n", version, runtime.Version())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "escseq: %s\n", err)
		return 1
	}

	if err := run(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "escseq: %s\n", err)
		return 1
	}
	return 0
}

func loadConfig(opts cmdOptions) (*config.Config, error) {
	var cfg config.Config
	if err := cfg.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize config")
	}

	rcfile := opts.OptRcfile
	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}

	if rcfile != "" {
		if err := cfg.ReadFilename(rcfile); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("standard input is not a terminal")
	}

	tty, err := tcell.NewDevTty()
	if err != nil {
		return errors.Wrap(err, "failed to open tty")
	}
	defer tty.Close()

	if err := tty.Start(); err != nil {
		return errors.Wrap(err, "failed to put tty in raw mode")
	}
	defer tty.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := hub.New(5)
	defer h.Close()

	dec := escseq.NewDecoder(escseq.NewScheduler(h, ctx.Done()))
	dec.Mouse().SetTimings(cfg.Timings())

	p := newPrinter(tty)
	dec.Mouse().SetContinuousPressHandler(p.continuousPress)

	if cfg.Mouse == config.MouseModeSGR {
		if _, err := io.WriteString(tty, escseq.EnableMouseEvents); err != nil {
			return errors.Wrap(err, "failed to enable mouse reporting")
		}
		defer io.WriteString(tty, escseq.DisableMouseEvents)
	}

	rdr := escseq.NewReader(tty, time.Duration(cfg.EscapeTimeout))
	in := escseq.NewInput(dec, h, rdr.ChunkCh(), p, tty)
	sigH := sig.New(sig.ReceivedHandlerFunc(func(_ context.Context, s os.Signal) {
		if pdebug.Enabled {
			pdebug.Printf("escseq: stopping on %s", s)
		}
	}))

	tty.NotifyResize(func() {
		go h.SendQuery(ctx, escseq.QueryWindowSize.Name)
	})
	defer tty.NotifyResize(nil)

	loops := []func(context.Context, func()) error{
		rdr.Loop,
		in.Loop,
		sigH.Loop,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(loops))
	for _, loop := range loops {
		loop := loop
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop(ctx, cancel); err != nil {
				errCh <- err
			}
		}()
	}

	for _, name := range cfg.Queries {
		h.SendQuery(ctx, name)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
			continue
		}
		return err
	}
	return nil
}
