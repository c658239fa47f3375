package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-progression/config"
	"go-progression/debug"
	"go-progression/midi"
	"go-progression/sequencer"
	"go-progression/status"
	"go-progression/theme"
	"go-progression/tui"
)

type playOptions struct {
	configPath   string
	port         string
	seed         uint64
	bar          time.Duration
	subdivisions int
	minor        bool
	bars         int
	dryRun       bool
	noTUI        bool
	httpAddr     string
	debug        bool
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}
	c := &cobra.Command{
		Use:   "play",
		Short: "generate and play until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}
	f := c.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.config/go-progression/config.json)")
	f.StringVarP(&opts.port, "port", "p", "", "MIDI output port, exact or partial name (default first hardware port)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed; equal seeds play equal sequences")
	f.DurationVar(&opts.bar, "bar", 500*time.Millisecond, "bar length")
	f.IntVar(&opts.subdivisions, "subdivisions", 4, "melody notes per bar")
	f.BoolVar(&opts.minor, "minor", true, "minor primary chords (--minor=false for major)")
	f.IntVar(&opts.bars, "bars", 0, "stop after this many bars (0 plays until interrupted)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print events instead of sending them (implies --no-tui)")
	f.BoolVar(&opts.noTUI, "no-tui", false, "run without the live view")
	f.StringVar(&opts.httpAddr, "http", "", "serve the state API on this address, e.g. :8080")
	f.BoolVar(&opts.debug, "debug", false, "debug log to stderr without the live view, else to ~/.config/go-progression/debug.log")
	return c
}

// loadConfig reads the config file and lets explicitly set flags override it
func loadConfig(cmd *cobra.Command, opts *playOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.bars < 0 {
		return nil, fmt.Errorf("%w: --bars must not be negative, got %d", sequencer.ErrInvalidParams, opts.bars)
	}
	f := cmd.Flags()
	if f.Changed("port") {
		cfg.Output.PortName = opts.port
	}
	if f.Changed("seed") {
		cfg.Generator.Seed = opts.seed
	}
	if f.Changed("bar") {
		cfg.Generator.BarPeriodMS = int(opts.bar.Milliseconds())
	}
	if f.Changed("subdivisions") {
		cfg.Generator.Subdivisions = opts.subdivisions
	}
	if f.Changed("minor") {
		cfg.Generator.Minor = opts.minor
	}
	if f.Changed("http") {
		cfg.Status.Addr = opts.httpAddr
	}
	if opts.noTUI || opts.dryRun {
		cfg.UI.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openSink(cfg *config.Config, dryRun bool, out io.Writer) (midi.Sink, func() error, error) {
	if dryRun {
		return midi.NewPrinter(out), func() error { return nil }, nil
	}
	port, err := midi.OpenOut(cfg.Output.PortName, midi.DefaultScanTimeout)
	if err != nil {
		return nil, nil, err
	}
	return port, port.Close, nil
}

// enableDebug logs to stderr when no live view owns the terminal, otherwise
// to the debug file
func enableDebug(headless bool, stderr io.Writer) error {
	if headless {
		debug.EnableWriter(stderr)
		return nil
	}
	return debug.Enable("")
}

func runPlay(cmd *cobra.Command, opts *playOptions) (err error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if opts.debug {
		if err := enableDebug(cfg.UI.Disabled, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer debug.Disable()
	}

	sink, closeSink, err := openSink(cfg, opts.dryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeSink(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if p, ok := sink.(*midi.PortSink); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "playing on %s\n", p.Name())
	}

	seq, err := sequencer.New(cfg.Generator)
	if err != nil {
		return err
	}
	driver, err := sequencer.NewDriver(seq, midi.Logged(sink), cfg.Output.Voices)
	if err != nil {
		return err
	}
	driver.Limit = opts.bars * cfg.Generator.Subdivisions

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Status.Addr != "" {
		srv, err := status.Start(cfg.Status.Addr, driver, cfg)
		if err != nil {
			return fmt.Errorf("state api: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "state api on http://%s/state\n", srv.Addr())
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			srv.Shutdown(sctx)
		}()
	}

	debug.Log("play", "run=%s seed=%d bar=%dms subdivisions=%d", debug.RunID(),
		cfg.Generator.Seed, cfg.Generator.BarPeriodMS, cfg.Generator.Subdivisions)
	done := driver.Go(ctx)

	if cfg.UI.Disabled {
		return <-done
	}
	return runTUI(cfg, driver, cancel, done)
}

func runTUI(cfg *config.Config, driver *sequencer.Driver, cancel context.CancelFunc, done <-chan error) error {
	palette, err := theme.LoadOrDefault(cfg.UI.Palette)
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("palette: %w", err)
	}
	m := tui.NewModel(driver, theme.New(palette), cfg.Generator, cancel)
	p := tea.NewProgram(m, tea.WithAltScreen())

	result := make(chan error, 1)
	go func() {
		err := <-done
		result <- err
		p.Send(tui.DoneMsg{Err: err})
	}()

	_, uiErr := p.Run()
	cancel()
	if err := <-result; err != nil {
		return err
	}
	return uiErr
}
