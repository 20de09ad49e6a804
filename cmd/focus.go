package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osvaldocariege06/Up-ToDo/internal/focus"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
)

func newFocusCmd(opts *rootOptions) *cobra.Command {
	var (
		seconds int
		minutes int
		clock   string
	)

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a focus countdown",
		Long: `Run a focus countdown in the foreground until it finishes or is interrupted.

Give the length with exactly one of:
  --seconds N   N seconds
  --minutes N   N minutes
  --clock H:M   the clock value picked in the app, H*60+M seconds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := focusSeconds(cmd, seconds, minutes, clock)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return runFocus(ctx, p, total, focus.NewRealTicker)
		},
	}
	cmd.Flags().IntVar(&seconds, "seconds", 0, "Session length in seconds")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Session length in minutes")
	cmd.Flags().StringVar(&clock, "clock", "", "Clock value H:M")
	cmd.MarkFlagsMutuallyExclusive("seconds", "minutes", "clock")
	cmd.MarkFlagsOneRequired("seconds", "minutes", "clock")
	return cmd
}

func focusSeconds(cmd *cobra.Command, seconds, minutes int, clock string) (int, error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("seconds"):
		return seconds, nil
	case flags.Changed("minutes"):
		return minutes * 60, nil
	default:
		return parseClock(clock)
	}
}

// parseClock reads "H:M" and converts it with focus.DurationFromClock.
func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid --clock %q: want H:M", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid --clock %q: want H:M", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid --clock %q: want H:M", s)
	}
	return focus.DurationFromClock(hours, mins)
}

// runFocus starts a session and blocks until it finishes or ctx ends. In text
// mode the remaining time is redrawn on one line every tick.
func runFocus(ctx context.Context, p *printer, seconds int, ticker focus.TickerFactory) error {
	var mu sync.Mutex // serializes the tick goroutine's writes with ours
	finished := make(chan struct{})
	timerOpts := []focus.Option{
		focus.WithTicker(ticker),
		focus.WithOnFinish(func() { close(finished) }),
		focus.WithLogger(logging.Default()),
	}
	if p.format == outputText {
		timerOpts = append(timerOpts, focus.WithOnTick(func(s focus.State) {
			mu.Lock()
			defer mu.Unlock()
			drawCountdown(p.w, s.RemainingSeconds)
		}))
	}

	timer := focus.New(timerOpts...)
	mu.Lock()
	if err := timer.Start(seconds); err != nil {
		mu.Unlock()
		return err
	}
	if p.format == outputText {
		drawCountdown(p.w, seconds)
	}
	mu.Unlock()

	select {
	case <-finished:
		mu.Lock()
		defer mu.Unlock()
		return p.message("\nFocus session finished.", timer.State())
	case <-ctx.Done():
		state := timer.State()
		timer.Stop()
		mu.Lock()
		defer mu.Unlock()
		return p.message(fmt.Sprintf("\nFocus session stopped with %s left.", formatClock(state.RemainingSeconds)), state)
	}
}

func drawCountdown(w io.Writer, remaining int) {
	fmt.Fprintf(w, "\r%s %s", focusStyle.Render("focus"), formatClock(remaining))
}

// formatClock renders seconds as MM:SS, or H:MM:SS from an hour up.
func formatClock(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
