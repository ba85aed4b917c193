/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dykam/gangwars"
	"github.com/Dykam/gangwars/command"
	"github.com/Dykam/gangwars/errors"
)

// ShellOptions holds the flags of the shell command.
type ShellOptions struct {
	TickInterval time.Duration
	// WorldSpeed is the number of world ticks per second of wall time.
	WorldSpeed int
	WorldTime  int
	Watch      bool
}

// NewShellCommand creates the shell command: an interactive console that
// reads one command per line.
func NewShellCommand(root *RootOptions) *cobra.Command {
	opts := &ShellOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run gang commands from standard input",
		Long: "Read commands from standard input until EOF. Lines are run from the console\n" +
			"unless prefixed with @player. Shell directives start with a colon:\n" +
			"  :time [ticks]  show or set the world time\n" +
			"  :help          list the gang commands\n" +
			"  :quit          leave the shell",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			s, err := openSession(ctx, root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			s.app.SetWorldTime(opts.WorldTime)

			loopErr := runShell(ctx, s, opts, cmd.InOrStdin(), cmd.OutOrStdout())
			if err := s.close(ctx); err != nil && loopErr == nil {
				return err
			}
			return loopErr
		},
	}

	cmd.Flags().DurationVar(&opts.TickInterval, "tick", time.Second, "how often invitations are expired and the world clock advances")
	cmd.Flags().IntVar(&opts.WorldSpeed, "world-speed", 20, "world ticks per second, 0 stops the world clock")
	cmd.Flags().IntVar(&opts.WorldTime, "world-time", 0, "world time in ticks at start")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "reload gangs when the store is changed externally")
	return cmd
}

// runShell is the control loop. Every call into the app happens on this
// goroutine.
func runShell(ctx context.Context, s *session, opts *ShellOptions, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var changes <-chan struct{}
	if opts.Watch {
		var err error
		if changes, err = s.app.Watch(ctx); err != nil {
			s.logger.Warn("store cannot be watched", "error", err)
		}
	}

	ticker := time.NewTicker(opts.TickInterval)
	defer ticker.Stop()
	clock := newWorldClock(opts.WorldSpeed, time.Now())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := handleLine(ctx, s.app, line, out); quit {
				return nil
			}

		case now := <-ticker.C:
			if ticks := clock.advance(now); ticks > 0 {
				s.app.SetWorldTime(s.app.WorldTime() + ticks)
			}
			s.app.Tick(now)

		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			n, err := s.app.Reload(ctx)
			if err != nil {
				fmt.Fprintf(out, "reload: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "reloaded %d gangs\n", n)
		}
	}
}

// worldClock converts wall time into world ticks. The part of a tick left
// over from one advance is carried into the next.
type worldClock struct {
	speed int64
	last  time.Time
	// carry is in ticks times nanoseconds per second.
	carry int64
}

func newWorldClock(ticksPerSecond int, start time.Time) *worldClock {
	return &worldClock{speed: int64(max(ticksPerSecond, 0)), last: start}
}

// advance returns the whole world ticks that passed between the previous
// call and now.
func (c *worldClock) advance(now time.Time) int {
	elapsed := now.Sub(c.last)
	c.last = now
	if elapsed <= 0 || c.speed == 0 {
		return 0
	}
	total := int64(elapsed)*c.speed + c.carry
	c.carry = total % int64(time.Second)
	return int(total / int64(time.Second))
}

// handleLine runs one shell line and reports whether the shell should exit.
func handleLine(ctx context.Context, app *gangwars.App, line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	if strings.HasPrefix(line, ":") {
		return directive(app, strings.Fields(line[1:]), out)
	}

	sender := command.Console
	if strings.HasPrefix(line, "@") {
		name, rest, _ := strings.Cut(line[1:], " ")
		p, err := app.Login(name)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return false
		}
		sender, line = p, rest
	}

	err := app.Dispatch(ctx, sender, line)
	var usage *command.UsageError
	switch {
	case err == nil:
	case asUsage(err, &usage):
		fmt.Fprintf(out, "usage: %s\n", usage.Command.Synopsis())
	case errors.IsNotFound(err):
		name, _, _ := command.Parse(line)
		fmt.Fprintf(out, "unknown command %q, try :help\n", name)
	default:
		fmt.Fprintf(out, "error: %v\n", err)
	}
	return false
}

func directive(app *gangwars.App, fields []string, out io.Writer) bool {
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		for _, c := range app.Commands().Commands() {
			who := "anyone"
			if c.PlayerOnly {
				who = "players"
			}
			fmt.Fprintf(out, "%-40s %s (%s)\n", c.Synopsis(), c.Usage, who)
		}
	case "time":
		if len(fields) > 1 {
			tick, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintf(out, "invalid time %q\n", fields[1])
				return false
			}
			app.SetWorldTime(tick)
		}
		state := "peace"
		if app.AtWar() {
			state = "war"
		}
		fmt.Fprintf(out, "world time %d (%s)\n", app.WorldTime(), state)
	default:
		fmt.Fprintf(out, "unknown directive :%s\n", fields[0])
	}
	return false
}
