/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldClockCarriesFractions(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := newWorldClock(20, start)

	var steps []int
	total := 0
	now := start
	for range 100 {
		now = now.Add(10 * time.Millisecond)
		ticks := clock.advance(now)
		steps = append(steps, ticks)
		total += ticks
	}

	assert.Equal(t, []int{0, 0, 0, 0, 1}, steps[:5])
	assert.Equal(t, 20, total)
}

func TestWorldClockStopped(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := newWorldClock(0, start)

	assert.Equal(t, 0, clock.advance(start.Add(time.Hour)))
	assert.Equal(t, 0, clock.advance(start), "time going backwards advances nothing")
}

func TestShellShortTickAdvancesWorld(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	var out bytes.Buffer

	s, err := openSession(ctx, &RootOptions{
		ConfigPath: filepath.Join(dir, "config.yml"),
		EnvFile:    filepath.Join(dir, "missing.env"),
		Backend:    "memory",
		DataDir:    dir,
	}, &out)
	require.NoError(t, err)
	defer s.close(ctx)

	in, feed := io.Pipe()
	defer feed.Close()
	done := make(chan error, 1)
	go func() {
		done <- runShell(ctx, s, &ShellOptions{
			TickInterval: 10 * time.Millisecond,
			WorldSpeed:   20,
		}, in, &out)
	}()

	time.Sleep(300 * time.Millisecond)
	_, err = io.WriteString(feed, ":time\n:quit\n")
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not quit")
	}

	var tick int
	var state string
	line := strings.TrimSpace(out.String())
	_, err = fmt.Sscanf(line, "world time %d (%s", &tick, &state)
	require.NoError(t, err, "output %q", line)
	assert.Positive(t, tick, "world time should advance with ticks shorter than one world tick")
}
