//go:build !integration

package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	assert.True(t, names["profiles"])
	assert.True(t, names["plan"])
	assert.True(t, names["backoff"])
	assert.True(t, names["faults"])
}

func TestProfilesCommandListsCatalog(t *testing.T) {
	t.Parallel()

	out := runCommand(t, "profiles")

	assert.Contains(t, out, "PROFILE")
	for _, name := range []string{"default", "flaky", "degraded", "rateLimited", "peakHours"} {
		assert.Contains(t, out, name)
	}
}

func TestPlanWithoutChaosKeepsOrder(t *testing.T) {
	t.Parallel()

	out := runCommand(t, "plan", "--chaos=false", "-n", "3")
	rows := dataRows(out)

	require.Len(t, rows, 3)
	for i, row := range rows {
		fields := strings.Fields(row)
		assert.Equal(t, strconv.Itoa(i+1), fields[0])
		assert.Equal(t, "evt-"+strconv.Itoa(i+1), fields[1])
		assert.Equal(t, []string{"false", "false", "false"}, fields[2:])
	}
}

func TestPlanIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	first := runCommand(t, "plan", "--seed", "42", "--profile", "flaky", "-n", "20")
	second := runCommand(t, "plan", "--seed", "42", "--profile", "flaky", "-n", "20")

	assert.Equal(t, first, second)
}

func TestPlanRejectsUnknownProfile(t *testing.T) {
	t.Parallel()

	err := writePlan(&bytes.Buffer{}, planOptions{profile: "nope", events: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestBackoffWithoutJitterDoubles(t *testing.T) {
	t.Parallel()

	out := runCommand(t, "backoff", "--jitter", "none", "-n", "6", "--base", "1s", "--max", "20s")
	rows := dataRows(out)

	require.Len(t, rows, 6)
	expected := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, 20 * time.Second}
	for i, row := range rows {
		fields := strings.Fields(row)
		assert.Equal(t, expected[i].String(), fields[1])
	}
}

func TestBackoffRejectsUnknownJitter(t *testing.T) {
	t.Parallel()

	err := writeBackoff(&bytes.Buffer{}, backoffOptions{attempts: 1, jitter: "wild"})
	require.Error(t, err)
}

func TestFaultsCountsEverySample(t *testing.T) {
	t.Parallel()

	out := runCommand(t, "faults", "--operation", "quote", "-n", "5000")
	rows := dataRows(out)
	require.NotEmpty(t, rows)

	total := 0
	kinds := map[string]bool{}
	for _, row := range rows {
		fields := strings.Fields(row)
		count, err := strconv.Atoi(fields[1])
		require.NoError(t, err)
		total += count
		kinds[fields[0]] = true
	}

	assert.Equal(t, 5000, total)
	assert.True(t, kinds["none"])
	assert.False(t, kinds["timeout"])
}

func TestFaultsRejectsUnknownOperation(t *testing.T) {
	t.Parallel()

	err := writeFaults(&bytes.Buffer{}, faultsOptions{profile: "default", operation: "refund", samples: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return out.String()
}

// dataRows drops the header line.
func dataRows(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}
