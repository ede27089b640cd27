package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/scoring"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCmd(t *testing.T) {
	out, err := run(t, "", "score", "--tz", "UTC", "--at", "2026-10-17T15:00:00Z", "--verified", "Bugün", "ne", "öğrendin?")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, scoring.ModeAnalysis, res.Mode)
	assert.True(t, res.Features.HasQuestion)
	assert.InDelta(t, 2.2, res.Breakdown.ProfileBoost, 1e-9)
}

func TestScoreCmd_Stdin(t *testing.T) {
	out, err := run(t, "Go ile yazılım\n", "score", "--mode", "generation", "--tz", "UTC")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, scoring.ModeGeneration, res.Mode)
	assert.Equal(t, 14, res.Features.Length)
}

func TestScoreCmd_Errors(t *testing.T) {
	_, err := run(t, "", "score", "--tz", "UTC")
	assert.Error(t, err)

	_, err = run(t, "", "score", "--mode", "viral", "x")
	assert.Error(t, err)

	_, err = run(t, "", "score", "--at", "yesterday", "x")
	assert.Error(t, err)
}

func TestTimesCmd(t *testing.T) {
	out, err := run(t, "", "times", "--tz", "UTC", "--at", "2026-10-17T03:00:00Z")
	require.NoError(t, err)

	var w scoring.PostingWindow
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, 3, w.CurrentHour)
	assert.Equal(t, "low", w.Quality)
}

func TestTimesCmd_Istanbul(t *testing.T) {
	// 16:00 UTC is 19:00 in Istanbul (UTC+3, no DST)
	out, err := run(t, "", "times", "--tz", "Europe/Istanbul", "--at", "2026-10-17T16:00:00Z")
	require.NoError(t, err)

	var w scoring.PostingWindow
	require.NoError(t, json.Unmarshal([]byte(out), &w))
	assert.Equal(t, "Europe/Istanbul", w.Timezone)
	assert.Equal(t, 19, w.CurrentHour)
	assert.Equal(t, "excellent", w.Quality)
}
