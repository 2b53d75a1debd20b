package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine_QuotedPathWithSpaces(t *testing.T) {
	args, err := parseCommandLine(`generate "my rosters/week one.csv" --start 2026-01-04`)
	require.NoError(t, err)
	assert.Equal(t, []string{"generate", "my rosters/week one.csv", "--start", "2026-01-04"}, args)
}

func TestParseCommandLine_SingleQuotes(t *testing.T) {
	args, err := parseCommandLine(`listWorkers 'workers 2026.csv'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"listWorkers", "workers 2026.csv"}, args)
}

func TestParseCommandLine_UnclosedQuote(t *testing.T) {
	_, err := parseCommandLine(`generate "workers.csv`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed quote")
}

func TestParseCommandLine_Empty(t *testing.T) {
	args, err := parseCommandLine("   ")
	require.NoError(t, err)
	assert.Empty(t, args)
}
