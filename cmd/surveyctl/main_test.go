package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestColumnsCommand(t *testing.T) {
	out, err := run(t, "columns")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, models.RecordColumns(), lines)
}

func TestDatasetStatsLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lab", "study"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lab", "study", "responses.csv"),
		[]byte("participant_id,age,legacy\np1,29,x\np2,31,y\n"), 0o644))

	t.Setenv("DATASET_BACKEND", "local")
	t.Setenv("DATASET_LOCAL_DIR", dir)
	t.Setenv("HF_DATASET_REPO", "lab/study")
	t.Setenv("HF_DATASET_PATH", "responses.csv")

	out, err := run(t, "--env", filepath.Join(dir, "none.env"), "dataset", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "2 rows, 3 columns")
	assert.Contains(t, out, "columns not written by this version: legacy")
}
