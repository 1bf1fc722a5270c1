package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const dossierJSON = `{
	"edition": "2021",
	"profile": {"firstName": "Anna", "lastName": "Svensson", "personalNumber": "19900101-1234"},
	"records": [
		{"id": "r1", "title": "Medicine", "startDate": "2023-01-01", "endDate": "2023-06-30"},
		{"record": "course", "id": "k1", "title": "ECG course", "certificateDate": "2024-02-01"},
		{"nothing": true}
	],
	"presets": {"serviceCompletion": {"enabled": true}}
}`

// writeFile writes content to name inside a fresh temp dir and returns the path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command in-process with every flag reset to its
// default, returning combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// getBinaryPath returns the path to the dossier_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "dossier_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/dossier_agent ./cmd/dossier_agent'", binaryPath)
	}

	return binaryPath
}
