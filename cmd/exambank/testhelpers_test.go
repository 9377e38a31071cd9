package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/exambank/internal/testutil"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// setupExamDocument writes a valid config and an exam document of count questions.
// It returns the temporary directory and the document path.
func setupExamDocument(t *testing.T, count int) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))

	samples := testutil.SampleQuestions(count)
	docPath := testutil.WriteDocument(t, tmpDir, "finance-exam.txt", testutil.ExamDocument(samples))
	return tmpDir, docPath
}
