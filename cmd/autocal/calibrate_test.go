package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguredReportsDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reportsDir":"/srv/reports"}`), 0644))

	assert.Equal(t, "/srv/reports", configuredReportsDir(path, logrus.New()))
}

func TestConfiguredReportsDirUnset(t *testing.T) {
	// Absent file and a file without the field both leave the orchestrator
	// on its default directory.
	assert.Empty(t, configuredReportsDir(filepath.Join(t.TempDir(), "config.json"), logrus.New()))

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"display":2}`), 0644))
	assert.Empty(t, configuredReportsDir(path, logrus.New()))
}

func TestConfiguredReportsDirBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	assert.Empty(t, configuredReportsDir(path, logrus.New()))
}
