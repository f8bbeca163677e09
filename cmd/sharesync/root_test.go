package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveops/sharesync/internal/config"
)

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SHARESYNC_TENANT_ID", "tenant-env")
	t.Setenv("SHARESYNC_CLIENT_ID", "client-env")
	t.Setenv("SHARESYNC_CLIENT_SECRET", "secret-env")
	t.Setenv("SHARESYNC_SITE_ID", "site-env")
	t.Setenv("SHARESYNC_DRIVE_ID", "drive-env")
	t.Setenv("SHARESYNC_LOCAL_DIR", "/tmp/sharesync-test")
	t.Setenv("SHARESYNC_BASE_FOLDER", "Reports/2025")
	t.Setenv("SHARESYNC_SYNC_DELETIONS", "true")
	t.Setenv("SHARESYNC_DRY_RUN", "true")
	t.Setenv("SHARESYNC_EXCLUDE", "*.tmp *.bak")

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.NoError(t, cfg.Validate())

	assert.Equal(t, "tenant-env", cfg.TenantID)
	assert.Equal(t, "client-env", cfg.ClientID)
	assert.Equal(t, "secret-env", cfg.ClientSecret)
	assert.Equal(t, "site-env", cfg.SiteID)
	assert.Equal(t, "drive-env", cfg.DriveID)
	assert.Equal(t, "/tmp/sharesync-test", cfg.LocalDir)
	assert.Equal(t, "Reports/2025", cfg.BaseFolder)
	assert.True(t, cfg.SyncDeletions)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, config.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, []string{"*.tmp", "*.bak"}, cfg.Exclude)
}

func TestLoadConfigJSON(t *testing.T) {
	dummyConfig := `
{
	"tenant_id": "tenant-json",
	"client_id": "client-json",
	"client_secret": "secret-json",
	"site_id": "site-json",
	"drive_id": "drive-json",
	"local_dir": "/tmp/sharesync-test-json",
	"base_folder": "Shared Documents/reports",
	"sync_deletions": true,
	"chunk_size": 1048576,
	"exclude": ["*.tmp"]
}
`
	dummyConfigFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(dummyConfigFile, []byte(dummyConfig), 0o644))

	require.NoError(t, rootCmd.PersistentFlags().Set("config", dummyConfigFile))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "tenant-json", cfg.TenantID)
	assert.Equal(t, "client-json", cfg.ClientID)
	assert.Equal(t, "secret-json", cfg.ClientSecret)
	assert.Equal(t, "site-json", cfg.SiteID)
	assert.Equal(t, "drive-json", cfg.DriveID)
	assert.Equal(t, "/tmp/sharesync-test-json", cfg.LocalDir)
	assert.Equal(t, "Shared Documents/reports", cfg.BaseFolder)
	assert.True(t, cfg.SyncDeletions)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, int64(1048576), cfg.ChunkSize)
	assert.Equal(t, []string{"*.tmp"}, cfg.Exclude)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	require.NoError(t, rootCmd.PersistentFlags().Set("config", "/nonexistent/sharesync.json"))
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("config", "")
	})

	_, err := loadConfig(rootCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config read")
}
