package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"

	"github.com/driveops/sharesync/internal/utils"
)

const (
	// DefaultChunkSize is the upload chunk size. Any positive size works
	// against the upload session protocol.
	DefaultChunkSize int64 = 4 * 1024 * 1024

	DefaultEnvFile = ".env"
)

// Config carries everything one sync pass needs. It is built once at startup
// and passed by reference, never mutated mid-pass.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	SiteID       string
	DriveID      string

	LocalDir      string
	BaseFolder    string
	SyncDeletions bool
	DryRun        bool
	ChunkSize     int64
	Exclude       []string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Already-set variables win over the file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if !utils.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Validate canonicalizes the config and checks the required settings.
func (c *Config) Validate() error {
	if c.TenantID == "" {
		return fmt.Errorf("`tenant_id` is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("`client_id` is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("`client_secret` is required")
	}
	if c.SiteID == "" {
		return fmt.Errorf("`site_id` is required")
	}
	if c.DriveID == "" {
		return fmt.Errorf("`drive_id` is required")
	}
	if c.LocalDir == "" {
		return fmt.Errorf("`local_dir` is required")
	}

	c.BaseFolder = NormFolder(c.BaseFolder)
	if c.BaseFolder == "" {
		return fmt.Errorf("`base_folder` is required")
	}

	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("`chunk_size` must be positive, got %d", c.ChunkSize)
	}

	return nil
}

// NormFolder canonicalizes a drive folder path to slash-separated form with
// no leading or trailing slashes.
func NormFolder(folder string) string {
	folder = strings.ReplaceAll(folder, "\\", "/")
	return strings.Trim(folder, "/")
}

// LogValue renders the config for logs with the client secret masked.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("tenantId", c.TenantID),
		slog.String("clientId", c.ClientID),
		slog.String("clientSecret", utils.MaskSecret(c.ClientSecret)),
		slog.String("siteId", c.SiteID),
		slog.String("driveId", c.DriveID),
		slog.String("localDir", c.LocalDir),
		slog.String("baseFolder", c.BaseFolder),
		slog.Bool("syncDeletions", c.SyncDeletions),
		slog.Bool("dryRun", c.DryRun),
		slog.Int64("chunkSize", c.ChunkSize),
		slog.Any("exclude", c.Exclude),
	)
}
