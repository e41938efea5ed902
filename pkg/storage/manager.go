package storage

import (
	"context"
	"fmt"

	"github.com/freshchoice/storefront/config"
)

// Config selects and configures the disk.
type Config struct {
	Disk      string // "local" or "s3"
	LocalRoot string
	LocalURL  string
	S3        S3Config
}

// ConfigFromEnv reads STORAGE_* and S3_* keys.
func ConfigFromEnv() Config {
	return Config{
		Disk:      config.StorageDefault(),
		LocalRoot: config.StorageLocalRoot(),
		LocalURL:  config.StorageURL(),
		S3: S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		},
	}
}

// Open builds the configured disk.
func Open(ctx context.Context, cfg Config) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		d, err := NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "s3":
		d, err := NewS3Disk(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", cfg.Disk)
	}
}
