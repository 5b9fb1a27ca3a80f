// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"tulasisilks/internal/config"
	"tulasisilks/internal/database"
	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/storage"
	"tulasisilks/internal/upload"
)

// openStore connects the configured persistent store backend. The
// returned close func releases it.
func openStore(cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case kvstore.BackendMemory:
		slog.Warn("using in-memory store; data is lost on restart")
		kv := kvstore.NewMemory()
		return kv, func() {}, nil

	case kvstore.BackendBolt:
		kv, err := kvstore.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("bolt store opened", "path", cfg.BoltPath)
		return kv, func() { kv.Close() }, nil

	case kvstore.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("postgres store connected", "host", cfg.DBHost, "db", cfg.DBName)
		return kvstore.NewPostgres(db), closeDB(db), nil

	case kvstore.BackendValkey:
		client, err := kvstore.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("valkey store connected", "host", cfg.ValkeyHost, "db", cfg.ValkeyDB)
		kv := kvstore.NewValkey(client, appName+":")
		return kv, func() { kv.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func closeDB(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			slog.Warn("database close failed", "error", err)
		}
	}
}

// newUploader builds the image upload backend. A nil uploader with a nil
// error means uploads are not configured.
func newUploader(cfg *config.Config) (upload.Uploader, error) {
	switch cfg.UploadBackend {
	case config.UploadS3:
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, err
		}
		if client == nil {
			slog.Warn("s3 storage not configured, image uploads disabled")
			return nil, nil
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return upload.NewS3(client), nil

	default:
		if cfg.CloudinaryURL == "" && cfg.CloudinaryCloud == "" {
			slog.Warn("cloudinary not configured, image uploads disabled")
			return nil, nil
		}
		u, err := upload.NewCloudinary(upload.CloudinaryOptions{
			URL:          cfg.CloudinaryURL,
			CloudName:    cfg.CloudinaryCloud,
			APIKey:       cfg.CloudinaryKey,
			APISecret:    cfg.CloudinarySecret,
			Preset:       cfg.CloudinaryPreset,
			Folder:       cfg.CloudinaryFolder,
			UploadPrefix: cfg.CloudinaryEndpoint,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("cloudinary uploads enabled", "preset", cfg.CloudinaryPreset, "folder", cfg.CloudinaryFolder)
		return u, nil
	}
}

// seedIfConfigured applies SEED_FILE when set.
func seedIfConfigured(ctx context.Context, cfg *config.Config, catalog database.Catalog, orders database.Orders) error {
	if cfg.SeedFile == "" {
		return nil
	}
	f, err := database.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return err
	}
	return database.Seed(ctx, f, catalog, orders)
}
