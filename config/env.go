/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvStorageBackend = "GANGWARS_STORAGE_BACKEND"
	EnvDataDir        = "GANGWARS_DATA_DIR"
	EnvLogLevel       = "GANGWARS_LOG_LEVEL"
	EnvLogFormat      = "GANGWARS_LOG_FORMAT"
	EnvMetricsAddr    = "GANGWARS_METRICS_ADDR"
	EnvAutoSave       = "GANGWARS_AUTO_SAVE"

	EnvAWSAccessKey   = "AWS_ACCESS_KEY"
	EnvAWSSecretKey   = "AWS_SECRET_KEY"
	EnvAWSRegion      = "AWS_REGION"
	EnvAWSDDBTable    = "AWS_DDB_TABLE"
	EnvAWSDDBEndpoint = "AWS_DDB_ENDPOINT"
)

// LoadEnv loads .env style files into the process environment. Variables
// that are already set win. Missing files are skipped; with no arguments
// ".env" in the working directory is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overrides config values with the environment as seen by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvStorageBackend, &c.Storage.Backend)
	set(EnvDataDir, &c.Storage.DataDir)
	set(EnvLogLevel, &c.LogLevel)
	set(EnvLogFormat, &c.LogFormat)
	set(EnvMetricsAddr, &c.MetricsAddr)

	set(EnvAWSAccessKey, &c.Storage.DynamoDB.AccessKey)
	set(EnvAWSSecretKey, &c.Storage.DynamoDB.SecretKey)
	set(EnvAWSRegion, &c.Storage.DynamoDB.Region)
	set(EnvAWSDDBTable, &c.Storage.DynamoDB.Table)
	set(EnvAWSDDBEndpoint, &c.Storage.DynamoDB.Endpoint)

	if v, ok := lookup(EnvAutoSave); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoSave = b
		}
	}
}
