/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-openapi/strfmt"
	"gopkg.in/yaml.v3"
)

// Config is the complete gangwars configuration.
type Config struct {
	PowerLevels PowerLevels        `yaml:"power-levels"`
	PeaceAndWar PeaceAndWar        `yaml:"peace-and-war"`
	Income      map[string]float32 `yaml:"income" validate:"dive,gte=0"`

	Storage            Storage         `yaml:"storage"`
	AutoSave           bool            `yaml:"auto-save"`
	InvitationDuration strfmt.Duration `yaml:"invitation-duration" validate:"gt=0"`
	LogLevel           string          `yaml:"log-level" validate:"oneof=debug info warn error"`
	LogFormat          string          `yaml:"log-format" validate:"oneof=text json"`
	MetricsAddr        string          `yaml:"metrics-addr,omitempty" validate:"omitempty,hostname_port"`
}

// PowerLevels configures how gangs gain and lose power.
type PowerLevels struct {
	GainOnKill GainOnKill `yaml:"gain-on-kill"`
	Loss       Loss       `yaml:"loss"`
}

// GainOnKill is the power a gang gains when a member kills a member of
// another gang: Constant plus FractionOfEnemy of the enemy gang's power.
type GainOnKill struct {
	Constant        float32 `yaml:"constant"`
	FractionOfEnemy float32 `yaml:"fraction-of-enemy" validate:"gte=0,lte=1"`
}

// Loss configures periodic power decay.
type Loss struct {
	Constant         float32 `yaml:"constant"`
	Fraction         float32 `yaml:"fraction" validate:"gte=0,lte=1"`
	Each             Each    `yaml:"each" validate:"oneof=real-hour real-day real-week in-game-day in-game-hour"`
	BonusForNegative float32 `yaml:"bonus-for-negative"`
}

// Each is the period of power decay.
type Each string

const (
	RealHour   Each = "real-hour"
	RealDay    Each = "real-day"
	RealWeek   Each = "real-week"
	InGameDay  Each = "in-game-day"
	InGameHour Each = "in-game-hour"
)

// Period returns the wall clock length of e. An in-game day lasts twenty
// minutes.
func (e Each) Period() time.Duration {
	switch e {
	case RealHour:
		return time.Hour
	case RealDay:
		return 24 * time.Hour
	case RealWeek:
		return 7 * 24 * time.Hour
	case InGameDay:
		return 20 * time.Minute
	case InGameHour:
		return 20 * time.Minute / 24
	default:
		return 0
	}
}

// PeaceAndWar configures the daily war window.
type PeaceAndWar struct {
	WarTime WarTime `yaml:"war-time"`
}

// WarTime is the part of the world day during which gangs are at war.
type WarTime struct {
	Start Moment `yaml:"start" validate:"moment"`
	End   Moment `yaml:"end" validate:"moment"`
	// DisableLeaveJoinGang refuses joining and leaving gangs during war.
	DisableLeaveJoinGang bool `yaml:"disable-leave-join-gang"`
}

// Storage selects and configures the gang store.
type Storage struct {
	Backend  string   `yaml:"backend" validate:"required"`
	DataDir  string   `yaml:"data-dir"`
	DynamoDB DynamoDB `yaml:"dynamodb"`
}

// DynamoDB holds the table settings of the dynamodb backend. Credentials
// are only read from the environment.
type DynamoDB struct {
	Table    string `yaml:"table"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`

	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Default returns the configuration used for every key missing from the
// config file.
func Default() *Config {
	return &Config{
		PowerLevels: PowerLevels{
			Loss: Loss{
				Fraction: 0.5,
				Each:     RealWeek,
			},
		},
		PeaceAndWar: PeaceAndWar{
			WarTime: WarTime{
				Start:                MomentSunset,
				End:                  MomentSunrise,
				DisableLeaveJoinGang: true,
			},
		},
		Income: map[string]float32{},
		Storage: Storage{
			Backend: "yaml",
			DataDir: "data",
		},
		AutoSave:           true,
		InvitationDuration: strfmt.Duration(time.Minute),
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Load reads the config file at path on top of the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error: the defaults are written to path so they can be edited.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			if err := cfg.Save(path); err != nil {
				return nil, err
			}
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := cfg.decode(data); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML config data on top of the defaults and validates it
// without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// InvitationTTL returns how long an invitation stays open.
func (c *Config) InvitationTTL() time.Duration {
	return time.Duration(c.InvitationDuration)
}
