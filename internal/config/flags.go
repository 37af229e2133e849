package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

const (
	FlagConfig   = "config"
	FlagDataDir  = "data-dir"
	FlagBackend  = "backend"
	FlagTick     = "tick"
	FlagNotify   = "notify"
	FlagDiscord  = "discord-webhook"
	FlagWatch    = "watch-store"
	FlagYes      = "yes"
	FlagLogFile  = "log-file"
	FlagDebug    = "debug"
)

// BindFlags registers the persistent configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "", "path to config file (default "+DefaultPath()+")")
	fs.String(FlagDataDir, d.DataDir, "directory holding the task and score snapshots")
	fs.String(FlagBackend, d.Backend, "snapshot backend: sqlite, file or memory")
	fs.Duration(FlagTick, d.TickInterval, "timer tick interval")
	fs.Bool(FlagNotify, d.DesktopNotifications, "send desktop notifications")
	fs.String(FlagDiscord, "", "Discord webhook URL for timer notifications")
	fs.Bool(FlagWatch, d.Watch, "reload when another process saves the sqlite or file backend")
	fs.BoolP(FlagYes, "y", false, "skip confirmation prompts")
	fs.String(FlagLogFile, d.LogFile, "log file path")
	fs.Bool(FlagDebug, false, "enable debug logging")
}

// ApplyFlags copies the flags the user actually set onto cfg.
func ApplyFlags(fs *pflag.FlagSet, cfg Config) (Config, error) {
	var err error
	set := func(name string, apply func() error) {
		if err != nil || fs.Lookup(name) == nil || !fs.Changed(name) {
			return
		}
		err = apply()
	}
	set(FlagDataDir, func() (e error) { cfg.DataDir, e = fs.GetString(FlagDataDir); return })
	set(FlagBackend, func() (e error) { cfg.Backend, e = fs.GetString(FlagBackend); return })
	set(FlagTick, func() (e error) { cfg.TickInterval, e = fs.GetDuration(FlagTick); return })
	set(FlagNotify, func() (e error) { cfg.DesktopNotifications, e = fs.GetBool(FlagNotify); return })
	set(FlagDiscord, func() (e error) { cfg.DiscordWebhookURL, e = fs.GetString(FlagDiscord); return })
	set(FlagWatch, func() (e error) { cfg.Watch, e = fs.GetBool(FlagWatch); return })
	set(FlagYes, func() error {
		yes, e := fs.GetBool(FlagYes)
		cfg.ConfirmDestructive = !yes
		return e
	})
	set(FlagLogFile, func() (e error) { cfg.LogFile, e = fs.GetString(FlagLogFile); return })
	set(FlagDebug, func() (e error) { cfg.Debug, e = fs.GetBool(FlagDebug); return })
	if err != nil {
		return cfg, fmt.Errorf("config: reading flags: %w", err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration. An explicitly named config file
// must exist; the default one is optional.
func Resolve(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()

	path := DefaultPath()
	explicit := false
	if fs != nil && fs.Lookup(FlagConfig) != nil {
		if p, _ := fs.GetString(FlagConfig); p != "" {
			path, explicit = p, true
		}
	}
	loaded, err := LoadFile(path, cfg)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, ErrNotFound) && !explicit:
	default:
		return cfg, err
	}

	if err := LoadDotEnv(); err != nil {
		return cfg, fmt.Errorf("config: loading .env: %w", err)
	}
	cfg = FromEnv(cfg)

	if fs != nil {
		if cfg, err = ApplyFlags(fs, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}
