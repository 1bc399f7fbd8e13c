package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultConfigFile = "pangea.toml"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	Log        LogConfig        `toml:"log"`
	Eval       EvalConfig       `toml:"eval"`
	Repl       ReplConfig       `toml:"repl"`
	Transcript TranscriptConfig `toml:"transcript"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type EvalConfig struct {
	StrictArity bool `toml:"strict_arity"`
}

type ReplConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
}

type TranscriptConfig struct {
	Driver string `toml:"driver"` // sqlite3, mysql or postgres; empty disables
	DSN    string `toml:"dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Log: LogConfig{Level: "warn"},
		Repl: ReplConfig{
			Prompt:      "pangea> ",
			HistoryFile: "~/.pangea_history",
		},
	}
}

// LoadConfiguration reads a TOML file over the defaults. With an empty path
// the default file in the working directory is tried and may be absent.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.Path = path

	cfg.Log.File = ExpandHome(cfg.Log.File)
	cfg.Repl.HistoryFile = ExpandHome(cfg.Repl.HistoryFile)
	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
