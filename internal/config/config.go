// Package config loads the build tunables from spec §4.F: an optional TOML
// file plus overrides, in the same flags-win-over-file-wins-over-defaults
// order the teacher's own config loader uses.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/wikidex/internal/wikierr"
)

// Config mirrors wikidex.Options but is the on-disk/flag-facing shape: it
// is decoded from TOML before being translated into build options.
type Config struct {
	IndexPath    string `toml:"index_path"`
	Backend      string `toml:"backend"`
	ParseThreads int    `toml:"parse_threads"`
	IndexThreads int    `toml:"index_threads"`
	NoCacheRead  bool   `toml:"no_cache_read"`
	NoCacheWrite bool   `toml:"no_cache_write"`
}

// Default returns the documented defaults: mapreduce backend, 6 parse
// threads, index threads left at 0 (meaning "use runtime.NumCPU()").
func Default() Config {
	return Config{
		Backend:      "mapreduce",
		ParseThreads: 6,
		IndexThreads: 0,
	}
}

// Load reads path as TOML if it exists, layering its fields over Default().
// A missing config file is not an error: it just means defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, wikierr.NewConfigFileError(path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, wikierr.NewConfigFileError(path, err)
	}
	return cfg, nil
}
