package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config controls the interactive shell. All fields are optional; missing
// keys keep their defaults.
type Config struct {
	Prompt  string `toml:"prompt"`
	NoColor bool   `toml:"no_color"`
}

func defaultConfig() Config {
	return Config{Prompt: "> "}
}

// loadConfig reads a TOML config file. An empty path or a missing file
// yields the defaults; unknown keys are an error so typos do not pass
// silently.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}
