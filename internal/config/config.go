package config

import (
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Include []string `toml:"include"`
	Exclude Exclude  `toml:"exclude"`
	Workers int      `toml:"workers"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

func Default() *Config {
	return &Config{
		Include: []string{"*.py"},
		Exclude: Exclude{
			Dirs: []string{".git", "__pycache__", ".venv", "venv", ".tox", "node_modules"},
		},
		Workers: runtime.NumCPU(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if len(cfg.Include) == 0 {
		cfg.Include = []string{"*.py"}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, nil
}
