package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config is the full seekr configuration, loaded from .seekr.kdl with
// defaults filled in for anything the file omits.
type Config struct {
	Version     int
	Project     Project
	Index       Index
	Search      Search
	Performance Performance
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

type Index struct {
	Dir              string // directory holding persisted index files
	MaxFileSize      int64  // files above this are not indexed
	RespectGitignore bool   // process .gitignore files for exclusions
}

type Search struct {
	MaxResults         int
	FuzzyMaxDistance   int
	FuzzyMinSimilarity float64
}

type Performance struct {
	ParallelWorkers int // 0 = auto-detect (NumCPU-1)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Index: Index{
			Dir:              defaultIndexDir(),
			MaxFileSize:      10 * 1024 * 1024,
			RespectGitignore: true,
		},
		Search: Search{
			MaxResults:         100,
			FuzzyMaxDistance:   2,
			FuzzyMinSimilarity: 0.8,
		},
		Performance: Performance{
			ParallelWorkers: 0,
		},
		Include: []string{},
		Exclude: []string{},
	}
}

// Workers resolves the configured worker count, auto-detecting from the CPU
// count when unset. Always at least 1.
func (c *Config) Workers() int {
	if c.Performance.ParallelWorkers > 0 {
		return c.Performance.ParallelWorkers
	}
	return max(1, runtime.NumCPU()-1)
}

// Load reads configuration from path. A missing file is not an error: the
// defaults are returned. The project root is resolved to an absolute path.
func Load(path string) (*Config, error) {
	cfg, err := LoadKDL(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}

	if cfg.Project.Root == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Project.Root = wd
		} else {
			cfg.Project.Root = "."
		}
	}
	absRoot, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %q: %w", cfg.Project.Root, err)
	}
	cfg.Project.Root = absRoot

	return cfg, nil
}

// defaultIndexDir places index files under the user cache directory,
// falling back to the temp dir when the cache dir cannot be determined.
func defaultIndexDir() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "seekr")
	}
	return filepath.Join(os.TempDir(), "seekr")
}
