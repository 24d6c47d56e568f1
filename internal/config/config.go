package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultExtensions are the file extensions scanned when the caller does not
// request a specific set.
var DefaultExtensions = []string{
	".py", ".c", ".h", ".cpp", ".hpp",
	".java", ".js", ".ts", ".go", ".rs",
}

// DefaultIgnorePatterns are glob patterns matched against file and directory
// names during scanning. A matched directory is skipped entirely.
var DefaultIgnorePatterns = []string{
	".git", "__pycache__", "node_modules", ".venv", "venv",
	"*.pyc", "*.pyo", "*.so", "*.o", "*.a", "*.exe",
	".DS_Store", "Thumbs.db", ".idea", ".vscode",
	"dist", "build", "target", "*.egg-info",
}

type Config struct {
	Scan struct {
		Extensions     []string `yaml:"extensions"`
		IgnorePatterns []string `yaml:"ignore_patterns"`
	} `yaml:"scan"`
	Analysis struct {
		MaxTraceDepth    int `yaml:"max_trace_depth"`
		MaxSearchResults int `yaml:"max_search_results"`
		MaxSnippetLength int `yaml:"max_snippet_length"`
	} `yaml:"analysis"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Scan.Extensions = append([]string(nil), DefaultExtensions...)
	cfg.Scan.IgnorePatterns = append([]string(nil), DefaultIgnorePatterns...)
	cfg.Analysis.MaxTraceDepth = 5
	cfg.Analysis.MaxSearchResults = 50
	cfg.Analysis.MaxSnippetLength = 500
	cfg.Storage.DBPath = "codescope.db"
	return cfg
}

// Load reads configuration from a YAML file, layered over the defaults and
// under any CODESCOPE_* environment variables. A missing file is not an
// error; the defaults are returned.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if len(cfg.Scan.IgnorePatterns) == 0 {
		cfg.Scan.IgnorePatterns = append([]string(nil), DefaultIgnorePatterns...)
	}
	if cfg.Analysis.MaxTraceDepth <= 0 {
		cfg.Analysis.MaxTraceDepth = 5
	}
	if cfg.Analysis.MaxSearchResults <= 0 {
		cfg.Analysis.MaxSearchResults = 50
	}
	if cfg.Analysis.MaxSnippetLength <= 0 {
		cfg.Analysis.MaxSnippetLength = 500
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = "codescope.db"
	}
}

func applyEnv(cfg *Config) {
	if exts := os.Getenv("CODESCOPE_EXTENSIONS"); exts != "" {
		var parsed []string
		for _, e := range strings.Split(exts, ",") {
			if e = strings.TrimSpace(e); e != "" {
				parsed = append(parsed, e)
			}
		}
		if len(parsed) > 0 {
			cfg.Scan.Extensions = parsed
		}
	}
	if depth := os.Getenv("CODESCOPE_MAX_TRACE_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(depth); err == nil && n > 0 {
			cfg.Analysis.MaxTraceDepth = n
		}
	}
	if db := os.Getenv("CODESCOPE_DB"); db != "" {
		cfg.Storage.DBPath = db
	}
}
