package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Sequence container formats exchanged between Sender and Receiver.
const (
	FormatBAM   = "bam"
	FormatFASTA = "fasta"
)

// Extraction toolkits.
const (
	ToolkitSamtools = "samtools"
	ToolkitNative   = "native"
)

// Model sources.
const (
	ModelBuiltin = "builtin"
	ModelCustom  = "custom"
)

// Run contains the per-run pipeline parameters.
type Run struct {
	ReadLength          int      `toml:"read_length"`
	Cycles              []int    `toml:"cycles"`
	Barcodes            []string `toml:"barcodes"`
	Format              string   `toml:"format"`
	Threshold           float64  `toml:"threshold"`
	DiscardNegatives    bool     `toml:"discard_negatives"`
	Annotate            bool     `toml:"annotate"`
	Precision           int      `toml:"precision"`
	PollIntervalSeconds int      `toml:"poll_interval_seconds"`
	Cores               int      `toml:"cores"`
}

// Paths contains the directories each stage reads from and writes to.
type Paths struct {
	RawDir       string   `toml:"raw_dir"`
	ExchangeDir  string   `toml:"exchange_dir"`
	OutputDir    string   `toml:"output_dir"`
	EnsembleDirs []string `toml:"ensemble_dirs"`
	FastaDir     string   `toml:"fasta_dir"`
	LogDir       string   `toml:"log_dir"`
	StateDir     string   `toml:"state_dir"`
}

// Layout controls artifact file naming.
type Layout struct {
	Prefix string `toml:"prefix"`
	Tag    string `toml:"tag"`
	RawExt string `toml:"raw_ext"`
}

// Extract contains read extraction settings.
type Extract struct {
	Toolkit        string `toml:"toolkit"`
	SamtoolsBinary string `toml:"samtools_binary"`
	KeepAllReads   bool   `toml:"keep_all_reads"`
	KeepMappedOnly bool   `toml:"keep_mapped_only"`
}

// Model selects the classifier.
type Model struct {
	Source        string `toml:"source"`
	Variant       string `toml:"variant"`
	PackageDir    string `toml:"package_dir"`
	CustomPath    string `toml:"custom_path"`
	RuntimeBinary string `toml:"runtime_binary"`
}

// Remote contains the optional push target for extracted reads.
type Remote struct {
	Target     string `toml:"target"`
	KeyPath    string `toml:"key_path"`
	KnownHosts string `toml:"known_hosts"`
	Port       int    `toml:"port"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for deepac-live.
//
// Configuration sections by subsystem:
//   - Run: cycles, barcodes, read length, threshold and polling
//   - Paths: stage input/output directories, logs and state
//   - Layout: artifact naming
//   - Extract: read extraction toolkit and mapping policy
//   - Model: builtin or custom classifier and its runtime
//   - Remote: optional push target for extracted reads
//   - Logging: log format, level, and retention
type Config struct {
	Run     Run     `toml:"run"`
	Paths   Paths   `toml:"paths"`
	Layout  Layout  `toml:"layout"`
	Extract Extract `toml:"extract"`
	Model   Model   `toml:"model"`
	Remote  Remote  `toml:"remote"`
	Logging Logging `toml:"logging"`
}

const defaultConfigLocation = "~/.config/deepac-live/config.toml"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigLocation)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("deepac-live.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a stage writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ExchangeDir, c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PollInterval returns the configured wait between readiness checks.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Run.PollIntervalSeconds) * time.Second
}

// FastaSourceDir returns the directory Refilterer reads sequence sets from.
func (c *Config) FastaSourceDir() string {
	if c.Paths.FastaDir != "" {
		return c.Paths.FastaDir
	}
	return c.Paths.ExchangeDir
}

// LedgerPath returns the location of the run ledger database.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ErrSampleExists is returned by WriteSample when the target is already
// present and overwrite was not requested.
var ErrSampleExists = errors.New("config file already exists")

// WriteSample writes the annotated sample configuration. An empty path
// selects DefaultConfigPath. It returns the resolved destination.
func WriteSample(path string, overwrite bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigLocation
	}
	target, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(target, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return target, fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrSampleExists, target)
	}
	if err != nil {
		return target, fmt.Errorf("open %s: %w", target, err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return target, fmt.Errorf("write sample config: %w", err)
	}
	return target, file.Close()
}
