package config

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names accepted by ValidateFor.
const (
	StageSender      = "sender"
	StageReceiver    = "receiver"
	StageRefilter    = "refilter"
	StageRethreshold = "rethreshold"
	StagePush        = "push"
)

// Validate ensures the configuration is internally consistent. It does not
// require stage inputs; see ValidateFor.
func (c *Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateFor checks the options the named stage cannot run without.
func (c *Config) ValidateFor(stage string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if stage != StagePush && c.Run.ReadLength <= 0 {
		return errors.New("run.read_length must be positive")
	}
	if len(c.Run.Cycles) == 0 {
		return errors.New("run.cycles must list at least one cycle")
	}
	switch stage {
	case StageSender:
		if c.Paths.RawDir == "" {
			return errors.New("paths.raw_dir must be set for the sender")
		}
		if c.Paths.ExchangeDir == "" {
			return errors.New("paths.exchange_dir must be set for the sender")
		}
	case StageReceiver:
		if c.Paths.ExchangeDir == "" {
			return errors.New("paths.exchange_dir must be set for the receiver")
		}
		if c.Paths.OutputDir == "" {
			return errors.New("paths.output_dir must be set for the receiver")
		}
		return c.validateModelSource()
	case StageRefilter:
		if len(c.Paths.EnsembleDirs) == 0 {
			return errors.New("paths.ensemble_dirs must list at least one directory for refilter")
		}
		if c.FastaSourceDir() == "" {
			return errors.New("paths.fasta_dir or paths.exchange_dir must be set for refilter")
		}
		if c.Paths.OutputDir == "" {
			return errors.New("paths.output_dir must be set for refilter")
		}
	case StageRethreshold:
		if c.FastaSourceDir() == "" {
			return errors.New("paths.fasta_dir or paths.exchange_dir must be set for rethreshold")
		}
		if c.Paths.OutputDir == "" {
			return errors.New("paths.output_dir must be set for rethreshold")
		}
	case StagePush:
		if c.Remote.Target == "" {
			return errors.New("remote.target must be set for push")
		}
		if c.Paths.ExchangeDir == "" {
			return errors.New("paths.exchange_dir must be set for push")
		}
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}
	return nil
}

func (c *Config) validateRun() error {
	if c.Run.ReadLength < 0 {
		return errors.New("run.read_length must not be negative")
	}
	for i := 1; i < len(c.Run.Cycles); i++ {
		if c.Run.Cycles[i] <= c.Run.Cycles[i-1] {
			return fmt.Errorf("run.cycles must be strictly increasing (%d follows %d)", c.Run.Cycles[i], c.Run.Cycles[i-1])
		}
	}
	if len(c.Run.Cycles) > 0 && c.Run.Cycles[0] <= 0 {
		return errors.New("run.cycles must be positive")
	}
	seen := make(map[string]struct{}, len(c.Run.Barcodes))
	for _, barcode := range c.Run.Barcodes {
		if _, ok := seen[barcode]; ok {
			return fmt.Errorf("run.barcodes lists %q twice", barcode)
		}
		if strings.ContainsAny(barcode, `/\`) {
			return fmt.Errorf("run.barcodes entry %q must not contain path separators", barcode)
		}
		seen[barcode] = struct{}{}
	}
	switch c.Run.Format {
	case FormatBAM, FormatFASTA:
	default:
		return fmt.Errorf("run.format must be %q or %q, got %q", FormatBAM, FormatFASTA, c.Run.Format)
	}
	if c.Run.Threshold < 0 || c.Run.Threshold > 1 {
		return errors.New("run.threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateExtract() error {
	if c.Extract.KeepAllReads && c.Extract.KeepMappedOnly {
		return errors.New("extract.keep_all_reads and extract.keep_mapped_only are mutually exclusive")
	}
	switch c.Extract.Toolkit {
	case ToolkitSamtools, ToolkitNative:
	default:
		return fmt.Errorf("extract.toolkit must be %q or %q, got %q", ToolkitSamtools, ToolkitNative, c.Extract.Toolkit)
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Source {
	case ModelBuiltin:
		if c.Model.CustomPath != "" {
			return errors.New("model.custom_path cannot be combined with model.source = \"builtin\"")
		}
		switch c.Model.Variant {
		case "rapid", "sensitive":
		default:
			return fmt.Errorf("model.variant must be \"rapid\" or \"sensitive\", got %q", c.Model.Variant)
		}
	case ModelCustom:
		if c.Model.Variant != "" {
			return errors.New("model.variant cannot be combined with model.source = \"custom\"")
		}
	default:
		return fmt.Errorf("model.source must be %q or %q, got %q", ModelBuiltin, ModelCustom, c.Model.Source)
	}
	return nil
}

func (c *Config) validateModelSource() error {
	switch c.Model.Source {
	case ModelBuiltin:
		if c.Model.PackageDir == "" {
			return errors.New("model.package_dir must be set when model.source is \"builtin\"")
		}
	case ModelCustom:
		if c.Model.CustomPath == "" {
			return errors.New("model.custom_path must be set when model.source is \"custom\"")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
