package config

import (
	"fmt"
	"strings"
)

// Normalize trims string fields, fills defaults for blanks, and expands paths.
// The CLI calls it again after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRun()
	c.normalizeLayout()
	c.normalizeExtract()
	if err := c.normalizeModel(); err != nil {
		return err
	}
	if err := c.normalizeRemote(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.raw_dir", &c.Paths.RawDir},
		{"paths.exchange_dir", &c.Paths.ExchangeDir},
		{"paths.output_dir", &c.Paths.OutputDir},
		{"paths.fasta_dir", &c.Paths.FastaDir},
		{"paths.log_dir", &c.Paths.LogDir},
		{"paths.state_dir", &c.Paths.StateDir},
	}
	for _, field := range fields {
		*field.value = strings.TrimSpace(*field.value)
		if *field.value, err = expandPath(*field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	dirs := make([]string, 0, len(c.Paths.EnsembleDirs))
	for idx, dir := range c.Paths.EnsembleDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("paths.ensemble_dirs[%d]: %w", idx, err)
		}
		dirs = append(dirs, expanded)
	}
	c.Paths.EnsembleDirs = dirs
	return nil
}

func (c *Config) normalizeRun() {
	barcodes := make([]string, 0, len(c.Run.Barcodes))
	for _, barcode := range c.Run.Barcodes {
		if trimmed := strings.TrimSpace(barcode); trimmed != "" {
			barcodes = append(barcodes, trimmed)
		}
	}
	if len(barcodes) == 0 {
		barcodes = []string{defaultBarcode}
	}
	c.Run.Barcodes = barcodes
	c.Run.Format = strings.ToLower(strings.TrimSpace(c.Run.Format))
	if c.Run.Format == "" {
		c.Run.Format = defaultFormat
	}
	if c.Run.PollIntervalSeconds < defaultPollInterval {
		c.Run.PollIntervalSeconds = defaultPollInterval
	}
	if c.Run.Precision <= 0 {
		c.Run.Precision = defaultPrecision
	}
	if c.Run.Cores <= 0 {
		c.Run.Cores = Default().Run.Cores
	}
}

func (c *Config) normalizeLayout() {
	c.Layout.Prefix = strings.TrimSpace(c.Layout.Prefix)
	if c.Layout.Prefix == "" {
		c.Layout.Prefix = defaultLayoutPrefix
	}
	c.Layout.Tag = strings.TrimSpace(c.Layout.Tag)
	if c.Layout.Tag == "" {
		c.Layout.Tag = defaultLayoutTag
	}
	c.Layout.RawExt = strings.TrimPrefix(strings.TrimSpace(c.Layout.RawExt), ".")
	if c.Layout.RawExt == "" {
		c.Layout.RawExt = defaultRawExt
	}
}

func (c *Config) normalizeExtract() {
	c.Extract.Toolkit = strings.ToLower(strings.TrimSpace(c.Extract.Toolkit))
	if c.Extract.Toolkit == "" {
		c.Extract.Toolkit = defaultToolkit
	}
	c.Extract.SamtoolsBinary = strings.TrimSpace(c.Extract.SamtoolsBinary)
	if c.Extract.SamtoolsBinary == "" {
		c.Extract.SamtoolsBinary = defaultSamtoolsBinary
	}
}

func (c *Config) normalizeModel() error {
	c.Model.Source = strings.ToLower(strings.TrimSpace(c.Model.Source))
	if c.Model.Source == "" {
		c.Model.Source = defaultModelSource
	}
	c.Model.Variant = strings.ToLower(strings.TrimSpace(c.Model.Variant))
	if c.Model.Variant == "" && c.Model.Source == ModelBuiltin {
		c.Model.Variant = defaultModelVariant
	}
	c.Model.RuntimeBinary = strings.TrimSpace(c.Model.RuntimeBinary)
	if c.Model.RuntimeBinary == "" {
		c.Model.RuntimeBinary = defaultRuntimeBinary
	}
	var err error
	if c.Model.PackageDir, err = expandPath(strings.TrimSpace(c.Model.PackageDir)); err != nil {
		return fmt.Errorf("model.package_dir: %w", err)
	}
	if c.Model.CustomPath, err = expandPath(strings.TrimSpace(c.Model.CustomPath)); err != nil {
		return fmt.Errorf("model.custom_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() error {
	c.Remote.Target = strings.TrimSpace(c.Remote.Target)
	if c.Remote.Port <= 0 {
		c.Remote.Port = defaultRemotePort
	}
	var err error
	if c.Remote.KeyPath, err = expandPath(strings.TrimSpace(c.Remote.KeyPath)); err != nil {
		return fmt.Errorf("remote.key_path: %w", err)
	}
	if c.Remote.KnownHosts, err = expandPath(strings.TrimSpace(c.Remote.KnownHosts)); err != nil {
		return fmt.Errorf("remote.known_hosts: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
