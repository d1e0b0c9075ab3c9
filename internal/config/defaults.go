package config

import "runtime"

const (
	defaultExchangeDir      = "~/.local/share/deepac-live/exchange"
	defaultOutputDir        = "~/.local/share/deepac-live/output"
	defaultLogDir           = "~/.local/share/deepac-live/logs"
	defaultStateDir         = "~/.local/share/deepac-live/state"
	defaultLogRetentionDays = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultBarcode          = "undetermined"
	defaultFormat           = FormatBAM
	defaultThreshold        = 0.5
	defaultPrecision        = 3
	defaultPollInterval     = 1
	defaultLayoutPrefix     = "hilive_out_cycle"
	defaultLayoutTag        = "deepac"
	defaultRawExt           = "bam"
	defaultToolkit          = ToolkitSamtools
	defaultSamtoolsBinary   = "samtools"
	defaultModelSource      = ModelBuiltin
	defaultModelVariant     = "rapid"
	defaultRuntimeBinary    = "deepac"
	defaultRemotePort       = 22
	defaultKnownHosts       = "~/.ssh/known_hosts"
	defaultKeyPath          = "~/.ssh/id_rsa"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Run: Run{
			Barcodes:            []string{defaultBarcode},
			Format:              defaultFormat,
			Threshold:           defaultThreshold,
			Annotate:            true,
			Precision:           defaultPrecision,
			PollIntervalSeconds: defaultPollInterval,
			Cores:               runtime.NumCPU(),
		},
		Paths: Paths{
			ExchangeDir: defaultExchangeDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
			StateDir:    defaultStateDir,
		},
		Layout: Layout{
			Prefix: defaultLayoutPrefix,
			Tag:    defaultLayoutTag,
			RawExt: defaultRawExt,
		},
		Extract: Extract{
			Toolkit:        defaultToolkit,
			SamtoolsBinary: defaultSamtoolsBinary,
		},
		Model: Model{
			Source:        defaultModelSource,
			RuntimeBinary: defaultRuntimeBinary,
		},
		Remote: Remote{
			Port:       defaultRemotePort,
			KnownHosts: defaultKnownHosts,
			KeyPath:    defaultKeyPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
