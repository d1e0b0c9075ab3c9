package main

import (
	"github.com/spf13/cobra"

	"deepaclive/internal/config"
)

const (
	flagReadLength       = "read-length"
	flagCycles           = "cycles"
	flagBarcodes         = "barcodes"
	flagFormat           = "format"
	flagPollInterval     = "poll-interval"
	flagCores            = "cores"
	flagThreshold        = "threshold"
	flagDiscardNegatives = "discard-negatives"
	flagRawDir           = "raw-dir"
	flagExchangeDir      = "exchange-dir"
	flagOutputDir        = "output-dir"
	flagFastaDir         = "fasta-dir"
	flagEnsembleDirs     = "ensemble-dir"
	flagKeepAllReads     = "keep-all-reads"
	flagKeepMappedOnly   = "keep-mapped-only"
	flagToolkit          = "toolkit"
	flagModelVariant     = "model-variant"
	flagCustomModel      = "custom-model"
	flagRemote           = "remote"
)

// Flag groups bound by each command.
var (
	runFlags      = []string{flagReadLength, flagCycles, flagBarcodes, flagPollInterval, flagCores}
	filterFlags   = []string{flagThreshold, flagDiscardNegatives}
	extractFlags  = []string{flagRawDir, flagExchangeDir, flagFormat, flagKeepAllReads, flagKeepMappedOnly, flagToolkit, flagRemote}
	receiveFlags  = []string{flagExchangeDir, flagOutputDir, flagFormat, flagModelVariant, flagCustomModel}
	refilterFlags = []string{flagEnsembleDirs, flagFastaDir, flagOutputDir}
)

// overrides holds flag values that replace configuration file settings when
// the flag is given explicitly.
type overrides struct {
	readLength       int
	cycles           []int
	barcodes         []string
	format           string
	pollInterval     int
	cores            int
	threshold        float64
	discardNegatives bool
	rawDir           string
	exchangeDir      string
	outputDir        string
	fastaDir         string
	ensembleDirs     []string
	keepAllReads     bool
	keepMappedOnly   bool
	toolkit          string
	modelVariant     string
	customModel      string
	remote           string
}

// bind registers the named flags on cmd. A name already registered is
// skipped so commands can combine overlapping groups.
func (o *overrides) bind(cmd *cobra.Command, groups ...[]string) {
	fs := cmd.Flags()
	for _, group := range groups {
		for _, name := range group {
			if fs.Lookup(name) != nil {
				continue
			}
			switch name {
			case flagReadLength:
				fs.IntVar(&o.readLength, name, 0, "Read length; cycles above it are paired")
			case flagCycles:
				fs.IntSliceVar(&o.cycles, name, nil, "Cycles to process, strictly increasing")
			case flagBarcodes:
				fs.StringSliceVar(&o.barcodes, name, nil, "Barcodes to process within each cycle")
			case flagFormat:
				fs.StringVar(&o.format, name, "", "Exchange format: bam or fasta")
			case flagPollInterval:
				fs.IntVar(&o.pollInterval, name, 0, "Seconds between readiness checks")
			case flagCores:
				fs.IntVar(&o.cores, name, 0, "CPU cores for extraction and inference")
			case flagThreshold:
				fs.Float64Var(&o.threshold, name, 0, "Accept reads scoring strictly above this value")
			case flagDiscardNegatives:
				fs.BoolVar(&o.discardNegatives, name, false, "Do not write rejected reads")
			case flagRawDir:
				fs.StringVar(&o.rawDir, name, "", "Directory holding raw capture units")
			case flagExchangeDir:
				fs.StringVar(&o.exchangeDir, name, "", "Directory holding extracted reads")
			case flagOutputDir:
				fs.StringVar(&o.outputDir, name, "", "Directory for scores and filtered reads")
			case flagFastaDir:
				fs.StringVar(&o.fastaDir, name, "", "Directory holding the FASTA reads to refilter")
			case flagEnsembleDirs:
				fs.StringSliceVar(&o.ensembleDirs, name, nil, "Directory with score arrays to average (repeatable)")
			case flagKeepAllReads:
				fs.BoolVar(&o.keepAllReads, name, false, "Extract all reads")
			case flagKeepMappedOnly:
				fs.BoolVar(&o.keepMappedOnly, name, false, "Extract only reads aligned to the reference")
			case flagToolkit:
				fs.StringVar(&o.toolkit, name, "", "Extraction toolkit: samtools or native")
			case flagModelVariant:
				fs.StringVar(&o.modelVariant, name, "", "Builtin model variant: rapid or sensitive")
			case flagCustomModel:
				fs.StringVar(&o.customModel, name, "", "Path to a custom model file")
			case flagRemote:
				fs.StringVar(&o.remote, name, "", "Push target: [user@]host:path or a local directory")
			}
		}
	}
	if fs.Lookup(flagModelVariant) != nil && fs.Lookup(flagCustomModel) != nil {
		cmd.MarkFlagsMutuallyExclusive(flagModelVariant, flagCustomModel)
	}
}

// apply copies explicitly set flags onto cfg and normalizes the result.
func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set(flagReadLength, func() { cfg.Run.ReadLength = o.readLength })
	set(flagCycles, func() { cfg.Run.Cycles = o.cycles })
	set(flagBarcodes, func() { cfg.Run.Barcodes = o.barcodes })
	set(flagFormat, func() { cfg.Run.Format = o.format })
	set(flagPollInterval, func() { cfg.Run.PollIntervalSeconds = o.pollInterval })
	set(flagCores, func() { cfg.Run.Cores = o.cores })
	set(flagThreshold, func() { cfg.Run.Threshold = o.threshold })
	set(flagDiscardNegatives, func() { cfg.Run.DiscardNegatives = o.discardNegatives })
	set(flagRawDir, func() { cfg.Paths.RawDir = o.rawDir })
	set(flagExchangeDir, func() { cfg.Paths.ExchangeDir = o.exchangeDir })
	set(flagOutputDir, func() { cfg.Paths.OutputDir = o.outputDir })
	set(flagFastaDir, func() { cfg.Paths.FastaDir = o.fastaDir })
	set(flagEnsembleDirs, func() { cfg.Paths.EnsembleDirs = o.ensembleDirs })
	set(flagKeepAllReads, func() { cfg.Extract.KeepAllReads = o.keepAllReads })
	set(flagKeepMappedOnly, func() { cfg.Extract.KeepMappedOnly = o.keepMappedOnly })
	set(flagToolkit, func() { cfg.Extract.Toolkit = o.toolkit })
	set(flagModelVariant, func() {
		cfg.Model.Source = config.ModelBuiltin
		cfg.Model.Variant = o.modelVariant
		cfg.Model.CustomPath = ""
	})
	set(flagCustomModel, func() {
		cfg.Model.Source = config.ModelCustom
		cfg.Model.CustomPath = o.customModel
		cfg.Model.Variant = ""
	})
	set(flagRemote, func() { cfg.Remote.Target = o.remote })
	return cfg.Normalize()
}
