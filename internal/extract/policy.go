package extract

import (
	"errors"
	"fmt"

	"deepaclive/internal/unit"
)

// SAM flag bits used by the policies.
const (
	flagPaired       uint16 = 0x1
	flagUnmapped     uint16 = 0x4
	flagMateUnmapped uint16 = 0x8
	flagRead1        uint16 = 0x40
	flagRead2        uint16 = 0x80
	flagReverse      uint16 = 0x10

	// samtools fasta drops these unless told otherwise.
	flagSecondary     uint16 = 0x100
	flagSupplementary uint16 = 0x800
)

// Flags selects records: every Require bit must be set and no Exclude bit may be.
type Flags struct {
	Require uint16
	Exclude uint16
}

// Match reports whether a record with the given flag word is selected.
func (f Flags) Match(flags uint16) bool {
	return flags&f.Require == f.Require && flags&f.Exclude == 0
}

func (f Flags) String() string {
	return fmt.Sprintf("-f %d -F %d", f.Require, f.Exclude)
}

// Policy chooses which reads leave the sequencer side.
type Policy int

const (
	// Unmapped keeps reads that did not align to the reference.
	Unmapped Policy = iota
	// All keeps every read.
	All
	// Mapped keeps reads that aligned to the reference.
	Mapped
)

// ParsePolicy maps the mutually exclusive keep-all and keep-mapped options to a Policy.
func ParsePolicy(keepAll, keepMapped bool) (Policy, error) {
	switch {
	case keepAll && keepMapped:
		return 0, errors.New("keep all reads and keep mapped only are mutually exclusive")
	case keepAll:
		return All, nil
	case keepMapped:
		return Mapped, nil
	default:
		return Unmapped, nil
	}
}

func (p Policy) String() string {
	switch p {
	case All:
		return "all"
	case Mapped:
		return "mapped"
	default:
		return "unmapped"
	}
}

// Flags returns the record selection for one mate. Paired units select mate 1
// with 0x41 and mate 2 with 0x81; the unmapped policy also requires both
// mates unmapped (77 and 141), the mapped policy excludes either (-F 12).
func (p Policy) Flags(single bool, mate unit.Mate) Flags {
	if single {
		switch p {
		case All:
			return Flags{}
		case Mapped:
			return Flags{Exclude: flagUnmapped}
		default:
			return Flags{Require: flagUnmapped}
		}
	}
	read := flagPaired | flagRead1
	if mate == unit.Mate2 {
		read = flagPaired | flagRead2
	}
	switch p {
	case All:
		return Flags{Require: read}
	case Mapped:
		return Flags{Require: read, Exclude: flagUnmapped | flagMateUnmapped}
	default:
		return Flags{Require: read | flagUnmapped | flagMateUnmapped}
	}
}
