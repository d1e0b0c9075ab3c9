package unit

import (
	"fmt"
	"path/filepath"
)

// Artifact extensions.
const (
	ExtBAM   = "bam"
	ExtFASTA = "fasta"
	ExtNPY   = "npy"
)

// Layout derives artifact names from an Address. Paths are
// <prefix><cycle>_<barcode>.<raw ext> for raw capture units,
// <prefix><cycle>_<barcode>_<tag>_<mate>.<ext> for per-mate artifacts, and
// <prefix><cycle>_<barcode>_predicted_{pos,neg}.fasta for filter output.
type Layout struct {
	Prefix string
	Tag    string
	RawExt string
}

// DefaultLayout matches the file names HiLive writes.
func DefaultLayout() Layout {
	return Layout{Prefix: "hilive_out_cycle", Tag: "deepac", RawExt: ExtBAM}
}

func (l Layout) stem(addr Address) string {
	return fmt.Sprintf("%s%d_%s", l.Prefix, addr.Cycle, addr.Barcode)
}

// Raw returns the raw capture unit path.
func (l Layout) Raw(dir string, addr Address) string {
	return filepath.Join(dir, l.stem(addr)+"."+l.RawExt)
}

// Mate returns the path of a per-mate artifact with the given extension.
func (l Layout) Mate(dir string, addr Address, mate Mate, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%d.%s", l.stem(addr), l.Tag, mate, ext))
}

// MatePaths returns the per-mate artifact paths of a unit.
func (l Layout) MatePaths(dir string, addr Address, readLength int, ext string) []string {
	mates := addr.Mates(readLength)
	paths := make([]string, len(mates))
	for i, mate := range mates {
		paths[i] = l.Mate(dir, addr, mate, ext)
	}
	return paths
}

// Accepted returns the accepted-reads output path.
func (l Layout) Accepted(dir string, addr Address) string {
	return filepath.Join(dir, l.stem(addr)+"_predicted_pos."+ExtFASTA)
}

// Rejected returns the rejected-reads output path.
func (l Layout) Rejected(dir string, addr Address) string {
	return filepath.Join(dir, l.stem(addr)+"_predicted_neg."+ExtFASTA)
}
