package unit

import "fmt"

// DefaultBarcode is used when reads are not demultiplexed.
const DefaultBarcode = "undetermined"

// Mate identifies one read of a pair. Single-ended units only have Mate1.
type Mate int

const (
	Mate1 Mate = 1
	Mate2 Mate = 2
)

// Address identifies one unit of work.
type Address struct {
	Cycle   int
	Barcode string
}

// SingleEnded reports whether the unit has only one mate: reads at or below
// the configured read length have not reached the second mate yet.
func (a Address) SingleEnded(readLength int) bool {
	return a.Cycle <= readLength
}

// Mates lists the mates a unit carries.
func (a Address) Mates(readLength int) []Mate {
	if a.SingleEnded(readLength) {
		return []Mate{Mate1}
	}
	return []Mate{Mate1, Mate2}
}

func (a Address) String() string {
	return fmt.Sprintf("cycle %d, barcode %s", a.Cycle, a.Barcode)
}
