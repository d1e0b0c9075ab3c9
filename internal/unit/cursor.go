package unit

// Cursor walks cycles in order and, within each cycle, every barcode in
// order. It copies its inputs; callers may reuse their slices.
type Cursor struct {
	cycles   []int
	barcodes []string
	cycle    int
	barcode  int
}

// NewCursor returns a cursor positioned on the first unit. An empty barcode
// list falls back to DefaultBarcode.
func NewCursor(cycles []int, barcodes []string) *Cursor {
	if len(barcodes) == 0 {
		barcodes = []string{DefaultBarcode}
	}
	return &Cursor{
		cycles:   append([]int(nil), cycles...),
		barcodes: append([]string(nil), barcodes...),
	}
}

// Done reports whether every unit has been consumed.
func (c *Cursor) Done() bool {
	return c.cycle >= len(c.cycles)
}

// Current returns the unit at the head of the queue.
func (c *Cursor) Current() (Address, bool) {
	if c.Done() {
		return Address{}, false
	}
	return Address{Cycle: c.cycles[c.cycle], Barcode: c.barcodes[c.barcode]}, true
}

// Advance pops the current barcode. When that exhausts the cycle it moves to
// the next cycle and reports cycleDone. next is the cycle now awaited and is
// only meaningful while the cursor is not Done.
func (c *Cursor) Advance() (cycleDone bool, next int) {
	if c.Done() {
		return false, 0
	}
	c.barcode++
	if c.barcode < len(c.barcodes) {
		return false, c.cycles[c.cycle]
	}
	c.barcode = 0
	c.cycle++
	if c.Done() {
		return true, 0
	}
	return true, c.cycles[c.cycle]
}

// Remaining returns the number of units not yet consumed.
func (c *Cursor) Remaining() int {
	if c.Done() {
		return 0
	}
	return (len(c.cycles)-c.cycle)*len(c.barcodes) - c.barcode
}

// Units lists every unit in processing order.
func (c *Cursor) Units() []Address {
	units := make([]Address, 0, len(c.cycles)*len(c.barcodes))
	for _, cycle := range c.cycles {
		for _, barcode := range c.barcodes {
			units = append(units, Address{Cycle: cycle, Barcode: barcode})
		}
	}
	return units
}
