// Package unit names the units of work the stages hand to each other.
//
// An Address identifies one (cycle, barcode) unit; Layout derives every
// artifact path for a unit from the directory it lives in, so that stages
// agree on progress purely through file names. Cursor walks the configured
// cycles and barcodes in order without mutating them.
package unit
