// Package extract turns a raw alignment capture unit into per-mate read sets.
//
// The Extractor decides which reads to keep from a Policy and the unit's
// layout, delegates the actual record selection to a Toolkit (the samtools
// binary or an in-process biogo/hts reader), and publishes each output
// atomically. Absent or zero-byte inputs produce zero-byte outputs so that
// downstream stages treat "no reads" like any other unit.
package extract
