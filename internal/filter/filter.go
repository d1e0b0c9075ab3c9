// Package filter partitions sequence sets into accepted and rejected reads by
// classifier score.
//
// A record is accepted when its score is strictly greater than the threshold;
// ties are rejected. For paired units the two mates' scores are averaged per
// record and the same decision applies to both mates, so accepted output holds
// mate 1 records followed by mate 2 records, each group in input order.
package filter

import (
	"fmt"

	"deepaclive/internal/fileutil"
	"deepaclive/internal/scores"
	"deepaclive/internal/seqset"
)

// DefaultThreshold is used when no threshold is configured.
const DefaultThreshold = 0.5

// Options control the partition.
type Options struct {
	Threshold float64
	// Annotate appends "| pp=<score>" to each written record's header.
	Annotate  bool
	Precision int
}

// DefaultOptions returns the threshold and annotation used by the stages.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Annotate: true, Precision: 3}
}

// Mate pairs a sequence set with its scores.
type Mate struct {
	Records []seqset.Record
	Scores  []float64
}

// Partition splits one or two mates. Every mate must have exactly one score
// per record and all mates must be the same length.
func Partition(opts Options, mates ...Mate) (accepted, rejected []seqset.Record, err error) {
	if len(mates) == 0 || len(mates) > 2 {
		return nil, nil, fmt.Errorf("partition needs one or two mates, got %d", len(mates))
	}
	for i, m := range mates {
		if len(m.Records) != len(m.Scores) {
			return nil, nil, fmt.Errorf("%w: mate %d has %d records and %d scores", scores.ErrShapeMismatch, i+1, len(m.Records), len(m.Scores))
		}
	}
	combined := mates[0].Scores
	if len(mates) == 2 {
		if len(mates[1].Scores) != len(combined) {
			return nil, nil, fmt.Errorf("%w: mate 1 has %d scores, mate 2 has %d", scores.ErrShapeMismatch, len(combined), len(mates[1].Scores))
		}
		combined = make([]float64, len(mates[0].Scores))
		for i := range combined {
			combined[i] = (mates[0].Scores[i] + mates[1].Scores[i]) / 2
		}
	}

	for _, m := range mates {
		for i, rec := range m.Records {
			score := combined[i]
			if opts.Annotate {
				rec = rec.Annotated(fmt.Sprintf("| pp=%.*f", opts.Precision, score))
			}
			if score > opts.Threshold {
				accepted = append(accepted, rec)
			} else {
				rejected = append(rejected, rec)
			}
		}
	}
	return accepted, rejected, nil
}

// Request names the files of one filter run. Mate2 and Scores2 are empty for
// single-ended units; an empty Rejected suppresses rejected output.
type Request struct {
	Mate1    string
	Scores1  string
	Mate2    string
	Scores2  string
	Accepted string
	Rejected string
}

// Paired reports whether the request covers two mates.
func (r Request) Paired() bool {
	return r.Mate2 != ""
}

// Result summarizes a filter run.
type Result struct {
	Skipped  bool
	Accepted int
	Rejected int
}

// Apply runs the filter over files. A missing or empty mate 1 sequence set is
// a no-op: nothing is read and nothing is written.
func Apply(req Request, opts Options) (Result, error) {
	if !fileutil.NonEmpty(req.Mate1) {
		return Result{Skipped: true}, nil
	}
	mates := make([]Mate, 0, 2)
	m1, err := loadMate(req.Mate1, req.Scores1)
	if err != nil {
		return Result{}, err
	}
	mates = append(mates, m1)
	if req.Paired() {
		m2, err := loadMate(req.Mate2, req.Scores2)
		if err != nil {
			return Result{}, err
		}
		mates = append(mates, m2)
	}

	accepted, rejected, err := Partition(opts, mates...)
	if err != nil {
		return Result{}, err
	}
	if err := seqset.Write(req.Accepted, accepted); err != nil {
		return Result{}, fmt.Errorf("write accepted reads: %w", err)
	}
	result := Result{Accepted: len(accepted), Rejected: len(rejected)}
	if req.Rejected != "" {
		if err := seqset.Write(req.Rejected, rejected); err != nil {
			return Result{}, fmt.Errorf("write rejected reads: %w", err)
		}
	}
	return result, nil
}

func loadMate(fastaPath, scorePath string) (Mate, error) {
	var records []seqset.Record
	if fileutil.NonEmpty(fastaPath) {
		var err error
		if records, err = seqset.Read(fastaPath); err != nil {
			return Mate{}, err
		}
	}
	values, err := scores.Load(scorePath)
	if err != nil {
		return Mate{}, fmt.Errorf("load scores: %w", err)
	}
	return Mate{Records: records, Scores: values}, nil
}
