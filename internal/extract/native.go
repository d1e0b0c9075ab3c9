package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"deepaclive/internal/seqset"
	"deepaclive/internal/unit"
)

// Native selects records in-process with biogo/hts. It reads BAM or SAM input
// and mirrors samtools' FASTA conventions: reverse-strand reads are reverse
// complemented, paired reads get /1 or /2 name suffixes, and secondary and
// supplementary alignments are skipped.
type Native struct {
	// Concurrency is the number of BGZF decompression workers; 0 uses GOMAXPROCS.
	Concurrency int
}

type recordReader interface {
	Read() (*sam.Record, error)
	Header() *sam.Header
}

// Extract implements Toolkit.
func (n Native) Extract(ctx context.Context, input string, flags Flags, format string, output string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	reader, closeReader, err := n.open(f)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	defer closeReader()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if format == unit.ExtFASTA {
		err = writeFASTA(ctx, reader, flags, out)
	} else {
		err = writeBAM(ctx, reader, flags, out)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", input, err)
	}
	return nil
}

func (n Native) open(f io.Reader) (recordReader, func(), error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		r, err := bam.NewReader(br, n.Concurrency)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	}
	r, err := sam.NewReader(br)
	if err != nil {
		return nil, nil, err
	}
	return r, func() {}, nil
}

func writeFASTA(ctx context.Context, reader recordReader, flags Flags, w io.Writer) error {
	writer := seqset.NewWriter(w)
	skip := flagSecondary | flagSupplementary
	err := eachRecord(ctx, reader, flags, func(rec *sam.Record) error {
		if uint16(rec.Flags)&skip != 0 || rec.Seq.Length == 0 {
			return nil
		}
		return writer.Write(fastaRecord(rec))
	})
	if err != nil {
		return err
	}
	return writer.Flush()
}

func fastaRecord(rec *sam.Record) seqset.Record {
	name := rec.Name
	bits := uint16(rec.Flags)
	if bits&flagPaired != 0 {
		switch {
		case bits&flagRead1 != 0:
			name += "/1"
		case bits&flagRead2 != 0:
			name += "/2"
		}
	}
	out := seqset.Record{ID: name, Seq: rec.Seq.Expand()}
	if bits&flagReverse != 0 {
		out = out.ReverseComplement()
	}
	return out
}

func writeBAM(ctx context.Context, reader recordReader, flags Flags, w io.Writer) error {
	bw, err := bam.NewWriter(w, reader.Header(), 1)
	if err != nil {
		return err
	}
	err = eachRecord(ctx, reader, flags, bw.Write)
	if closeErr := bw.Close(); err == nil {
		err = closeErr
	}
	return err
}

func eachRecord(ctx context.Context, reader recordReader, flags Flags, fn func(*sam.Record) error) error {
	for i := 0; ; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !flags.Match(uint16(rec.Flags)) {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
