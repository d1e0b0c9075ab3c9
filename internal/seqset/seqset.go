// Package seqset reads and writes FASTA sequence sets.
package seqset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"deepaclive/internal/fileutil"
)

// LineWidth is the sequence line width used when writing FASTA.
const LineWidth = 60

// Record is one FASTA entry. ID is the header up to the first space or tab;
// Desc holds the remainder of the header.
type Record struct {
	ID   string
	Desc string
	Seq  []byte
}

// Title returns the full header line without the leading '>'.
func (r Record) Title() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// Annotated returns a copy of r with note appended to its header.
func (r Record) Annotated(note string) Record {
	out := r
	if out.Desc == "" {
		out.Desc = note
	} else {
		out.Desc = out.Desc + " " + note
	}
	return out
}

// ReverseComplement returns r with its sequence reverse complemented.
func (r Record) ReverseComplement() Record {
	s := r.linear()
	s.RevComp()
	out := r
	out.Seq = make([]byte, len(s.Seq))
	for i, l := range s.Seq {
		out.Seq[i] = byte(l)
	}
	return out
}

func (r Record) linear() *linear.Seq {
	s := linear.NewSeq(r.ID, alphabet.BytesToLetters(bytes.Clone(r.Seq)), alphabet.DNA)
	s.Desc = r.Desc
	return s
}

// Read loads every record of a FASTA file in order. A zero-byte file yields
// no records.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Decode reads FASTA records from r.
func Decode(r io.Reader) ([]Record, error) {
	reader := fasta.NewReader(bufio.NewReader(r), linear.NewSeq("", nil, alphabet.DNA))
	var records []Record
	for {
		s, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, err
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", s)
		}
		seq := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			seq[i] = byte(l)
		}
		records = append(records, Record{ID: ls.ID, Desc: ls.Desc, Seq: seq})
	}
}

// Writer streams records to an underlying writer.
type Writer struct {
	bw *bufio.Writer
	fw *fasta.Writer
	n  int
}

// NewWriter returns a Writer; call Flush when done.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, fw: fasta.NewWriter(bw, LineWidth)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if _, err := w.fw.Write(rec.linear()); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.n
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Encode writes records to w in order.
func Encode(w io.Writer, records ...[]Record) error {
	writer := NewWriter(w)
	for _, group := range records {
		for _, rec := range group {
			if err := writer.Write(rec); err != nil {
				return err
			}
		}
	}
	return writer.Flush()
}

// Write atomically publishes records at path, concatenating the groups in order.
func Write(path string, records ...[]Record) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, records...)
	})
}

// Count returns the number of records in a FASTA file without keeping them.
func Count(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), ">") {
			n++
		}
	}
	return n, scanner.Err()
}
