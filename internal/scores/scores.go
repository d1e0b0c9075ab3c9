// Package scores loads, stores, and combines classifier score arrays.
//
// Score arrays are NumPy .npy files holding one probability per sequence
// record, in record order. Arrays are written as float64; float32 and float64
// arrays are accepted on read since model runtimes commonly emit either.
package scores

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/floats"

	"deepaclive/internal/fileutil"
	"deepaclive/internal/services"
)

// ErrShapeMismatch marks score arrays whose lengths disagree with each other
// or with their sequence set. It is a validation error and never retried.
var ErrShapeMismatch = fmt.Errorf("%w: score array shape mismatch", services.ErrValidation)

// Load reads a one-dimensional score array. An (n, 1) column vector is
// accepted and flattened.
func Load(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	shape := r.Header.Descr.Shape
	switch {
	case len(shape) <= 1:
	case len(shape) == 2 && shape[1] == 1:
	default:
		return nil, fmt.Errorf("%w: %s has shape %v, want a vector", ErrShapeMismatch, path, shape)
	}

	switch r.Header.Descr.Type {
	case "<f8", "f8", "float64":
		var values []float64
		if err := r.Read(&values); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return values, nil
	case "<f4", "f4", "float32":
		var values []float32
		if err := r.Read(&values); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		out := make([]float64, len(values))
		for i, v := range values {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %q", path, r.Header.Descr.Type)
	}
}

// Save atomically writes values as a float64 .npy vector. A nil or empty
// slice produces a valid zero-length array.
func Save(path string, values []float64) error {
	if values == nil {
		values = []float64{}
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return npyio.Write(w, values)
	})
}

// Mean returns the element-wise arithmetic mean of arrays. Each element is
// summed in sorted order so the result does not depend on the order of the
// inputs. Arrays of unequal length yield ErrShapeMismatch.
func Mean(arrays ...[]float64) ([]float64, error) {
	if len(arrays) == 0 {
		return nil, errors.New("mean of zero score arrays")
	}
	n := len(arrays[0])
	for i, a := range arrays[1:] {
		if len(a) != n {
			return nil, fmt.Errorf("%w: input %d has %d scores, input 0 has %d", ErrShapeMismatch, i+1, len(a), n)
		}
	}
	if len(arrays) == 1 {
		return slices.Clone(arrays[0]), nil
	}
	k := float64(len(arrays))
	out := make([]float64, n)
	column := make([]float64, len(arrays))
	for i := range out {
		for j, a := range arrays {
			column[j] = a[i]
		}
		slices.Sort(column)
		out[i] = floats.Sum(column) / k
	}
	return out, nil
}

// Ensemble averages the score arrays at inputs and writes the result to
// output. Nothing is written when the inputs disagree in length.
func Ensemble(inputs []string, output string) ([]float64, error) {
	if len(inputs) == 0 {
		return nil, errors.New("ensemble needs at least one input")
	}
	arrays := make([][]float64, 0, len(inputs))
	for _, path := range inputs {
		values, err := Load(path)
		if err != nil {
			return nil, err
		}
		arrays = append(arrays, values)
	}
	mean, err := Mean(arrays...)
	if err != nil {
		return nil, err
	}
	if err := Save(output, mean); err != nil {
		return nil, err
	}
	return mean, nil
}
