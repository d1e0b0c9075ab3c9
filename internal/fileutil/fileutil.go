// Package fileutil implements the artifact readiness protocol shared by all
// stages: artifacts are written under a hidden temporary name next to their
// final location and renamed into place once complete, so a reader that sees
// the final name always sees a finished file.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const partialSuffix = ".partial"

// TempPath returns the in-progress sibling used while path is being written.
func TempPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+partialSuffix)
}

// Publish renames a completed temporary file into place.
func Publish(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteAtomic writes path through fill. Nothing is visible at path until fill
// returns nil and the data is synced; on failure the temporary file is removed
// and any previous file at path is left untouched.
func WriteAtomic(path string, fill func(w io.Writer) error) error {
	tmp := TempPath(path)
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(tmp), err)
	}
	if fill != nil {
		if err := fill(out); err != nil {
			_ = out.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", filepath.Base(tmp), err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", filepath.Base(tmp), err)
	}
	return Publish(tmp, path)
}

// WriteEmpty publishes a zero-byte artifact at path.
func WriteEmpty(path string) error {
	return WriteAtomic(path, nil)
}

// Ready reports whether a finished artifact exists at path. A zero-byte file
// is ready; it marks a unit without records.
func Ready(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// NonEmpty reports whether path exists and holds at least one byte.
func NonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Size returns the size of path, or zero with a nil error when it does not exist.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}

// CopyFileVerified copies src to dst with SHA256 + size integrity verification.
// The copy is published atomically; dst is never left partially written.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	var written int64
	err = WriteAtomic(dst, func(out io.Writer) error {
		tee := io.TeeReader(in, srcHasher)
		n, err := io.Copy(io.MultiWriter(out, dstHasher), tee)
		if err != nil {
			return err
		}
		written = n
		if written != srcSize {
			return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
		}
		if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
			return errors.New("copy hash mismatch: file corrupted during copy")
		}
		return nil
	})
	return err
}
