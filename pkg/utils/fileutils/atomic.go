package fileutils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// AtomicWrite writes a file atomically with the given permissions.
func AtomicWrite(path string, perm fs.FileMode, gen func(w io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	defer func(tmp *os.File) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}(tmp)

	if err := gen(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	if df, err := os.Open(dir); err == nil {
		_ = df.Sync()
		_ = df.Close()
	}

	return nil
}

// AtomicEdit replaces an existing file atomically, leaving it untouched when
// the new content is identical. It reports whether the file changed.
func AtomicEdit(path string, perm fs.FileMode, gen func(w io.Writer) error) (bool, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return false, err
	}
	defer func(tmp *os.File) {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}(tmp)

	if err := gen(tmp); err != nil {
		return false, err
	}
	if err := tmp.Chmod(perm); err != nil {
		return false, err
	}
	if err := tmp.Sync(); err != nil {
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}

	if eq, err := cmpFiles(tmp.Name(), path); err != nil {
		return false, err
	} else if eq {
		return false, nil
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	if df, err := os.Open(dir); err == nil {
		_ = df.Sync()
		_ = df.Close()
	}

	return true, nil
}

// cmpFiles compares two files
func cmpFiles(a, b string) (bool, error) {
	aFi, err := os.Stat(a)
	if err != nil {
		return false, err
	} else if aFi.IsDir() {
		return false, fmt.Errorf("%s is a directory", a)
	}

	bFi, err := os.Stat(b)
	if err != nil {
		return false, err
	} else if bFi.IsDir() {
		return false, fmt.Errorf("%s is a directory", b)
	}

	if aFi.Size() != bFi.Size() || aFi.Mode().Perm() != bFi.Mode().Perm() {
		return false, nil
	}

	return cmpContent(a, b)
}

// cmpContent compares two files content
func cmpContent(a, b string) (bool, error) {
	aF, err := os.Open(a)
	if err != nil {
		return false, err
	}

	defer aF.Close()

	bF, err := os.Open(b)
	if err != nil {
		return false, err
	}

	defer bF.Close()

	const bufSize = 128 * 1024
	aBuf := make([]byte, bufSize)
	bBuf := make([]byte, bufSize)

	for {
		aN, aErr := io.ReadFull(aF, aBuf)
		bN, bErr := io.ReadFull(bF, bBuf)

		if aErr != nil && !errors.Is(aErr, io.EOF) && !errors.Is(aErr, io.ErrUnexpectedEOF) {
			return false, aErr
		}

		if bErr != nil && !errors.Is(bErr, io.EOF) && !errors.Is(bErr, io.ErrUnexpectedEOF) {
			return false, bErr
		}

		if aN == 0 && bN == 0 {
			return true, nil
		}

		if aN != bN || !slices.Equal(aBuf[:aN], bBuf[:bN]) {
			return false, nil
		}
	}
}
