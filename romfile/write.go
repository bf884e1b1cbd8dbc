// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-zen.
//
// go-zen is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-zen is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-zen.  If not, see <https://www.gnu.org/licenses/>.

package romfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is inserted between the target name and the backup's
// container extension.
const BackupSuffix = ".bak"

// WriteOptions control WriteFile.
type WriteOptions struct {
	// Backup is a registered container extension such as ".zst". When set
	// and the target exists, its previous contents are kept compressed
	// next to it as target + BackupSuffix + Backup.
	Backup string

	// CopierHeader is written in front of the image when non-empty.
	CopierHeader []byte

	// Perm is the mode of a newly created file. Zero means 0o644.
	Perm fs.FileMode
}

// WriteFile atomically replaces path with data, compressing it when path
// carries a container extension.
func WriteFile(path string, data []byte, opts WriteOptions) error {
	if IsArchiveExtension(filepath.Ext(path)) || IsArchivePath(path) {
		return FormatError{Format: filepath.Ext(path), Reason: "archives are read-only"}
	}
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}

	if opts.Backup != "" {
		if err := backup(path, opts.Backup, perm); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(opts.CopierHeader) + len(data))
	buf.Write(opts.CopierHeader)
	buf.Write(data)

	payload, err := encode(path, buf.Bytes())
	if err != nil {
		return err
	}
	return writeAtomic(path, payload, perm)
}

// IsArchivePath reports whether path names a file inside an archive,
// without touching the filesystem.
func IsArchivePath(path string) bool {
	p := strings.ToLower(filepath.ToSlash(path))
	for _, ext := range archiveExtensions {
		if strings.Contains(p, ext+"/") {
			return true
		}
	}
	return false
}

func backup(path, ext string, perm fs.FileMode) error {
	c, ok := ContainerFor(ext)
	if !ok {
		return FormatError{Format: ext, Reason: "unknown backup container"}
	}
	prev, err := os.ReadFile(path) //nolint:gosec // caller supplied path
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s for backup: %w", path, err)
	}
	packed, err := compress(c, prev)
	if err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}
	return writeAtomic(path+BackupSuffix+ext, packed, perm)
}

func encode(path string, data []byte) ([]byte, error) {
	c, ok := ContainerFor(path)
	if !ok {
		return data, nil
	}
	packed, err := compress(c, data)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", path, err)
	}
	return packed, nil
}

func compress(c Container, data []byte) ([]byte, error) {
	var out bytes.Buffer
	w, err := c.NewWriter(&out)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	if err := w.Close(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	return out.Bytes(), nil
}

func writeAtomic(path string, data []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
