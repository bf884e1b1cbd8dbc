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
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Container is a single-file compression format such as gzip.
type Container interface {
	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var (
	containersMu sync.RWMutex
	containers   = make(map[string]Container)
)

// RegisterContainer makes a container format available under a file
// extension, including the leading dot.
func RegisterContainer(ext string, c Container) {
	containersMu.Lock()
	defer containersMu.Unlock()
	containers[strings.ToLower(ext)] = c
}

// ContainerFor returns the container registered for the extension of path.
func ContainerFor(path string) (Container, bool) {
	containersMu.RLock()
	defer containersMu.RUnlock()
	c, ok := containers[strings.ToLower(filepath.Ext(path))]
	return c, ok
}

// ContainerExtensions lists registered container extensions in sorted order.
func ContainerExtensions() []string {
	containersMu.RLock()
	defer containersMu.RUnlock()
	exts := make([]string, 0, len(containers))
	for ext := range containers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func init() {
	RegisterContainer(".gz", gzipContainer{})
	RegisterContainer(".zst", zstdContainer{})
	RegisterContainer(".xz", xzContainer{})
}

type gzipContainer struct{}

func (gzipContainer) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return gr, nil
}

func (gzipContainer) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

type zstdContainer struct{}

func (zstdContainer) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	return dec.IOReadCloser(), nil
}

func (zstdContainer) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	return enc, nil
}

type xzContainer struct{}

func (xzContainer) NewReader(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create xz reader: %w", err)
	}
	return io.NopCloser(xr), nil
}

func (xzContainer) NewWriter(w io.Writer) (io.WriteCloser, error) {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("create xz writer: %w", err)
	}
	return xw, nil
}
