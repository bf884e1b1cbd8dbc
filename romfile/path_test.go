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

package romfile_test

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/go-zen/romfile"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	zipPath := writeZIP(t, dir, "set.zip", []string{"a.sfc"}, [][]byte{{1}})
	writeFile(t, dir, "plain.sfc", []byte{1})

	tests := []struct {
		name string
		path string
		want *romfile.Path
	}{
		{
			name: "inner path",
			path: zipPath + "/dir/a.sfc",
			want: &romfile.Path{ArchivePath: zipPath, InternalPath: "dir/a.sfc"},
		},
		{
			name: "bare archive",
			path: zipPath,
			want: &romfile.Path{ArchivePath: zipPath},
		},
		{name: "plain file", path: filepath.Join(dir, "plain.sfc")},
		{name: "missing archive", path: filepath.Join(dir, "gone.zip")},
		{name: "missing archive with inner", path: filepath.Join(dir, "gone.7z") + "/a.sfc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := romfile.ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath() error = %v", err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParsePath() = %+v, want nil", got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("ParsePath() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsArchivePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"a/set.zip/game.sfc": true,
		"a/SET.RAR/game.sfc": true,
		"a/set.7z/x":         true,
		"a/game.sfc":         false,
		"a/game.zip":         false,
	}
	for path, want := range tests {
		if got := romfile.IsArchivePath(path); got != want {
			t.Errorf("IsArchivePath(%q) = %v, want %v", path, got, want)
		}
	}
}
