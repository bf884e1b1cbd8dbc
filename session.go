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

package zen

import (
	"fmt"
	"sync"

	"github.com/ZaparooProject/go-zen/supermetroid"
)

// Session owns one loaded image and serializes access to it. Readers run
// concurrently; edits and saves hold the lock exclusively so a save never
// observes a half-applied edit.
type Session struct {
	sm           *SuperMetroid
	path         string
	copierHeader []byte
	mu           sync.RWMutex
}

// Open loads the image at path into a new session.
func Open(path string) (*Session, error) {
	sm, img, err := LoadWithLayout(path, supermetroid.DefaultLayout())
	if err != nil {
		return nil, err
	}
	return &Session{sm: sm, path: path, copierHeader: img.CopierHeader}, nil
}

// NewSession wraps an aggregate that will be saved to path.
func NewSession(sm *SuperMetroid, path string) *Session {
	return &Session{sm: sm, path: path}
}

// Path returns the file the session saves to.
func (s *Session) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// View runs fn with shared access. fn must not modify the aggregate.
func (s *Session) View(fn func(*SuperMetroid) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.sm)
}

// Update runs fn with exclusive access.
func (s *Session) Update(fn func(*SuperMetroid) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sm)
}

// Save writes the image back to the session's file, keeping any copier
// header it was loaded with unless opts names one.
func (s *Session) Save(opts SaveOptions) (Remap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.path, opts)
}

// SaveAs writes the image to path and makes it the session's file. As with
// Save, a failed write still returns the remap of the committed image.
func (s *Session) SaveAs(path string, opts SaveOptions) (Remap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remap, err := s.saveLocked(path, opts)
	if err != nil {
		return remap, err
	}
	s.path = path
	return remap, nil
}

func (s *Session) saveLocked(path string, opts SaveOptions) (Remap, error) {
	if path == "" {
		return nil, fmt.Errorf("save session: %w", ErrNoPath)
	}
	if len(opts.CopierHeader) == 0 {
		opts.CopierHeader = s.copierHeader
	}
	return Save(path, s.sm, opts)
}
