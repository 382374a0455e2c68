// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"fmt"
	"syscall"
)

// ErrLocked is returned when a lock file is already held by another owner.
const ErrLocked = ConstError("resource is locked")

// LockFile marks exclusive ownership of a resource shared between
// processes, like a snapshot file written by a single mirror. The lock is a
// file that exists as long as the lock is held.
//
// Locks that are not released are not removed at process exit.
type LockFile struct {
	path           string
	fileDescriptor int
}

// CreateLockFile atomically creates the file at the given path and holds it.
// It fails with ErrLocked if the file already exists.
func CreateLockFile(path string) (*LockFile, error) {
	fd, err := syscall.Open(path, syscall.O_CREAT|syscall.O_EXCL|syscall.O_RDWR, 0600)
	if err != nil {
		if err == syscall.EEXIST {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("failed to acquire file lock: %w", err)
	}
	return &LockFile{path: path, fileDescriptor: fd}, nil
}

// Valid reports whether the lock is still held.
func (f *LockFile) Valid() bool {
	return f.fileDescriptor != 0
}

// Release gives up the lock by deleting its file. A lock may only be
// released once.
func (f *LockFile) Release() error {
	if !f.Valid() {
		return fmt.Errorf("unable to release invalid lock")
	}
	if err := syscall.Close(f.fileDescriptor); err != nil {
		return fmt.Errorf("failed to release file lock: %w", err)
	}
	f.fileDescriptor = 0
	if err := syscall.Unlink(f.path); err != nil {
		return fmt.Errorf("failed to release file lock: %w", err)
	}
	return nil
}
