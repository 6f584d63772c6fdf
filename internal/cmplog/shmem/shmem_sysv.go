//go:build linux || (darwin && !ios)

package shmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Create allocates a new private segment of size bytes and attaches it.
func Create(size int) (*Segment, error) {
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, size, unix.IPC_CREAT|unix.IPC_EXCL|0o600)
	if err != nil {
		return nil, fmt.Errorf("shmem: shmget(%d bytes): %w", size, err)
	}
	seg, err := Attach(id)
	if err != nil {
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, err
	}
	return seg, nil
}

// Attach maps an existing segment into this process.
func Attach(id int) (*Segment, error) {
	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shmem: shmat(%d): %w", id, err)
	}
	return &Segment{id: id, data: data}, nil
}

// Detach unmaps the segment. Detaching twice is a no-op.
func (s *Segment) Detach() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unix.SysvShmDetach(data); err != nil {
		return fmt.Errorf("shmem: shmdt(%d): %w", s.id, err)
	}
	return nil
}

// Remove detaches the segment and marks it for destruction. The kernel frees
// it once every attached process has detached.
func (s *Segment) Remove() error {
	detachErr := s.Detach()
	if _, err := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("shmem: shmctl(%d, IPC_RMID): %w", s.id, err)
	}
	return detachErr
}
