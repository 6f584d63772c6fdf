//go:build !(linux || (darwin && !ios))

package shmem

import "errors"

var errUnsupported = errors.New("shmem: System V shared memory is not supported on this platform")

// Create is unsupported on this platform.
func Create(int) (*Segment, error) { return nil, errUnsupported }

// Attach is unsupported on this platform.
func Attach(int) (*Segment, error) { return nil, errUnsupported }

// Detach forgets the segment.
func (s *Segment) Detach() error {
	s.data = nil
	return nil
}

// Remove forgets the segment.
func (s *Segment) Remove() error { return s.Detach() }
