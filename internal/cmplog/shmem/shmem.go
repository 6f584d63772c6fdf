package shmem

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
)

// EnvVar is the variable the instrumentation runtime reads the segment id from.
const EnvVar = "__AFL_CMPLOG_SHM_ID"

// ErrNoSegment is returned by IDFromEnv when EnvVar is unset.
var ErrNoSegment = errors.New("shmem: " + EnvVar + " not set")

// Segment is an attached shared memory segment.
type Segment struct {
	id   int
	data []byte
}

// ID returns the System V identifier of the segment.
func (s *Segment) ID() int {
	return s.id
}

// Bytes returns the attached memory, or nil once detached.
func (s *Segment) Bytes() []byte {
	return s.data
}

// Env returns the KEY=value entry to add to the target's environment.
func (s *Segment) Env() string {
	return EnvVar + "=" + strconv.Itoa(s.id)
}

// IDFromEnv parses the segment id from the current process environment.
func IDFromEnv() (int, error) {
	v, ok := os.LookupEnv(EnvVar)
	if !ok {
		return 0, ErrNoSegment
	}
	id, err := strconv.Atoi(v)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("shmem: invalid %s=%q", EnvVar, v)
	}
	return id, nil
}

// AttachMap attaches segment id and binds a comparison map over it.
// The caller owns the returned segment and must Unbind the map before
// detaching it.
func AttachMap(id int, layout cmpmap.Layout) (*cmpmap.Map, *Segment, error) {
	m, err := cmpmap.New(layout)
	if err != nil {
		return nil, nil, err
	}
	seg, err := Attach(id)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Bind(seg.Bytes()); err != nil {
		_ = seg.Detach()
		return nil, nil, fmt.Errorf("shmem: segment %d: %w", id, err)
	}
	return m, seg, nil
}

// CreateMap creates a private segment sized for layout and binds a map over it.
func CreateMap(layout cmpmap.Layout) (*cmpmap.Map, *Segment, error) {
	m, err := cmpmap.New(layout)
	if err != nil {
		return nil, nil, err
	}
	seg, err := Create(layout.Size())
	if err != nil {
		return nil, nil, err
	}
	if err := m.Bind(seg.Bytes()); err != nil {
		_ = seg.Remove()
		return nil, nil, err
	}
	return m, seg, nil
}
