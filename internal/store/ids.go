package store

import (
	"sync/atomic"
	"time"
)

// IDSource hands out millisecond timestamps as identifiers, bumped by one
// whenever two calls land on the same millisecond so values never repeat.
type IDSource struct {
	last atomic.Int64
	now  func() time.Time
}

func NewIDSource() *IDSource {
	return &IDSource{now: time.Now}
}

func (s *IDSource) Next() int64 {
	for {
		candidate := s.now().UnixMilli()
		last := s.last.Load()
		if candidate <= last {
			candidate = last + 1
		}
		if s.last.CompareAndSwap(last, candidate) {
			return candidate
		}
	}
}
