package clinic

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const patientNumberPrefix = "SS"

// newEntityID returns the internal identity for a new entity.
func newEntityID() string {
	return uuid.New().String()
}

// numberSeq issues strictly increasing millisecond-resolution sequence
// values. When two calls land in the same millisecond the second gets the
// previous value plus one, so patient numbers generated in a tight loop
// never collide.
type numberSeq struct {
	mu   sync.Mutex
	last int64
}

func (s *numberSeq) next(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := now.UnixMilli()
	if seq <= s.last {
		seq = s.last + 1
	}
	s.last = seq
	return seq
}

// patientNumber returns the human-facing patient number: the SS prefix
// followed by the last six digits of the sequence value, zero-padded.
func (s *numberSeq) patientNumber(now time.Time) string {
	return fmt.Sprintf("%s%06d", patientNumberPrefix, s.next(now)%1_000_000)
}
