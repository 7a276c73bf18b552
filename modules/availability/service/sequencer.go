package service

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
)

const defaultSequencerSize = 10000

// RequestSequencer hands out increasing tickets per key so that, of several
// overlapping requests for the same key, only the newest may publish its result.
// Only the most recently used keys are tracked.
type RequestSequencer struct {
	mu   sync.Mutex
	keys *lru.Cache[string, *sequence]
	now  func() time.Time
}

type sequence struct {
	seq         atomic.Uint64
	lastVersion uint64 // guarded by RequestSequencer.mu
}

// Ticket identifies one request within its key's sequence.
//
// Seq counts requests inside this process. Version is clock based and keeps
// increasing across evictions and restarts, so stores compare on it.
type Ticket struct {
	Key     string
	Seq     uint64
	Version uint64
	seq     *sequence
}

func NewRequestSequencer(size int) *RequestSequencer {
	if size <= 0 {
		size = defaultSequencerSize
	}
	keys, _ := lru.New[string, *sequence](size)
	return &RequestSequencer{keys: keys, now: time.Now}
}

// Begin supersedes every earlier ticket for key.
func (s *RequestSequencer) Begin(key string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	sq, ok := s.keys.Get(key)
	if !ok {
		sq = &sequence{}
		s.keys.Add(key, sq)
	}

	version := uint64(s.now().UnixNano())
	if version <= sq.lastVersion {
		version = sq.lastVersion + 1
	}
	sq.lastVersion = version

	return Ticket{Key: key, Seq: sq.seq.Inc(), Version: version, seq: sq}
}

// IsLatest reports whether no newer ticket was issued for the same key.
func (t Ticket) IsLatest() bool {
	if t.seq == nil {
		return false
	}
	return t.seq.seq.Load() == t.Seq
}
