// pvr_interrupt.go - interrupt sink contract

package main

import "sync"

// InterruptSink receives host interrupts raised by the TA front-end.
type InterruptSink interface {
	RaiseInterrupt(id int)
}

// nullInterruptSink discards interrupts; useful when wiring a core without
// a host interrupt controller attached.
type nullInterruptSink struct{}

func (nullInterruptSink) RaiseInterrupt(int) {}

// recordingInterruptSink records every raised interrupt id in order, for
// tests that assert list-end/interrupt parity.
type recordingInterruptSink struct {
	mu   sync.Mutex
	ids  []int
}

func newRecordingInterruptSink() *recordingInterruptSink {
	return &recordingInterruptSink{}
}

func (s *recordingInterruptSink) RaiseInterrupt(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
}

func (s *recordingInterruptSink) Raised() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}
