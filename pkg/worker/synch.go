package worker

import (
	"sync"
	"time"
)

// pollInterval is the barrier re-check interval. The lock is released for the
// whole sleep, so barrier waiters never starve voters.
const pollInterval = 100 * time.Millisecond

// Synch coordinates the shutdown rendezvous of a group of Workers.
//
// Each participant announces itself as its goroutine enters, then submits a
// clean or unclean stop vote as it leaves its loop. Cleanly-stopping
// participants wait until every peer has voted: if all votes are clean they
// run graceful-stop work and meet at a second barrier; if any vote is
// unclean, every waiter returns false immediately and skips the graceful
// phase.
//
// Participant counts are tallied at run time rather than fixed up front, so
// the set of workers sharing a Synch can be chosen dynamically at start.
// A Synch must outlive every Worker started with it.
type Synch struct {
	mu          sync.Mutex
	started     int
	readyToStop int
	cleanVotes  []bool
}

// NewSynch creates an empty Synch.
func NewSynch() *Synch {
	return &Synch{}
}

// Reset clears all counts and votes, preparing the Synch for a fresh run.
// The caller must ensure no participant goroutine is alive.
func (s *Synch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = 0
	s.readyToStop = 0
	s.cleanVotes = nil
}

// AnnounceStarted records one participant entering its goroutine.
func (s *Synch) AnnounceStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
}

// SubmitCleanVote records the participant's stop vote: clean for a
// stop-signal exit, unclean for a tick-requested or failed exit.
// Each participant votes exactly once per run.
func (s *Synch) SubmitCleanVote(clean bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cleanVotes) >= s.started {
		panic("worker: more stop votes than started participants")
	}
	s.cleanVotes = append(s.cleanVotes, clean)
}

// AwaitAllCleanVotes blocks until every announced participant has voted, then
// returns true iff all votes were clean. It returns false as soon as any
// unclean vote is recorded, without waiting for the remaining votes, so no
// participant blocks on a graceful shutdown a peer has already declined.
func (s *Synch) AwaitAllCleanVotes() bool {
	for {
		s.mu.Lock()
		for _, clean := range s.cleanVotes {
			if !clean {
				s.mu.Unlock()
				return false
			}
		}
		allVoted := len(s.cleanVotes) == s.started
		s.mu.Unlock()

		if allVoted {
			return true
		}
		time.Sleep(pollInterval)
	}
}

// AnnounceReadyToStop records that the participant has finished its
// graceful-stop work. Called at most once per participant, on the clean
// path only.
func (s *Synch) AnnounceReadyToStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readyToStop >= s.started {
		panic("worker: more ready-to-stop announcements than started participants")
	}
	s.readyToStop++
}

// AwaitAllReadyToStop blocks until every announced participant has announced
// ready-to-stop.
func (s *Synch) AwaitAllReadyToStop() {
	for {
		s.mu.Lock()
		allReady := s.readyToStop == s.started
		s.mu.Unlock()

		if allReady {
			return
		}
		time.Sleep(pollInterval)
	}
}
