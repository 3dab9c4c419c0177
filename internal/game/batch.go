// Package game implements the pure raffle core: batch pacing, the prize
// inventory ledger, and the ordered win-decision rules. Nothing in this
// package touches storage; the service layer feeds it state and persists
// what it hands back.
package game

// BatchState tracks pacing counters for the whole event: how many plays
// have happened and how many wins landed in the current batch window.
// It is a plain value; the repository persists it as a single row.
type BatchState struct {
	TotalPlays       int64
	CurrentBatchWins int
	LastResetBatch   int64
}

// windowIndex is the batch window a play at the given play count falls in.
func windowIndex(totalPlays int64, batchSize int) int64 {
	return totalPlays / int64(batchSize)
}

// AdmitWin reports whether pacing allows another winner right now.
//
// When the current window index has advanced past LastResetBatch the win
// counter is treated as zero for this decision only; the stored counter is
// reset exclusively by RecordPlay on an actual win. A run of losing plays
// across a window boundary therefore never resets the persisted counter.
func (s BatchState) AdmitWin(batchSize, prizesPerBatch int) bool {
	wins := s.CurrentBatchWins
	if windowIndex(s.TotalPlays, batchSize) > s.LastResetBatch {
		wins = 0
	}
	return wins < prizesPerBatch
}

// RecordPlay advances the counters for one completed play. Losing plays
// only bump TotalPlays. A win persists the pending window reset (if the
// window advanced since the last recorded win), counts the win, and stamps
// LastResetBatch from the post-increment play count.
func (s *BatchState) RecordPlay(batchSize int, won bool) {
	playedIn := windowIndex(s.TotalPlays, batchSize)
	s.TotalPlays++
	if !won {
		return
	}
	if playedIn > s.LastResetBatch {
		s.CurrentBatchWins = 0
	}
	s.CurrentBatchWins++
	s.LastResetBatch = windowIndex(s.TotalPlays, batchSize)
}
