// Package journey holds the state of one scan journey, the linear
// upload → analysis → clinics page sequence. The state lives in the visitor's
// session so it survives page navigation without any server-side persistence
// and is discarded wholesale when the user starts a new scan.
package journey

import (
	"context"
	"encoding/gob"
	"sync"

	"github.com/adermis/adermis/internal/models"
	"github.com/alexedwards/scs/v2"
)

const (
	inputSessionKey     = "journey.input"
	resultSessionKey    = "journey.result"
	treatmentSessionKey = "journey.treatment"
)

func init() {
	gob.Register(models.ScanInput{})
	gob.Register(models.AnalysisResult{})
}

// Store exposes the journey state through typed getters and setters. It does
// no validation; the producing stage is responsible for its own field.
// The invariant it maintains is that at most one ScanInput and one
// AnalysisResult are live per journey.
type Store struct {
	sessions *scs.SessionManager

	// In-flight analysis markers live in process memory rather than in the
	// session, because session data written during a request is only
	// committed after the handler returns and would never be visible to a
	// concurrent duplicate request.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewStore(sessions *scs.SessionManager) *Store {
	return &Store{
		sessions: sessions,
		inFlight: make(map[string]struct{}),
	}
}

// Input returns the in-progress scan input, empty at journey start.
func (s *Store) Input(ctx context.Context) models.ScanInput {
	input, ok := s.sessions.Get(ctx, inputSessionKey).(models.ScanInput)
	if !ok {
		return models.ScanInput{}
	}
	return input
}

func (s *Store) SetInput(ctx context.Context, input models.ScanInput) {
	s.sessions.Put(ctx, inputSessionKey, input)
}

// Result returns the latest analysis result. The second return value is false
// when no analysis has completed in this journey.
func (s *Store) Result(ctx context.Context) (models.AnalysisResult, bool) {
	result, ok := s.sessions.Get(ctx, resultSessionKey).(models.AnalysisResult)
	return result, ok
}

// SetResult replaces the analysis result wholesale. A stored result is never
// mutated in place.
func (s *Store) SetResult(ctx context.Context, result models.AnalysisResult) {
	s.sessions.Put(ctx, resultSessionKey, result)
}

// Treatment returns the final treatment text, empty until a follow-up
// submission succeeds.
func (s *Store) Treatment(ctx context.Context) string {
	return s.sessions.GetString(ctx, treatmentSessionKey)
}

func (s *Store) SetTreatment(ctx context.Context, treatment string) {
	s.sessions.Put(ctx, treatmentSessionKey, treatment)
}

// Reset discards the whole journey state so the user can start a new scan.
func (s *Store) Reset(ctx context.Context) {
	s.sessions.Remove(ctx, inputSessionKey)
	s.sessions.Remove(ctx, resultSessionKey)
	s.sessions.Remove(ctx, treatmentSessionKey)
}

// BeginAnalysis marks an analysis request in flight for this session. It
// returns false when one is already pending so that rapid repeated clicks do
// not fan out into parallel backend calls. Brand-new sessions without a
// committed token share the empty key, which only makes the guard stricter.
func (s *Store) BeginAnalysis(ctx context.Context) bool {
	token := s.sessions.Token(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, pending := s.inFlight[token]; pending {
		return false
	}
	s.inFlight[token] = struct{}{}
	return true
}

// EndAnalysis clears the in-flight marker regardless of outcome.
func (s *Store) EndAnalysis(ctx context.Context) {
	token := s.sessions.Token(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, token)
}
