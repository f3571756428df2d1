package game

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Config holds the game-layer settings.
type Config struct {
	// SessionIdleTimeout destroys sessions that sit empty for this long.
	// 0 disables the sweeper.
	SessionIdleTimeout time.Duration
}

// ResultSink receives finished-match summaries (archive, stats, ...).
type ResultSink interface {
	SaveResult(ctx context.Context, res MatchResult) error
}

// SessionService owns the process-wide session registry: create, resolve,
// list, destroy. There is no ambient global state; everything is reached
// through this service.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg    Config
	log    *slog.Logger
	supply WordSupply
	sinks  []ResultSink
}

func NewSessionService(cfg Config, supply WordSupply, log *slog.Logger, sinks ...ResultSink) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		log:      log,
		supply:   supply,
		sinks:    sinks,
	}
}

// Create registers a new session under a fresh random id.
func (s *SessionService) Create(name string) *Session {
	id := randID(10)

	sess := NewSession(id, name, s.supply, s.log)
	sess.onEmpty = s.Destroy
	sess.onResult = s.recordResult

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.log.Info("session created", "session", id, "name", name)
	return sess
}

func (s *SessionService) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// List returns browser rows for every live session, ordered by id.
func (s *SessionService) List() []SessionSummary {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()

	out := make([]SessionSummary, 0, len(all))
	for _, sess := range all {
		out = append(out, sess.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Destroy forgets a session. Idempotent.
func (s *SessionService) Destroy(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.log.Info("session destroyed", "session", id)
	}
}

// RunSweeper periodically destroys sessions that sat empty past the idle
// timeout. Blocks until the context is cancelled.
func (s *SessionService) RunSweeper(ctx context.Context) {
	if s.cfg.SessionIdleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.cfg.SessionIdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.cfg.SessionIdleTimeout)
			s.mu.Lock()
			stale := make([]*Session, 0)
			for _, sess := range s.sessions {
				stale = append(stale, sess)
			}
			s.mu.Unlock()

			for _, sess := range stale {
				if sess.Idle(cutoff) {
					s.Destroy(sess.ID())
				}
			}
		}
	}
}

func (s *SessionService) recordResult(res MatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, sink := range s.sinks {
		if err := sink.SaveResult(ctx, res); err != nil {
			s.log.Error("record match result", "session", res.SessionID, "err", err)
		}
	}
}

func randID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}
