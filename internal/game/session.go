package game

import (
	"log/slog"
	"sync"
	"time"
)

// MatchResult is the summary emitted once a match produces a winner. It is
// handed to result sinks (archive, stats) after the mutation completes.
type MatchResult struct {
	SessionID     string    `json:"sessionId"`
	Winner        Team      `json:"winner"`
	StartingTeam  Team      `json:"startingTeam"`
	RedRemaining  int       `json:"redRemaining"`
	BlueRemaining int       `json:"blueRemaining"`
	WinnerIDs     []string  `json:"winnerIds"`
	LoserIDs      []string  `json:"loserIds"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// Session is one room: a lobby, at most one running match, the connections
// of its participants and the broadcast router. Every inbound action locks
// the session, runs to completion, then fans out the projected views, so
// each state transition is atomic. All I/O happens after mutation.
type Session struct {
	mu  sync.Mutex
	log *slog.Logger

	lobby  *Lobby
	match  *Match
	router *Router
	supply WordSupply

	players map[string]*Player
	conns   map[string]*ClientConn

	lastActivity time.Time

	onResult func(MatchResult)
	onEmpty  func(sessionID string)
}

func NewSession(id, name string, supply WordSupply, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		log:          log.With("session", id),
		lobby:        NewLobby(id, name),
		router:       NewRouter(),
		supply:       supply,
		players:      make(map[string]*Player),
		conns:        make(map[string]*ClientConn),
		lastActivity: time.Now(),
	}
}

func (s *Session) ID() string { return s.lobby.ID }

// Join registers a connection for a player. Re-joining with the same id
// replaces the previous connection (same account on a new socket).
func (s *Session) Join(playerID, name string, cc *ClientConn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, known := s.conns[playerID]; !known && len(s.conns) >= MaxPlayers {
		return ErrSessionFull
	}

	if old, ok := s.conns[playerID]; ok {
		s.router.Unsubscribe(old)
		old.Close()
	}
	if _, ok := s.players[playerID]; !ok {
		s.players[playerID] = &Player{ID: playerID, Name: name}
	}
	s.conns[playerID] = cc
	s.router.Subscribe(AudienceEveryone, cc)
	s.touchLocked()

	s.broadcastLobbyStateLocked()
	return nil
}

// Leave tears a player out of the session: connection, slots, match seat.
// Idempotent: disconnect and explicit leave may both fire for one id. The
// conn identifies the departing socket; teardown for a connection that has
// already been replaced by a reconnect is a no-op, so a stale read loop
// cannot evict the live socket.
func (s *Session) Leave(playerID string, cc *ClientConn) {
	s.mu.Lock()

	cur, ok := s.conns[playerID]
	if !ok || cur != cc {
		s.mu.Unlock()
		return
	}
	s.router.Unsubscribe(cur)
	cur.Close()
	delete(s.conns, playerID)

	s.lobby.RemovePlayer(playerID)
	if s.match != nil {
		s.match.RemovePlayer(playerID)
	}
	delete(s.players, playerID)
	s.touchLocked()

	empty := len(s.conns) == 0
	if !empty {
		s.broadcastLobbyStateLocked()
	}
	s.mu.Unlock()

	if empty && s.onEmpty != nil {
		s.onEmpty(s.lobby.ID)
	}
}

// JoinSlot seats a connected player at (team, index).
func (s *Session) JoinSlot(playerID string, team Team, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return ErrSessionNotFound
	}
	if err := s.lobby.InsertPlayerIntoSlot(p, team, index); err != nil {
		return err
	}
	s.touchLocked()
	s.broadcastLobbyStateLocked()
	return nil
}

// ReadyChange toggles a slot's ready flag.
func (s *Session) ReadyChange(team Team, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lobby.ToggleReady(team, index); err != nil {
		return err
	}
	s.touchLocked()
	s.broadcastLobbyStateLocked()
	return nil
}

// StartMatch builds a match from the current slots and asks every client
// to individually join its role room.
func (s *Session) StartMatch(playerID string, preset bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return ErrSessionNotFound
	}
	if s.lobby.InProgress() {
		return ErrWrongPhase
	}

	m, err := NewMatch(s.lobby.ID, s.lobby, s.supply)
	if err != nil {
		return err
	}
	if preset {
		m.LoadPreset()
	}
	s.match = m
	s.lobby.SetInProgress(true)
	s.touchLocked()

	s.router.Broadcast(AudienceEveryone, Envelope{Type: "match_started"})
	s.broadcastLobbyStateLocked()
	return nil
}

// JoinMatch subscribes a seated player's connection to its role room and
// sends the first projected state.
func (s *Session) JoinMatch(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return ErrMatchNotFound
	}
	p, ok := s.match.PlayerByID(playerID)
	if !ok {
		return ErrNotInMatch
	}
	cc, ok := s.conns[playerID]
	if !ok {
		return ErrSessionNotFound
	}

	if p.Role == RoleCodemaster {
		s.router.Subscribe(AudienceCodemasters, cc)
	} else {
		s.router.Subscribe(AudienceOperatives, cc)
	}
	s.touchLocked()

	cc.Send(Envelope{Type: "match_joined", Payload: mustJSON(MatchJoined{MatchID: s.match.ID, You: *p})})
	cc.Send(Envelope{Type: "match_state", Payload: mustJSON(s.match.StateFor(p.Role))})
	return nil
}

// SetClue forwards a codemaster clue to the engine.
func (s *Session) SetClue(playerID string, clue Clue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return ErrMatchNotFound
	}
	if err := s.match.SetClue(playerID, clue); err != nil {
		return err
	}
	s.touchLocked()
	s.broadcastMatchStateLocked()
	return nil
}

// ChooseCard reveals a card, echoes the outcome to the whole room and
// fans out the per-role states. A decided match is reported to the result
// hook after the lock is released.
func (s *Session) ChooseCard(playerID string, row, col int) error {
	s.mu.Lock()

	if s.match == nil {
		s.mu.Unlock()
		return ErrMatchNotFound
	}
	res, err := s.match.ChooseCard(playerID, row, col)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.touchLocked()

	s.router.Broadcast(AudienceEveryone, Envelope{Type: "card_chosen", Payload: mustJSON(res)})
	s.broadcastMatchStateLocked()

	var result *MatchResult
	if res.Winner != "" {
		result = s.matchResultLocked()
	}
	s.mu.Unlock()

	if result != nil && s.onResult != nil {
		s.onResult(*result)
	}
	return nil
}

// EndTurn hands the turn over on an operative's request.
func (s *Session) EndTurn(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return ErrMatchNotFound
	}
	if err := s.match.EndTurnFromPlayer(playerID); err != nil {
		return err
	}
	s.touchLocked()
	s.broadcastMatchStateLocked()
	return nil
}

// RestartMatch deals a fresh board for the same seats.
func (s *Session) RestartMatch(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match == nil {
		return ErrMatchNotFound
	}
	if _, ok := s.match.PlayerByID(playerID); !ok {
		return ErrNotInMatch
	}
	if err := s.match.Start(s.supply); err != nil {
		return err
	}
	s.touchLocked()
	s.broadcastMatchStateLocked()
	return nil
}

// ResetSession tears down the match and returns the lobby to forming.
func (s *Session) ResetSession(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return ErrSessionNotFound
	}

	s.match = nil
	for _, cc := range s.conns {
		s.router.UnsubscribeRoles(cc)
	}
	s.lobby.Reset()
	for _, p := range s.players {
		p.Team = ""
		p.Role = ""
	}
	s.touchLocked()

	s.router.Broadcast(AudienceEveryone, Envelope{Type: "session_reset"})
	s.broadcastLobbyStateLocked()
	return nil
}

// Chat relays a message to the session room, pass-through. A live match
// keeps an ordered log of it.
func (s *Session) Chat(playerID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.match != nil {
		s.match.AppendChat(p.Name, text)
	}
	s.touchLocked()

	s.router.Broadcast(AudienceEveryone, Envelope{
		Type:    "chat_message",
		Payload: mustJSON(ChatBroadcast{From: p.Name, Text: text}),
	})
	return nil
}

// SendErrorTo reports a failed action back to one connection.
func (s *Session) SendErrorTo(playerID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cc, ok := s.conns[playerID]
	if !ok {
		return
	}
	cc.Send(Envelope{Type: "error", Payload: mustJSON(ErrorPayloadFor(err))})
}

// Summary is one row of the session browser.
func (s *Session) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSummary{
		ID:         s.lobby.ID,
		Name:       s.lobby.Name,
		Players:    len(s.conns),
		MaxPlayers: MaxPlayers,
		InProgress: s.lobby.InProgress(),
	}
}

// Idle reports whether the session has had no activity since the cutoff
// and holds no live connections.
func (s *Session) Idle(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns) == 0 && s.lastActivity.Before(cutoff)
}

func (s *Session) touchLocked() {
	s.lastActivity = time.Now()
}

func (s *Session) broadcastLobbyStateLocked() {
	s.router.Broadcast(AudienceEveryone, Envelope{
		Type:    "lobby_state",
		Payload: mustJSON(s.lobby.State()),
	})
}

func (s *Session) broadcastMatchStateLocked() {
	if s.match == nil {
		return
	}
	s.router.Broadcast(AudienceCodemasters, Envelope{
		Type:    "match_state",
		Payload: mustJSON(s.match.StateFor(RoleCodemaster)),
	})
	s.router.Broadcast(AudienceOperatives, Envelope{
		Type:    "match_state",
		Payload: mustJSON(s.match.StateFor(RoleOperative)),
	})
}

func (s *Session) matchResultLocked() *MatchResult {
	m := s.match
	res := &MatchResult{
		SessionID:     s.lobby.ID,
		Winner:        m.Winner,
		StartingTeam:  m.StartingTeam,
		RedRemaining:  m.RedRemaining,
		BlueRemaining: m.BlueRemaining,
		FinishedAt:    time.Now(),
	}
	for id, p := range m.Players() {
		if p.Team == m.Winner {
			res.WinnerIDs = append(res.WinnerIDs, id)
		} else {
			res.LoserIDs = append(res.LoserIDs, id)
		}
	}
	return res
}
