package game

import "time"

// Phase of a running match.
type Phase string

const (
	PhaseAwaitingClue Phase = "AWAITING_CLUE"
	PhaseGuessing     Phase = "GUESSING"
	PhaseWon          Phase = "WON"
)

// Clue is a (word, count) pair from a codemaster. It grants count+1 guesses.
type Clue struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ChatEntry is one relayed chat message. The engine only logs; content is
// passed through untouched.
type ChatEntry struct {
	From string    `json:"from"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// chatLogLimit bounds the in-memory chat log per match.
const chatLogLimit = 256

// RevealResult describes the outcome of one card reveal.
type RevealResult struct {
	Row       int   `json:"row"`
	Col       int   `json:"col"`
	Color     Color `json:"color"`
	ByTeam    Team  `json:"byTeam"`
	Correct   bool  `json:"correct"`
	TurnEnded bool  `json:"turnEnded"`
	Winner    Team  `json:"winner,omitempty"`
}

// Match owns the single authoritative board plus turn, clue and win state.
// It is a plain state machine: the owning Session serializes access and
// performs all broadcasting.
type Match struct {
	ID string

	Board        Board
	StartingTeam Team
	CurrentTeam  Team
	Phase        Phase

	Clue             *Clue
	GuessesRemaining int

	RedRemaining   int
	BlueRemaining  int
	BlackRemaining int

	Winner Team // empty until decided

	Chat         []ChatEntry
	LastActivity time.Time

	players map[string]*Player
}

// NewMatch creates a match for the given seated players and deals a fresh
// random board. Players keep their identity by reference; their roles are
// fixed here from slot position. At least one seat must be taken.
func NewMatch(id string, lobby *Lobby, supply WordSupply) (*Match, error) {
	seated := lobby.Seated()
	if len(seated) == 0 {
		return nil, ErrEmptyLobby
	}

	m := &Match{
		ID:      id,
		players: make(map[string]*Player, len(seated)),
	}
	for _, team := range []Team{TeamRed, TeamBlue} {
		for i := 0; i < TeamSize; i++ {
			p := lobby.slot(team, i)
			if p == nil {
				continue
			}
			p.Team = team
			if i == CodemasterSlot {
				p.Role = RoleCodemaster
			} else {
				p.Role = RoleOperative
			}
			m.players[p.ID] = p
		}
	}

	if err := m.Start(supply); err != nil {
		return nil, err
	}
	return m, nil
}

// Start deals a new board with a 50/50 starting team and resets all turn
// state. Restarting an existing match goes through the same path.
func (m *Match) Start(supply WordSupply) error {
	starting := RandomStartingTeam()
	board, err := GenerateBoard(starting, supply)
	if err != nil {
		return err
	}

	m.Board = board
	m.StartingTeam = starting
	m.CurrentTeam = starting
	m.Phase = PhaseAwaitingClue
	m.Clue = nil
	m.GuessesRemaining = 0
	if starting == TeamRed {
		m.RedRemaining = StartingTeamCards
		m.BlueRemaining = OtherTeamCards
	} else {
		m.RedRemaining = OtherTeamCards
		m.BlueRemaining = StartingTeamCards
	}
	m.BlackRemaining = BlackCards
	m.Winner = ""
	m.touch()
	return nil
}

// LoadPreset replaces the board with the fixed fixture and derives counters
// from it, bypassing random generation. Deterministic demo/testing path.
func (m *Match) LoadPreset() {
	m.Board = PresetBoard()
	m.StartingTeam = presetStartingTeam
	m.CurrentTeam = presetStartingTeam
	m.Phase = PhaseAwaitingClue
	m.Clue = nil
	m.GuessesRemaining = 0
	m.RedRemaining = m.Board.CountColor(ColorRed)
	m.BlueRemaining = m.Board.CountColor(ColorBlue)
	m.BlackRemaining = m.Board.CountColor(ColorBlack)
	m.Winner = ""
	m.touch()
}

// PlayerByID resolves a seated player.
func (m *Match) PlayerByID(id string) (*Player, bool) {
	p, ok := m.players[id]
	return p, ok
}

// RemovePlayer drops a seat; the match itself keeps running. Idempotent.
func (m *Match) RemovePlayer(id string) {
	delete(m.players, id)
}

// Players returns the seated roster.
func (m *Match) Players() map[string]*Player { return m.players }

// SetClue records the current clue and opens guessing with count+1 guesses.
// The extra guess is a game-rule allowance, not an off-by-one. Only the
// current team's codemaster may set it, and only while a clue is awaited.
func (m *Match) SetClue(playerID string, clue Clue) error {
	p, ok := m.players[playerID]
	if !ok {
		return ErrNotInMatch
	}
	if m.Phase != PhaseAwaitingClue {
		return ErrWrongPhase
	}
	if p.Team != m.CurrentTeam {
		return ErrNotYourTurn
	}
	if p.Role != RoleCodemaster {
		return ErrNotYourRole
	}

	c := clue
	m.Clue = &c
	m.GuessesRemaining = clue.Count + 1
	m.Phase = PhaseGuessing
	m.touch()
	return nil
}

// ChooseCard reveals the card at (row, col) on behalf of the current team's
// operative. Effects run in fixed order: mark revealed, adjust counters,
// evaluate the winner with the pre-switch current team, then evaluate end
// of turn. Re-choosing a revealed card is rejected before any mutation.
func (m *Match) ChooseCard(playerID string, row, col int) (RevealResult, error) {
	p, ok := m.players[playerID]
	if !ok {
		return RevealResult{}, ErrNotInMatch
	}
	if !InBounds(row, col) {
		return RevealResult{}, ErrCardOutOfRange
	}
	if m.Phase != PhaseGuessing {
		return RevealResult{}, ErrWrongPhase
	}
	if p.Team != m.CurrentTeam {
		return RevealResult{}, ErrNotYourTurn
	}
	if p.Role != RoleOperative {
		return RevealResult{}, ErrNotYourRole
	}

	card := &m.Board[row][col]
	if card.Revealed {
		return RevealResult{}, ErrCardAlreadyRevealed
	}

	card.Revealed = true
	color := card.Color

	// Clamped decrements guard against malformed repeated input; the
	// revealed-card check above is the real precondition.
	switch color {
	case ColorRed:
		if m.RedRemaining > 0 {
			m.RedRemaining--
		}
	case ColorBlue:
		if m.BlueRemaining > 0 {
			m.BlueRemaining--
		}
	case ColorBlack:
		if m.BlackRemaining > 0 {
			m.BlackRemaining--
		}
	}
	if m.GuessesRemaining > 0 {
		m.GuessesRemaining--
	}

	// The winner must be decided with the team that was current at the
	// moment of the reveal; switching turns first would flip the black case.
	acting := m.CurrentTeam
	m.evaluateWinner(acting)

	res := RevealResult{
		Row:     row,
		Col:     col,
		Color:   color,
		ByTeam:  acting,
		Correct: color == acting.Color(),
		Winner:  m.Winner,
	}

	if m.Phase != PhaseWon && (m.GuessesRemaining == 0 || color != acting.Color()) {
		m.endTurn()
		res.TurnEnded = true
	}
	m.touch()
	return res, nil
}

// evaluateWinner applies the win rules in fixed order: blue-zero, red-zero,
// black-zero. A team reaching zero on its own color has had all its cards
// found and wins; revealing black loses for the revealer's team.
func (m *Match) evaluateWinner(acting Team) {
	switch {
	case m.BlueRemaining == 0:
		m.Winner = TeamBlue
	case m.RedRemaining == 0:
		m.Winner = TeamRed
	case m.BlackRemaining == 0:
		m.Winner = acting.Opponent()
	default:
		return
	}
	m.Phase = PhaseWon
}

// EndTurnFromPlayer hands the turn over on request. Only an operative of
// the current team may end its own turn, and only while guessing.
func (m *Match) EndTurnFromPlayer(playerID string) error {
	p, ok := m.players[playerID]
	if !ok {
		return ErrNotInMatch
	}
	if m.Phase != PhaseGuessing {
		return ErrWrongPhase
	}
	if p.Team != m.CurrentTeam {
		return ErrNotYourTurn
	}
	if p.Role != RoleOperative {
		return ErrNotYourRole
	}
	m.endTurn()
	m.touch()
	return nil
}

func (m *Match) endTurn() {
	m.CurrentTeam = m.CurrentTeam.Opponent()
	m.Clue = nil
	m.GuessesRemaining = 0
	m.Phase = PhaseAwaitingClue
}

// AppendChat logs a relayed chat message, keeping the log bounded.
func (m *Match) AppendChat(from, text string) {
	m.Chat = append(m.Chat, ChatEntry{From: from, Text: text, At: time.Now()})
	if len(m.Chat) > chatLogLimit {
		m.Chat = m.Chat[len(m.Chat)-chatLogLimit:]
	}
	m.touch()
}

func (m *Match) touch() {
	m.LastActivity = time.Now()
}
