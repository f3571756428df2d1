package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seatedLobby builds a four-player lobby: codemaster + one operative per team.
func seatedLobby(t *testing.T) *Lobby {
	t.Helper()
	l := NewLobby("s1", "Test")
	require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: "r0", Name: "RedMaster"}, TeamRed, 0))
	require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: "r1", Name: "RedOp"}, TeamRed, 1))
	require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: "b0", Name: "BlueMaster"}, TeamBlue, 0))
	require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: "b1", Name: "BlueOp"}, TeamBlue, 1))
	return l
}

// installBoard replaces the random deal with a deterministic layout:
// cells 0-8 are the starting team's color, 9-16 the opponent's, 17 black,
// the rest neutral (row-major indexing).
func installBoard(m *Match, starting Team) {
	var b Board
	i := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			color := ColorNeutral
			switch {
			case i < 9:
				color = starting.Color()
			case i < 17:
				color = starting.Opponent().Color()
			case i == 17:
				color = ColorBlack
			}
			b[row][col] = Card{Word: fmt.Sprintf("w%d", i), Color: color, Row: row, Col: col}
			i++
		}
	}

	m.Board = b
	m.StartingTeam = starting
	m.CurrentTeam = starting
	m.Phase = PhaseAwaitingClue
	m.Clue = nil
	m.GuessesRemaining = 0
	m.RedRemaining = b.CountColor(ColorRed)
	m.BlueRemaining = b.CountColor(ColorBlue)
	m.BlackRemaining = b.CountColor(ColorBlack)
	m.Winner = ""
}

func newEngineMatch(t *testing.T, starting Team) *Match {
	t.Helper()
	m, err := NewMatch("s1", seatedLobby(t), NewStaticSupply())
	require.NoError(t, err)
	installBoard(m, starting)
	return m
}

// cell converts a row-major index into coordinates.
func cell(i int) (int, int) { return i / Cols, i % Cols }

// choose reveals the card at row-major index i.
func choose(m *Match, playerID string, i int) (RevealResult, error) {
	row, col := cell(i)
	return m.ChooseCard(playerID, row, col)
}

func TestNewMatch_AssignsRolesFromSlots(t *testing.T) {
	m, err := NewMatch("s1", seatedLobby(t), NewStaticSupply())
	require.NoError(t, err)

	require.Len(t, m.Players(), 4)
	for id, want := range map[string]struct {
		team Team
		role Role
	}{
		"r0": {TeamRed, RoleCodemaster},
		"r1": {TeamRed, RoleOperative},
		"b0": {TeamBlue, RoleCodemaster},
		"b1": {TeamBlue, RoleOperative},
	} {
		p, ok := m.PlayerByID(id)
		require.True(t, ok, id)
		assert.Equal(t, want.team, p.Team, id)
		assert.Equal(t, want.role, p.Role, id)
	}
}

func TestNewMatch_FullLobbyRoster(t *testing.T) {
	l := NewLobby("s1", "Test")
	for i := 0; i < TeamSize; i++ {
		require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: fmt.Sprintf("r%d", i)}, TeamRed, i))
		require.NoError(t, l.InsertPlayerIntoSlot(&Player{ID: fmt.Sprintf("b%d", i)}, TeamBlue, i))
	}

	m, err := NewMatch("s1", l, NewStaticSupply())
	require.NoError(t, err)
	require.Len(t, m.Players(), MaxPlayers)

	for id, p := range m.Players() {
		want := RoleOperative
		if id == "r0" || id == "b0" {
			want = RoleCodemaster
		}
		assert.Equal(t, want, p.Role, id)
	}
}

func TestNewMatch_EmptyLobbyRejected(t *testing.T) {
	_, err := NewMatch("s1", NewLobby("s1", "Test"), NewStaticSupply())
	require.ErrorIs(t, err, ErrEmptyLobby)
}

func TestMatch_Start_CountersFollowStartingTeam(t *testing.T) {
	// random starting team, check both counter layouts are consistent
	for i := 0; i < 20; i++ {
		m, err := NewMatch("s1", seatedLobby(t), NewStaticSupply())
		require.NoError(t, err)

		if m.StartingTeam == TeamRed {
			assert.Equal(t, 9, m.RedRemaining)
			assert.Equal(t, 8, m.BlueRemaining)
		} else {
			assert.Equal(t, 8, m.RedRemaining)
			assert.Equal(t, 9, m.BlueRemaining)
		}
		assert.Equal(t, 1, m.BlackRemaining)
		assert.Equal(t, m.StartingTeam, m.CurrentTeam)
		assert.Equal(t, PhaseAwaitingClue, m.Phase)
		assert.Empty(t, m.Winner)
	}
}

func TestMatch_SetClue(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T, m *Match)
	}{
		{
			name: "clue grants count plus one guesses",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))
				assert.Equal(t, 4, m.GuessesRemaining)
				assert.Equal(t, PhaseGuessing, m.Phase)
				require.NotNil(t, m.Clue)
				assert.Equal(t, "ocean", m.Clue.Word)
			},
		},
		{
			name: "rejected outside awaiting clue",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 1}))
				assert.ErrorIs(t, m.SetClue("r0", Clue{Word: "river", Count: 1}), ErrWrongPhase)
			},
		},
		{
			name: "rejected from the waiting team",
			run: func(t *testing.T, m *Match) {
				assert.ErrorIs(t, m.SetClue("b0", Clue{Word: "ocean", Count: 1}), ErrNotYourTurn)
			},
		},
		{
			name: "rejected from operatives",
			run: func(t *testing.T, m *Match) {
				assert.ErrorIs(t, m.SetClue("r1", Clue{Word: "ocean", Count: 1}), ErrNotYourRole)
			},
		},
		{
			name: "rejected from unknown players",
			run: func(t *testing.T, m *Match) {
				assert.ErrorIs(t, m.SetClue("ghost", Clue{Word: "ocean", Count: 1}), ErrNotInMatch)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newEngineMatch(t, TeamRed))
		})
	}
}

func TestMatch_ChooseCard(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T, m *Match)
	}{
		{
			name: "correct reveal keeps the turn",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				row, col := cell(0) // red card
				res, err := m.ChooseCard("r1", row, col)
				require.NoError(t, err)

				assert.True(t, res.Correct)
				assert.False(t, res.TurnEnded)
				assert.Equal(t, ColorRed, res.Color)
				assert.Equal(t, 8, m.RedRemaining)
				assert.Equal(t, 3, m.GuessesRemaining)
				assert.Equal(t, TeamRed, m.CurrentTeam)
				assert.True(t, m.Board[row][col].Revealed)
			},
		},
		{
			name: "turn ends automatically after count plus one correct reveals",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				for i := 0; i < 3; i++ {
					res, err := m.ChooseCard("r1", i/Cols, i%Cols)
					require.NoError(t, err)
					assert.False(t, res.TurnEnded)
				}
				res, err := choose(m, "r1", 3)
				require.NoError(t, err)
				assert.True(t, res.TurnEnded)
				assert.Equal(t, TeamBlue, m.CurrentTeam)
				assert.Equal(t, PhaseAwaitingClue, m.Phase)
				assert.Nil(t, m.Clue)
				assert.Equal(t, 5, m.RedRemaining)
			},
		},
		{
			name: "opponent card ends the turn and decrements their counter",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				res, err := choose(m, "r1", 9) // blue card
				require.NoError(t, err)

				assert.False(t, res.Correct)
				assert.True(t, res.TurnEnded)
				assert.Equal(t, ColorBlue, res.Color)
				assert.Equal(t, 7, m.BlueRemaining)
				assert.Equal(t, TeamBlue, m.CurrentTeam)
				assert.Empty(t, m.Winner)
			},
		},
		{
			name: "neutral card ends the turn without counter changes",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				res, err := choose(m, "r1", 20) // neutral card
				require.NoError(t, err)

				assert.False(t, res.Correct)
				assert.True(t, res.TurnEnded)
				assert.Equal(t, 9, m.RedRemaining)
				assert.Equal(t, 8, m.BlueRemaining)
				assert.Equal(t, TeamBlue, m.CurrentTeam)
			},
		},
		{
			name: "black card loses for the revealing team",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				res, err := choose(m, "r1", 17) // black card
				require.NoError(t, err)

				assert.Equal(t, TeamBlue, res.Winner)
				assert.Equal(t, TeamBlue, m.Winner)
				assert.Equal(t, PhaseWon, m.Phase)
				// no turn switch once the match is decided
				assert.False(t, res.TurnEnded)
				assert.Equal(t, TeamRed, m.CurrentTeam)
			},
		},
		{
			name: "last own card wins",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))
				m.RedRemaining = 1

				res, err := choose(m, "r1", 0)
				require.NoError(t, err)

				assert.Equal(t, TeamRed, res.Winner)
				assert.Equal(t, TeamRed, m.Winner)
				assert.Equal(t, PhaseWon, m.Phase)
			},
		},
		{
			name: "last opponent card wins for the opponent",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))
				m.BlueRemaining = 1

				res, err := choose(m, "r1", 9)
				require.NoError(t, err)

				assert.False(t, res.Correct)
				assert.Equal(t, TeamBlue, res.Winner)
				assert.Equal(t, TeamBlue, m.Winner)
			},
		},
		{
			name: "revealed card rejected before any mutation",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				_, err := choose(m, "r1", 0)
				require.NoError(t, err)

				_, err = choose(m, "r1", 0)
				assert.ErrorIs(t, err, ErrCardAlreadyRevealed)
				assert.Equal(t, 8, m.RedRemaining)
				assert.Equal(t, 3, m.GuessesRemaining)
			},
		},
		{
			name: "out of range rejected",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				_, err := m.ChooseCard("r1", Rows, 0)
				assert.ErrorIs(t, err, ErrCardOutOfRange)
				_, err = m.ChooseCard("r1", 0, -1)
				assert.ErrorIs(t, err, ErrCardOutOfRange)
			},
		},
		{
			name: "rejected without a clue",
			run: func(t *testing.T, m *Match) {
				_, err := choose(m, "r1", 0)
				assert.ErrorIs(t, err, ErrWrongPhase)
			},
		},
		{
			name: "rejected from the waiting team and from codemasters",
			run: func(t *testing.T, m *Match) {
				require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 3}))

				_, err := choose(m, "b1", 0)
				assert.ErrorIs(t, err, ErrNotYourTurn)
				_, err = choose(m, "r0", 0)
				assert.ErrorIs(t, err, ErrNotYourRole)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, newEngineMatch(t, TeamRed))
		})
	}
}

func TestMatch_EndTurnFromPlayer(t *testing.T) {
	m := newEngineMatch(t, TeamRed)

	// only meaningful while guessing
	assert.ErrorIs(t, m.EndTurnFromPlayer("r1"), ErrWrongPhase)

	require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 2}))

	assert.ErrorIs(t, m.EndTurnFromPlayer("b1"), ErrNotYourTurn)
	assert.ErrorIs(t, m.EndTurnFromPlayer("r0"), ErrNotYourRole)
	assert.ErrorIs(t, m.EndTurnFromPlayer("ghost"), ErrNotInMatch)

	require.NoError(t, m.EndTurnFromPlayer("r1"))
	assert.Equal(t, TeamBlue, m.CurrentTeam)
	assert.Equal(t, PhaseAwaitingClue, m.Phase)
	assert.Nil(t, m.Clue)
	assert.Equal(t, 0, m.GuessesRemaining)
}

func TestMatch_Restart(t *testing.T) {
	m := newEngineMatch(t, TeamRed)
	require.NoError(t, m.SetClue("r0", Clue{Word: "ocean", Count: 1}))
	_, err := choose(m, "r1", 17) // black, decides the match
	require.NoError(t, err)
	require.Equal(t, PhaseWon, m.Phase)

	require.NoError(t, m.Start(NewStaticSupply()))

	assert.Equal(t, PhaseAwaitingClue, m.Phase)
	assert.Empty(t, m.Winner)
	assert.Nil(t, m.Clue)
	assert.Equal(t, 1, m.BlackRemaining)
	assert.Len(t, m.Players(), 4)
	for row := range m.Board {
		for col := range m.Board[row] {
			assert.False(t, m.Board[row][col].Revealed)
		}
	}
}

func TestMatch_LoadPreset(t *testing.T) {
	m := newEngineMatch(t, TeamRed)
	m.LoadPreset()

	assert.Equal(t, presetStartingTeam, m.StartingTeam)
	assert.Equal(t, presetStartingTeam, m.CurrentTeam)
	assert.Equal(t, m.Board.CountColor(ColorRed), m.RedRemaining)
	assert.Equal(t, m.Board.CountColor(ColorBlue), m.BlueRemaining)
	assert.Equal(t, 1, m.BlackRemaining)
	assert.Equal(t, PhaseAwaitingClue, m.Phase)
}

func TestMatch_AppendChatBounded(t *testing.T) {
	m := newEngineMatch(t, TeamRed)
	for i := 0; i < chatLogLimit+10; i++ {
		m.AppendChat("Alice", fmt.Sprintf("msg %d", i))
	}
	assert.Len(t, m.Chat, chatLogLimit)
	assert.Equal(t, fmt.Sprintf("msg %d", chatLogLimit+9), m.Chat[len(m.Chat)-1].Text)
}
