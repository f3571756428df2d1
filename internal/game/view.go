package game

// ProjectBoard derives the board a role is allowed to see. Codemasters get
// the full truth; operatives get ColorUnknown for every unrevealed card.
// The projection is computed fresh from the authoritative board on every
// call; there is no second board copy to keep in sync.
func ProjectBoard(b Board, role Role) Board {
	if role == RoleCodemaster {
		return b
	}
	for row := range b {
		for col := range b[row] {
			if !b[row][col].Revealed {
				b[row][col].Color = ColorUnknown
			}
		}
	}
	return b
}

// StateFor builds the match state broadcast to everyone holding the given
// role. Per-player fields (team, role, id) travel in the match_joined ack,
// so the state itself is purely role-keyed.
func (m *Match) StateFor(role Role) MatchState {
	players := make([]Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, *p)
	}
	return MatchState{
		MatchID:          m.ID,
		Phase:            m.Phase,
		StartingTeam:     m.StartingTeam,
		CurrentTeam:      m.CurrentTeam,
		Clue:             m.Clue,
		GuessesRemaining: m.GuessesRemaining,
		RedRemaining:     m.RedRemaining,
		BlueRemaining:    m.BlueRemaining,
		Winner:           m.Winner,
		Players:          players,
		Board:            ProjectBoard(m.Board, role),
	}
}
