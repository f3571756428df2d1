package game

const (
	// TeamSize is the number of slots per team; slot CodemasterSlot is
	// reserved for the codemaster, the rest are operatives.
	TeamSize       = 4
	CodemasterSlot = 0

	// MaxPlayers caps the lobby roster.
	MaxPlayers = 8
)

// Lobby is the pre-match phase of a session: two slot arrays, per-slot
// ready flags and a roster of everyone who has taken a seat.
type Lobby struct {
	ID   string
	Name string

	red  [TeamSize]*Player
	blue [TeamSize]*Player

	redReady  [TeamSize]bool
	blueReady [TeamSize]bool

	roster     map[string]*Player
	inProgress bool
}

func NewLobby(id, name string) *Lobby {
	return &Lobby{
		ID:     id,
		Name:   name,
		roster: make(map[string]*Player),
	}
}

// InsertPlayerIntoSlot seats a player at (team, index). The player is first
// vacated from any slot they already hold, so a player can never occupy two
// slots; a prior occupant of the target slot is silently evicted (they stay
// in the roster but lose the seat).
func (l *Lobby) InsertPlayerIntoSlot(p *Player, team Team, index int) error {
	if index < 0 || index >= TeamSize {
		return ErrSlotOutOfRange
	}
	if _, known := l.roster[p.ID]; !known && len(l.roster) >= MaxPlayers {
		return ErrSessionFull
	}

	l.vacate(p.ID)

	if evicted := l.slot(team, index); evicted != nil {
		evicted.Team = ""
	}

	p.Team = team
	if team == TeamRed {
		l.red[index] = p
	} else {
		l.blue[index] = p
	}
	l.roster[p.ID] = p
	return nil
}

// RemovePlayer drops the player from both teams and the roster, clearing
// the ready flag of the vacated slot. Safe to call for unknown ids.
func (l *Lobby) RemovePlayer(id string) {
	l.vacate(id)
	delete(l.roster, id)
}

// ToggleReady flips the ready flag of a slot. Ready flags are independent
// of slot contents; toggling an empty slot is allowed and has no effect on
// the game.
func (l *Lobby) ToggleReady(team Team, index int) error {
	if index < 0 || index >= TeamSize {
		return ErrSlotOutOfRange
	}
	if team == TeamRed {
		l.redReady[index] = !l.redReady[index]
	} else {
		l.blueReady[index] = !l.blueReady[index]
	}
	return nil
}

// Reset clears slots, ready flags and roster, returning the lobby to the
// forming state.
func (l *Lobby) Reset() {
	l.red = [TeamSize]*Player{}
	l.blue = [TeamSize]*Player{}
	l.redReady = [TeamSize]bool{}
	l.blueReady = [TeamSize]bool{}
	l.roster = make(map[string]*Player)
	l.inProgress = false
}

// SlotOf reports which slot, if any, a player occupies.
func (l *Lobby) SlotOf(id string) (Team, int, bool) {
	for i, p := range l.red {
		if p != nil && p.ID == id {
			return TeamRed, i, true
		}
	}
	for i, p := range l.blue {
		if p != nil && p.ID == id {
			return TeamBlue, i, true
		}
	}
	return "", 0, false
}

// Seated returns all players currently holding a slot.
func (l *Lobby) Seated() []*Player {
	var out []*Player
	for _, p := range l.red {
		if p != nil {
			out = append(out, p)
		}
	}
	for _, p := range l.blue {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (l *Lobby) RosterSize() int { return len(l.roster) }

func (l *Lobby) InProgress() bool { return l.inProgress }

func (l *Lobby) SetInProgress(v bool) { l.inProgress = v }

func (l *Lobby) slot(team Team, index int) *Player {
	if team == TeamRed {
		return l.red[index]
	}
	return l.blue[index]
}

func (l *Lobby) vacate(id string) {
	for i, p := range l.red {
		if p != nil && p.ID == id {
			p.Team = ""
			l.red[i] = nil
			l.redReady[i] = false
		}
	}
	for i, p := range l.blue {
		if p != nil && p.ID == id {
			p.Team = ""
			l.blue[i] = nil
			l.blueReady[i] = false
		}
	}
}

// State builds the lobby view broadcast to the whole session room.
func (l *Lobby) State() LobbyState {
	toSlots := func(team [TeamSize]*Player, ready [TeamSize]bool) []LobbySlot {
		out := make([]LobbySlot, TeamSize)
		for i := range team {
			out[i] = LobbySlot{Index: i, Ready: ready[i]}
			if team[i] != nil {
				out[i].Player = &LobbyPlayer{ID: team[i].ID, Name: team[i].Name}
			}
		}
		return out
	}
	return LobbyState{
		SessionID:  l.ID,
		Name:       l.Name,
		MaxPlayers: MaxPlayers,
		RedTeam:    toSlots(l.red, l.redReady),
		BlueTeam:   toSlots(l.blue, l.blueReady),
		InProgress: l.inProgress,
	}
}
