package game

const (
	// Rows and Cols give the fixed board dimensions.
	Rows = 5
	Cols = 5
	// Size is the total number of cards on a board.
	Size = Rows * Cols
)

// Card color distribution for a fresh board.
const (
	StartingTeamCards = 9
	OtherTeamCards    = 8
	BlackCards        = 1
	NeutralCards      = Size - StartingTeamCards - OtherTeamCards - BlackCards
)

// Team is one of the two playing sides.
type Team string

const (
	TeamRed  Team = "RED"
	TeamBlue Team = "BLUE"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Color returns the card color owned by the team.
func (t Team) Color() Color {
	if t == TeamRed {
		return ColorRed
	}
	return ColorBlue
}

// Color is a card affiliation. ColorUnknown never appears on the
// authoritative board; it exists only in projected operative views.
type Color string

const (
	ColorRed     Color = "RED"
	ColorBlue    Color = "BLUE"
	ColorBlack   Color = "BLACK"
	ColorNeutral Color = "NEUTRAL"
	ColorUnknown Color = "UNKNOWN"
)

// Card is one cell of the board. Word and Color are fixed once the board
// is generated; Revealed only ever flips false -> true.
type Card struct {
	Word     string `json:"word"`
	Color    Color  `json:"color"`
	Revealed bool   `json:"revealed"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

// Board is the full 5x5 grid. It is a value type so projections and
// snapshots are plain copies of the single authoritative instance.
type Board [Rows][Cols]Card

// InBounds reports whether (row, col) addresses a cell.
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// CountColor returns how many cards of the given color are on the board.
func (b *Board) CountColor(c Color) int {
	n := 0
	for row := range b {
		for col := range b[row] {
			if b[row][col].Color == c {
				n++
			}
		}
	}
	return n
}
