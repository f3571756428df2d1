package game

// presetCards is a fixed, non-random board layout used for deterministic
// demos and tests. Row-major order.
var presetCards = [Size]struct {
	word  string
	color Color
}{
	{"Leprechaun", ColorNeutral}, {"Sniper", ColorRed}, {"Volcano", ColorRed}, {"Undertaker", ColorNeutral}, {"Antarctica", ColorBlue},
	{"Pumpkin", ColorNeutral}, {"Telescope", ColorNeutral}, {"Alien", ColorBlack}, {"Greece", ColorRed}, {"Box", ColorNeutral},
	{"Dessert", ColorBlue}, {"Winter", ColorBlue}, {"Sky", ColorNeutral}, {"Apple", ColorBlue}, {"Eye", ColorRed},
	{"Fork", ColorRed}, {"Motorcycle", ColorNeutral}, {"Dinosaur", ColorBlue}, {"Nurse", ColorNeutral}, {"Doctor", ColorRed},
	{"Plate", ColorNeutral}, {"Space", ColorBlue}, {"Happy", ColorNeutral}, {"Jester", ColorNeutral}, {"Riddle", ColorBlue},
}

// presetStartingTeam: blue holds the larger card count on the fixture.
const presetStartingTeam = TeamBlue

// PresetBoard returns a copy of the fixed fixture board, all unrevealed.
func PresetBoard() Board {
	var b Board
	i := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			b[row][col] = Card{
				Word:  presetCards[i].word,
				Color: presetCards[i].color,
				Row:   row,
				Col:   col,
			}
			i++
		}
	}
	return b
}
