package game

import (
	"fmt"
	"math/rand/v2"
)

// RandomStartingTeam picks the first team with a 50/50 chance.
func RandomStartingTeam() Team {
	if rand.IntN(2) == 0 {
		return TeamRed
	}
	return TeamBlue
}

// GenerateBoard produces a fully specified secret board: 25 words drawn
// from the supply (in supply order), colors placed at random positions with
// exactly 9 cards for the starting team, 8 for the other, 1 black and 7
// neutral. All cards start unrevealed.
func GenerateBoard(starting Team, supply WordSupply) (Board, error) {
	words, err := supply.Draw(Size)
	if err != nil {
		return Board{}, fmt.Errorf("draw words: %w", err)
	}

	var b Board
	i := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			b[row][col] = Card{
				Word:  words[i],
				Color: ColorNeutral,
				Row:   row,
				Col:   col,
			}
			i++
		}
	}

	placeColor(&b, starting.Color(), StartingTeamCards)
	placeColor(&b, starting.Opponent().Color(), OtherTeamCards)
	placeColor(&b, ColorBlack, BlackCards)

	return b, nil
}

// placeColor assigns n cards of the given color by rejection sampling:
// keep picking a random cell until one is still neutral.
func placeColor(b *Board, c Color, n int) {
	for n > 0 {
		row := rand.IntN(Rows)
		col := rand.IntN(Cols)
		if b[row][col].Color == ColorNeutral {
			b[row][col].Color = c
			n--
		}
	}
}
