package domain

import (
	"fmt"
	"strings"
)

const cardImageBaseURL = "https://www.trustedtarot.com/img/cards/"

// CardImageURL returns the deterministic image location for a card name:
// lowercased, whitespace collapsed to hyphens, under a fixed base URL.
func CardImageURL(name string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return cardImageBaseURL + slug + ".png"
}

// Draw picks the card at index from deck with a 50/50 orientation roll.
// The roll happens here, once, and is never repeated for that draw.
func Draw(deck []string, index int, rng RNG) (DrawnCard, error) {
	if index < 0 || index >= len(deck) {
		return DrawnCard{}, ErrInvalidCardIndex
	}
	return DrawnCard{
		Name:     deck[index],
		Reversed: rng.Intn(2) == 1,
	}, nil
}

// DrawRandom picks a uniformly random card from deck, used for the card
// of the day.
func DrawRandom(deck []string, rng RNG) DrawnCard {
	return DrawnCard{
		Name:     deck[rng.Intn(len(deck))],
		Reversed: rng.Intn(2) == 1,
	}
}

// FreestylePositions synthesizes sequential positions for a freestyle
// draw of n cards.
func FreestylePositions(n int) []Position {
	positions := make([]Position, n)
	for i := range n {
		positions[i] = Position{
			Meaning:     fmt.Sprintf("Lá bài %d", i+1),
			Description: "Diễn giải cho lá bài này trong bối cảnh chung của lượt giải.",
		}
	}
	return positions
}

// ResolvePositions returns the position list matching a draw of n cards:
// the spread's own positions for fixed spreads, synthesized ones for
// freestyle.
func ResolvePositions(spread Spread, n int) []Position {
	if spread.Freestyle() {
		return FreestylePositions(n)
	}
	return spread.Positions
}
