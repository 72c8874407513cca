package session

import "github.com/abhisek/stackprep/internal/bank"

// Deck is a flashcard list with a cursor and at most one open card.
type Deck struct {
	cards   []*bank.Question
	cursor  int
	open    int
	shuffle Shuffler
}

// NewDeck creates a deck over cards in the given order.
func NewDeck(cards []*bank.Question, shuffle Shuffler) *Deck {
	if shuffle == nil {
		shuffle = bank.ShuffleQuestions
	}
	cs := make([]*bank.Question, len(cards))
	copy(cs, cards)
	return &Deck{cards: cs, open: -1, shuffle: shuffle}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns the cards in deck order.
func (d *Deck) Cards() []*bank.Question {
	out := make([]*bank.Question, len(d.cards))
	copy(out, d.cards)
	return out
}

// Cursor returns the index of the highlighted card.
func (d *Deck) Cursor() int { return d.cursor }

// Current returns the highlighted card, nil for an empty deck.
func (d *Deck) Current() *bank.Question {
	if len(d.cards) == 0 {
		return nil
	}
	return d.cards[d.cursor]
}

// IsOpen reports whether card i shows its answer.
func (d *Deck) IsOpen(i int) bool { return d.open >= 0 && d.open == i }

// Toggle opens the highlighted card, closing any other, or closes it if
// it is already open.
func (d *Deck) Toggle() {
	if len(d.cards) == 0 {
		return
	}
	if d.open == d.cursor {
		d.open = -1
		return
	}
	d.open = d.cursor
}

// Next moves the cursor down, clamped at the last card.
func (d *Deck) Next() bool {
	if d.cursor >= len(d.cards)-1 {
		return false
	}
	d.cursor++
	return true
}

// Prev moves the cursor up, clamped at the first card.
func (d *Deck) Prev() bool {
	if d.cursor == 0 {
		return false
	}
	d.cursor--
	return true
}

// Shuffle reorders the deck, closes the open card and resets the cursor.
func (d *Deck) Shuffle() {
	d.cards = d.shuffle(d.cards)
	d.cursor = 0
	d.open = -1
}
