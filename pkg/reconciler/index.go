package reconciler

import "github.com/agentstation/riftsync/pkg/cards"

// index is an identifier-deduplicated view of a card sequence. A repeated
// identifier keeps the first occurrence's position and the last occurrence's
// value. Cards without an identifier are kept in place and never indexed.
type index struct {
	cards      []cards.Card
	positions  map[string]int
	duplicates int
}

func newIndex(in []cards.Card) *index {
	idx := &index{
		cards:     make([]cards.Card, 0, len(in)),
		positions: make(map[string]int, len(in)),
	}
	for _, c := range in {
		id := c.Identifier()
		if id == "" {
			idx.cards = append(idx.cards, c)
			continue
		}
		if pos, ok := idx.positions[id]; ok {
			idx.cards[pos] = c
			idx.duplicates++
			continue
		}
		idx.positions[id] = len(idx.cards)
		idx.cards = append(idx.cards, c)
	}
	return idx
}

func (idx *index) lookup(id string) (cards.Card, bool) {
	pos, ok := idx.positions[id]
	if !ok {
		return cards.Card{}, false
	}
	return idx.cards[pos], true
}
