package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/agentstation/riftsync/pkg/errors"
)

// GroupKey identifies an output group. Missing subset fields read as "".
type GroupKey struct {
	SubsetID string
	Label    string
}

// Group is one entry of the grouped snapshot: the cards of one subset,
// sorted by composite key.
type Group struct {
	SubsetID string `json:"subset_id" yaml:"subset_id"`
	Label    string `json:"label" yaml:"label"`
	Cards    []Card `json:"cards" yaml:"cards"`
}

// sortable pairs a card with everything needed to order it. The encoding
// is only computed when two cards tie on key and identifier.
type sortable struct {
	card Card
	key  Key
	id   string
	enc  []byte
}

func (s *sortable) encoding() ([]byte, error) {
	if s.enc != nil {
		return s.enc, nil
	}
	enc, err := json.Marshal(s.card)
	if err != nil {
		return nil, fmt.Errorf("encode card %q: %w", s.id, err)
	}
	s.enc = enc
	return enc, nil
}

// GroupBySubset groups cards by (subset_id, label), sorts each group by
// composite key, and orders groups by subset_id then label. The result is a
// pure function of the card multiset: any permutation of the input yields the
// same groups in the same order. Cards with equal key and identifier are
// ordered by their JSON encoding, and an error is returned if one of them
// cannot be encoded.
func GroupBySubset(cs []Card) ([]Group, error) {
	var (
		order   []GroupKey
		buckets = make(map[GroupKey][]*sortable)
		encErr  error
	)
	for _, c := range cs {
		gk := c.GroupKey()
		if _, seen := buckets[gk]; !seen {
			order = append(order, gk)
		}
		id := c.Identifier()
		buckets[gk] = append(buckets[gk], &sortable{card: c, key: ParseKey(id), id: id})
	}

	compare := func(a, b *sortable) int {
		if c := a.key.Compare(b.key); c != 0 {
			return c
		}
		if c := strings.Compare(a.id, b.id); c != 0 {
			return c
		}
		ae, aerr := a.encoding()
		be, berr := b.encoding()
		if err := errors.Join(aerr, berr); err != nil {
			if encErr == nil {
				encErr = err
			}
			return 0
		}
		return bytes.Compare(ae, be)
	}

	slices.SortStableFunc(order, func(a, b GroupKey) int {
		if c := strings.Compare(a.SubsetID, b.SubsetID); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})

	groups := make([]Group, 0, len(order))
	for _, gk := range order {
		entries := buckets[gk]
		slices.SortStableFunc(entries, compare)

		sorted := make([]Card, len(entries))
		for i, e := range entries {
			sorted[i] = e.card
		}
		groups = append(groups, Group{SubsetID: gk.SubsetID, Label: gk.Label, Cards: sorted})
	}
	if encErr != nil {
		return nil, encErr
	}
	return groups, nil
}

// Flatten returns the cards of all groups in group order.
func Flatten(groups []Group) []Card {
	var out []Card
	for _, g := range groups {
		out = append(out, g.Cards...)
	}
	return out
}

// Serialize groups and encodes cards in the snapshot text format: a JSON array
// of groups, two-space indented, non-ASCII escaped as \uXXXX, newline
// terminated. Identical card sets always produce identical bytes.
func Serialize(cs []Card) ([]byte, error) {
	groups, err := GroupBySubset(cs)
	if err != nil {
		return nil, err
	}
	return Encode(groups)
}

// Encode writes already-grouped cards in the snapshot text format.
func Encode(groups []Group) ([]byte, error) {
	if groups == nil {
		groups = []Group{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(groups); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return escapeNonASCII(buf.Bytes()), nil
}

// escapeNonASCII rewrites every non-ASCII rune as a JSON \u escape. Such runes
// can only occur inside string literals, so a byte-level pass is safe.
func escapeNonASCII(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		if b[0] < utf8.RuneSelf {
			out = append(out, b[0])
			b = b[1:]
			continue
		}
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}
