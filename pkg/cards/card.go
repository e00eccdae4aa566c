// Package cards defines the canonical card record, the defensive normalizer
// that projects raw catalog documents into it, the composite sort key parsed
// from card identifiers, and the grouped, deterministic snapshot encoding.
package cards

import "github.com/agentstation/riftsync/internal/utils/ptr"

// Card is the canonical projection of one catalog item. Every field is always
// present in encoded output; absence is an explicit null.
type Card struct {
	Name            *string        `json:"name" yaml:"name"`
	ID              *string        `json:"identifier" yaml:"identifier"`
	PublicCode      *string        `json:"public_code" yaml:"public_code"`
	MarketID        any            `json:"market_id" yaml:"market_id"`
	CollectorNumber any            `json:"collector_number" yaml:"collector_number"`
	Attributes      Attributes     `json:"attributes" yaml:"attributes"`
	Classification  Classification `json:"classification" yaml:"classification"`
	Text            Text           `json:"text" yaml:"text"`
	Subset          Subset         `json:"subset" yaml:"subset"`
	Media           Media          `json:"media" yaml:"media"`
	Tags            []string       `json:"tags" yaml:"tags"`
	Orientation     *string        `json:"orientation" yaml:"orientation"`
	Metadata        Metadata       `json:"metadata" yaml:"metadata"`
}

// Attributes holds the numeric (or occasionally string) game stats.
// Values are int64, float64, string or nil.
type Attributes struct {
	Energy   any `json:"energy" yaml:"energy"`
	Power    any `json:"power" yaml:"power"`
	Strength any `json:"strength" yaml:"strength"`
}

// Classification describes what kind of card this is.
type Classification struct {
	Type      *string  `json:"type" yaml:"type"`
	Supertype *string  `json:"supertype" yaml:"supertype"`
	Rarity    *string  `json:"rarity" yaml:"rarity"`
	Domains   []string `json:"domains" yaml:"domains"`
}

// Text holds the display strings of the card.
type Text struct {
	Rich  *string `json:"rich" yaml:"rich"`
	Plain *string `json:"plain" yaml:"plain"`
}

// Subset is the catalog grouping (release batch) a card belongs to.
type Subset struct {
	SubsetID *string `json:"subset_id" yaml:"subset_id"`
	Label    *string `json:"label" yaml:"label"`
}

// Media points at the card artwork.
type Media struct {
	AssetURL          *string `json:"asset_url" yaml:"asset_url"`
	Creator           *string `json:"creator" yaml:"creator"`
	AccessibilityText *string `json:"accessibility_text" yaml:"accessibility_text"`
}

// Metadata carries variant flags.
type Metadata struct {
	CleanName    *string `json:"clean_name" yaml:"clean_name"`
	AlternateArt *bool   `json:"alternate_art" yaml:"alternate_art"`
	Overnumbered *bool   `json:"overnumbered" yaml:"overnumbered"`
	Signature    *bool   `json:"signature" yaml:"signature"`
}

// Identifier returns the card identifier, or "" when it is absent.
// Cards with an empty identifier are excluded from keyed operations.
func (c Card) Identifier() string {
	return deref(c.ID)
}

// AssetURL returns the artwork URL, or "" when it is absent.
func (c Card) AssetURL() string {
	return deref(c.Media.AssetURL)
}

// GroupKey returns the subset pair used to group this card for output.
func (c Card) GroupKey() GroupKey {
	return GroupKey{SubsetID: deref(c.Subset.SubsetID), Label: deref(c.Subset.Label)}
}

// IDs returns the set of non-empty identifiers in cards.
func IDs(cs []Card) map[string]struct{} {
	ids := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if id := c.Identifier(); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func deref(s *string) string {
	return ptr.Deref(s)
}
