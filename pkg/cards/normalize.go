package cards

import "github.com/agentstation/riftsync/internal/utils/ptr"

// Normalize projects a raw catalog document into the canonical Card shape.
// Absent or non-object groups read as empty, leaves of the wrong type become
// nil, and list fields are never nil. It has no failure mode.
//
// Normalize is idempotent: normalizing the encoded form of a Card yields the
// same Card.
func Normalize(raw Document) Card {
	attributes := raw.Doc("attributes")
	classification := raw.Doc("classification")
	text := raw.Doc("text")
	subset := raw.Doc("subset")
	media := raw.Doc("media")
	metadata := raw.Doc("metadata")

	return Card{
		Name:            raw.String("name"),
		ID:              nonEmpty(raw.String("identifier")),
		PublicCode:      raw.String("public_code"),
		MarketID:        raw.Scalar("market_id"),
		CollectorNumber: raw.Scalar("collector_number"),
		Attributes: Attributes{
			Energy:   attributes.Scalar("energy"),
			Power:    attributes.Scalar("power"),
			Strength: attributes.Scalar("strength"),
		},
		Classification: Classification{
			Type:      classification.String("type"),
			Supertype: classification.String("supertype"),
			Rarity:    classification.String("rarity"),
			Domains:   classification.Strings("domains"),
		},
		Text: Text{
			Rich:  text.String("rich"),
			Plain: text.String("plain"),
		},
		Subset: Subset{
			SubsetID: subset.String("subset_id"),
			Label:    subset.String("label"),
		},
		Media: Media{
			AssetURL:          media.String("asset_url"),
			Creator:           media.String("creator"),
			AccessibilityText: media.String("accessibility_text"),
		},
		Tags:        raw.Strings("tags"),
		Orientation: raw.String("orientation"),
		Metadata: Metadata{
			CleanName:    metadata.String("clean_name"),
			AlternateArt: metadata.Bool("alternate_art"),
			Overnumbered: metadata.Bool("overnumbered"),
			Signature:    metadata.Bool("signature"),
		},
	}
}

// NormalizeAll normalizes every document in order.
func NormalizeAll(raw []Document) []Card {
	out := make([]Card, 0, len(raw))
	for _, d := range raw {
		out = append(out, Normalize(d))
	}
	return out
}

// nonEmpty treats an empty identifier like a missing one.
func nonEmpty(s *string) *string {
	return ptr.NonZero(ptr.Deref(s))
}
