package netscape

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrAmbiguousItem is returned when a JSON object has neither the folder nor
// the bookmark field set.
var ErrAmbiguousItem = errors.New("item is neither a bookmark nor a folder")

// MarshalJSON writes the items as a plain array of their inner objects. There
// is no discriminant; the field set tells a folder from a bookmark. A nil list
// is written as [].
func (s Items) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Item(s))
}

// UnmarshalJSON recovers each variant from the shape of its object: one with
// "children" is a Folder, one with "href" is a Bookmark.
func (s *Items) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	items := make(Items, 0, len(raw))
	for i, elem := range raw {
		it, err := decodeItem(elem)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, it)
	}
	*s = items
	return nil
}

func decodeItem(data []byte) (Item, error) {
	switch {
	case gjson.GetBytes(data, "children").Exists():
		var f Folder
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return f, nil
	case gjson.GetBytes(data, "href").Exists():
		var b Bookmark
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, ErrAmbiguousItem
	}
}

// JSON returns the compact JSON projection of the document.
func (d Document) JSON() ([]byte, error) {
	return json.Marshal(d)
}

// JSONIndent returns the JSON projection with each element on its own line.
func (d Document) JSONIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(d, prefix, indent)
}
