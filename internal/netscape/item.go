package netscape

import "github.com/PuerkitoBio/goquery"

// Kind identifies which variant an Item holds.
type Kind int

const (
	// KindShortcut is a Bookmark.
	KindShortcut Kind = iota
	// KindSubfolder is a Folder.
	KindSubfolder
)

func (k Kind) String() string {
	switch k {
	case KindShortcut:
		return "shortcut"
	case KindSubfolder:
		return "subfolder"
	default:
		return "unknown"
	}
}

// Item is either a Bookmark (shortcut) or a Folder (subfolder). The set of
// implementations is closed: feeds and web slices are not modelled.
type Item interface {
	Kind() Kind
	item()
}

// ItemFromNode maps any node found inside a folder body. Bookmarks are tried
// first, then folders; anything else (whitespace, <p> hints) is skipped.
func ItemFromNode(s *goquery.Selection) (Item, bool) {
	if b, ok := BookmarkFromNode(s); ok {
		return b, true
	}
	if f, ok := FolderFromNode(s); ok {
		return f, true
	}
	return nil, false
}

// AsShortcut returns the Bookmark held by it, if any.
func AsShortcut(it Item) (Bookmark, bool) {
	b, ok := it.(Bookmark)
	return b, ok
}

// AsSubfolder returns the Folder held by it, if any.
func AsSubfolder(it Item) (Folder, bool) {
	f, ok := it.(Folder)
	return f, ok
}

// ItemEqual compares variants first; a Bookmark never equals a Folder even if
// the fields they share happen to match.
func ItemEqual(a, b Item) bool {
	switch x := a.(type) {
	case Bookmark:
		y, ok := b.(Bookmark)
		return ok && x.Equal(y)
	case Folder:
		y, ok := b.(Folder)
		return ok && x.Equal(y)
	default:
		return a == nil && b == nil
	}
}

// Items is an ordered list of items. Order mirrors the outline of the source
// document and is kept through every transformation.
type Items []Item

// Equal reports whether both lists hold equal items in the same order.
func (s Items) Equal(other Items) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !ItemEqual(s[i], other[i]) {
			return false
		}
	}
	return true
}

// itemsFromDL dispatches every child of a definition list and keeps the ones
// that map to an item.
func itemsFromDL(dl *goquery.Selection) Items {
	items := Items{}
	for _, child := range children(dl) {
		if it, ok := ItemFromNode(child); ok {
			items = append(items, it)
		}
	}
	return items
}
