package netscape

import "github.com/PuerkitoBio/goquery"

// Bookmark is a shortcut: an <A> anchor inside a <DT>.
//
// Timestamps are kept as the opaque tokens found in the file. Icons are not
// part of a bookmark's identity and are ignored by Equal.
type Bookmark struct {
	Href         string `json:"href"`
	Title        string `json:"title"`
	AddDate      string `json:"add_date"`
	LastVisit    string `json:"last_visit"`
	LastModified string `json:"last_modified"`
	IconURI      string `json:"icon_uri"`
	Icon         string `json:"icon"`
}

func (Bookmark) Kind() Kind { return KindShortcut }
func (Bookmark) item()      {}

// Equal compares href, dates and title.
func (b Bookmark) Equal(other Bookmark) bool {
	return b.Href == other.Href &&
		b.AddDate == other.AddDate &&
		b.LastVisit == other.LastVisit &&
		b.LastModified == other.LastModified &&
		b.Title == other.Title
}

// BookmarkFromNode builds a Bookmark from an <A> element, or from a <DT>
// wrapping one. Any other node yields false.
func BookmarkFromNode(s *goquery.Selection) (Bookmark, bool) {
	if isElement(s, "DT") {
		a, ok := firstChildElement(s, "A")
		if !ok {
			return Bookmark{}, false
		}
		return BookmarkFromNode(a)
	}
	if !isElement(s, "A") {
		return Bookmark{}, false
	}

	return Bookmark{
		Href:         attributeValue(s, "HREF"),
		Title:        textContent(s),
		AddDate:      attributeValue(s, "ADD_DATE"),
		LastVisit:    attributeValue(s, "LAST_VISIT"),
		LastModified: attributeValue(s, "LAST_MODIFIED"),
		IconURI:      attributeValue(s, "ICON_URI"),
		Icon:         attributeValue(s, "ICON"),
	}, true
}
