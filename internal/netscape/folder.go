package netscape

import "github.com/PuerkitoBio/goquery"

// Folder is a subfolder: an <H3> heading whose contents live in the <DL> that
// follows it as a sibling.
type Folder struct {
	Title                  string `json:"title"`
	Folded                 bool   `json:"folded"`
	AddDate                string `json:"add_date"`
	LastModified           string `json:"last_modified"`
	PersonalToolbarFolder  bool   `json:"personal_toolbar_folder"`
	UnfiledBookmarksFolder bool   `json:"unfiled_bookmarks_folder"`
	Children               Items  `json:"children"`
}

func (Folder) Kind() Kind { return KindSubfolder }
func (Folder) item()      {}

// Equal compares title, creation date and children. Display flags and the
// modification date are not part of a folder's identity.
func (f Folder) Equal(other Folder) bool {
	return f.Title == other.Title &&
		f.AddDate == other.AddDate &&
		f.Children.Equal(other.Children)
}

// FolderFromNode builds a Folder from an <H3> element, or from a <DT> wrapping
// one, recursing into the heading's sibling <DL>. Any other node yields false.
func FolderFromNode(s *goquery.Selection) (Folder, bool) {
	if isElement(s, "DT") {
		h3, ok := firstChildElement(s, "H3")
		if !ok {
			return Folder{}, false
		}
		return FolderFromNode(h3)
	}
	if !isElement(s, "H3") {
		return Folder{}, false
	}

	folder := Folder{
		Title:                  textContent(s),
		Folded:                 hasAttribute(s, "FOLDED"),
		AddDate:                attributeValue(s, "ADD_DATE"),
		LastModified:           attributeValue(s, "LAST_MODIFIED"),
		PersonalToolbarFolder:  hasAttribute(s, "PERSONAL_TOOLBAR_FOLDER"),
		UnfiledBookmarksFolder: hasAttribute(s, "UNFILED_BOOKMARKS_FOLDER"),
		Children:               Items{},
	}

	// The body list is a sibling of the heading, not a child.
	if dl, ok := firstFollowingSibling(s, "DL"); ok {
		folder.Children = itemsFromDL(dl)
	}

	return folder, true
}
