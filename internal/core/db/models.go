package db

// StoredDocument is the summary row of an imported bookmark file.
type StoredDocument struct {
	ID      int64
	Title   string
	Heading string
	// Source is the file name the document was imported from.
	Source string
	// ImportedAt is stored in the DB as RFC3339 text.
	ImportedAt string
	// Bookmarks counts the shortcuts anywhere in the tree.
	Bookmarks int
}

// Bookmark is a stored shortcut together with its archive state.
type Bookmark struct {
	ID         int64
	DocumentID int64
	URL        string
	Title      string
	IconURI    string
	// ArchiveStatus is "", "ok" or "error".
	ArchiveStatus string
	ArchivedAt    string
	ArchiveError  string
}

type BookmarkArchive struct {
	BookmarkID         int64
	ArchivedURL        string
	ArchivedHTML       string
	ArchiveAttemptedAt string
	ArchivedAt         string
	ArchiveStatus      string
	ArchiveError       string
}
