package netscape

// Shortcuts collects every bookmark nested anywhere in s, in document order.
func (s Items) Shortcuts() []Bookmark {
	var all []Bookmark
	for _, it := range s {
		switch v := it.(type) {
		case Bookmark:
			all = append(all, v)
		case Folder:
			all = append(all, v.Children.Shortcuts()...)
		}
	}
	return all
}

// Subfolders collects every folder nested anywhere in s. A folder comes before
// its own descendants.
func (s Items) Subfolders() []Folder {
	var all []Folder
	for _, it := range s {
		if f, ok := it.(Folder); ok {
			all = append(all, f)
			all = append(all, f.Children.Subfolders()...)
		}
	}
	return all
}

// MapShortcuts returns a copy of the tree where every bookmark has been
// replaced by fn(bookmark). Folders and order are preserved; s is not modified.
func (s Items) MapShortcuts(fn func(Bookmark) Bookmark) Items {
	out := make(Items, 0, len(s))
	for _, it := range s {
		switch v := it.(type) {
		case Bookmark:
			out = append(out, fn(v))
		case Folder:
			v.Children = v.Children.MapShortcuts(fn)
			out = append(out, v)
		}
	}
	return out
}

// depth returns the number of folder levels below s.
func (s Items) depth() int {
	deepest := 0
	for _, it := range s {
		if f, ok := it.(Folder); ok {
			deepest = max(deepest, 1+f.Children.depth())
		}
	}
	return deepest
}

// Bookmarks returns every bookmark of the document.
func (d Document) Bookmarks() []Bookmark {
	return d.Children.Shortcuts()
}

// Folders returns every folder of the document.
func (d Document) Folders() []Folder {
	return d.Children.Subfolders()
}

// Stats summarises the shape of a document.
type Stats struct {
	Bookmarks int `json:"bookmarks"`
	Folders   int `json:"folders"`
	// MaxDepth is the deepest folder nesting; 0 when there are no folders.
	MaxDepth int `json:"max_depth"`
}

func (d Document) Stats() Stats {
	return Stats{
		Bookmarks: len(d.Bookmarks()),
		Folders:   len(d.Folders()),
		MaxDepth:  d.Children.depth(),
	}
}
