package web

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/seckatie/bookmarkt/internal/netscape"
)

// treeNode is one entry of the document tree as the templates see it.
type treeNode struct {
	Folder   bool
	Title    string
	Href     string
	Link     string // Href when a browser can follow it, else ""
	Icon     template.URL
	Folded   bool
	Toolbar  bool
	Children []treeNode
}

type bookmarkView struct {
	ID            int64
	URL           string
	Link          string
	Title         string
	ArchiveStatus string // "", "ok", "error"
	ArchivedAt    string
	ArchiveError  string
}

// buildTree converts items for the recursive "tree" template.
func buildTree(items netscape.Items) []treeNode {
	nodes := make([]treeNode, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case netscape.Bookmark:
			nodes = append(nodes, treeNode{
				Title: v.Title,
				Href:  v.Href,
				Link:  linkURL(v.Href),
				Icon:  iconURL(v.Icon),
			})
		case netscape.Folder:
			nodes = append(nodes, treeNode{
				Folder:   true,
				Title:    v.Title,
				Folded:   v.Folded,
				Toolbar:  v.PersonalToolbarFolder,
				Children: buildTree(v.Children),
			})
		}
	}
	return nodes
}

// iconURL passes embedded images through html/template's URL filter, which
// would otherwise replace every data: URI. Anything else is dropped.
func iconURL(icon string) template.URL {
	if strings.HasPrefix(icon, "data:image/") {
		return template.URL(icon)
	}
	return ""
}

// linkURL keeps http(s) hrefs. Exports also hold place: queries and
// bookmarklets, which are shown as text instead.
func linkURL(href string) string {
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return href
}
