// Package netscape reads and writes the Netscape bookmark file format used by
// Firefox, Chrome and Edge exports.
//
// A file is parsed with goquery into a generic element tree and then mapped into
// a Document of Bookmarks and Folders. Mapping is permissive: a missing
// attribute, section or unknown element is skipped, never reported. The same
// model renders back to markup and projects to JSON.
package netscape

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnreadable wraps failures to read the input itself. It is the only error
// parsing returns: a readable but odd document still yields a Document.
var ErrUnreadable = errors.New("unreadable bookmark file")

// Document is the top-level bookmark file.
type Document struct {
	// Title is the text of <TITLE> in the head.
	Title string `json:"title"`
	// Heading is the text of the body's <H1>. Exports usually repeat the title
	// here, but nothing requires it.
	Heading  string `json:"heading"`
	Children Items  `json:"children"`
}

// Equal compares title, heading and children.
func (d Document) Equal(other Document) bool {
	return d.Title == other.Title &&
		d.Heading == other.Heading &&
		d.Children.Equal(other.Children)
}

// Parse reads a bookmark file from r.
func Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return FromSelection(doc.Selection), nil
}

// ParseString parses an in-memory bookmark file.
func ParseString(raw string) (Document, error) {
	return Parse(strings.NewReader(raw))
}

// ParseFile opens and parses the bookmark file at path.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()
	return Parse(f)
}

// FromSelection maps an already parsed tree. root must be the document node
// (goquery.Document.Selection).
func FromSelection(root *goquery.Selection) Document {
	doc := Document{Children: Items{}}

	htmlRoot, ok := firstChildElement(root, "HTML")
	if !ok {
		return doc
	}

	if head, ok := firstChildElement(htmlRoot, "HEAD"); ok {
		for _, c := range children(head) {
			if isElement(c, "TITLE") {
				doc.Title = textContent(c)
			}
		}
	}

	// A later H1 replaces an earlier one; every top-level DL contributes.
	if body, ok := firstChildElement(htmlRoot, "BODY"); ok {
		for _, c := range children(body) {
			switch {
			case isElement(c, "H1"):
				doc.Heading = textContent(c)
			case isElement(c, "DL"):
				doc.Children = append(doc.Children, itemsFromDL(c)...)
			}
		}
	}

	return doc
}
