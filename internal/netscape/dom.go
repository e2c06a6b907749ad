package netscape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// The helpers below are the only place the mapper touches the parsed tree.
// Every lookup is case-insensitive on tag and attribute names, and absence is
// reported as a zero value rather than an error.

// isElement reports whether s is an element named tag.
func isElement(s *goquery.Selection, tag string) bool {
	n := node(s)
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// attribute returns the first attribute of s whose key matches name.
func attribute(s *goquery.Selection, name string) (html.Attribute, bool) {
	n := node(s)
	if n == nil {
		return html.Attribute{}, false
	}
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, name) {
			return attr, true
		}
	}
	return html.Attribute{}, false
}

func hasAttribute(s *goquery.Selection, name string) bool {
	_, ok := attribute(s, name)
	return ok
}

func attributeValue(s *goquery.Selection, name string) string {
	attr, _ := attribute(s, name)
	return attr.Val
}

// textContent concatenates the text of every descendant of s.
func textContent(s *goquery.Selection) string {
	if node(s) == nil {
		return ""
	}
	return s.First().Text()
}

// children returns every child node of s, text nodes included.
func children(s *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	s.First().Contents().Each(func(_ int, c *goquery.Selection) {
		out = append(out, c)
	})
	return out
}

// firstChildElement returns the first child of s that is an element named tag.
func firstChildElement(s *goquery.Selection, tag string) (*goquery.Selection, bool) {
	for _, c := range children(s) {
		if isElement(c, tag) {
			return c, true
		}
	}
	return nil, false
}

// firstFollowingSibling returns the first element after s, at the same level,
// named tag.
func firstFollowingSibling(s *goquery.Selection, tag string) (*goquery.Selection, bool) {
	var found *goquery.Selection
	s.First().NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if isElement(sib, tag) {
			found = sib
			return false
		}
		return true
	})
	return found, found != nil
}

func node(s *goquery.Selection) *html.Node {
	if s == nil || len(s.Nodes) == 0 {
		return nil
	}
	return s.Nodes[0]
}
