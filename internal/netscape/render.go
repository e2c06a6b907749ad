package netscape

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
)

//go:embed templates/netscape.tmpl
var templatesFS embed.FS

// Values are written verbatim: the format has no escaping rules of its own and
// the reader side is just as permissive.
var templates = template.Must(
	template.New("netscape").
		Funcs(template.FuncMap{
			"shortcut":  shortcutOrNil,
			"subfolder": subfolderOrNil,
		}).
		ParseFS(templatesFS, "templates/netscape.tmpl"),
)

func shortcutOrNil(it Item) *Bookmark {
	if b, ok := AsShortcut(it); ok {
		return &b
	}
	return nil
}

func subfolderOrNil(it Item) *Folder {
	if f, ok := AsSubfolder(it); ok {
		return &f
	}
	return nil
}

// HTML renders the bookmark as a single <DT><A> line.
func (b Bookmark) HTML() (string, error) {
	return render("bookmark", b)
}

// HTML renders the folder heading followed by its body list.
func (f Folder) HTML() (string, error) {
	return render("folder", f)
}

// RenderItem renders whichever variant it holds.
func RenderItem(it Item) (string, error) {
	return render("item", it)
}

// HTML renders a complete bookmark file.
func (d Document) HTML() (string, error) {
	return render("document", d)
}

// WriteHTML renders the complete bookmark file to w.
func (d Document) WriteHTML(w io.Writer) error {
	if err := templates.ExecuteTemplate(w, "document", d); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return sb.String(), nil
}
