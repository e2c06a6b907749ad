package netscape

import "testing"

func TestItemFromNode(t *testing.T) {
	const list = `<DL><p>
<DT><A HREF="a">a</A>
<DT><H3>f</H3>
<DL><p>
</DL><p>
</DL><p>`

	dl := selectFirst(t, list, "dl")

	var kinds []Kind
	var skipped int
	for _, child := range children(dl) {
		it, ok := ItemFromNode(child)
		if !ok {
			skipped++
			continue
		}
		kinds = append(kinds, it.Kind())
	}

	if len(kinds) != 2 || kinds[0] != KindShortcut || kinds[1] != KindSubfolder {
		t.Errorf("got kinds %v, want [shortcut subfolder]", kinds)
	}
	if skipped == 0 {
		t.Error("expected the <p> layout hint to be skipped")
	}
}

func TestItemEqual(t *testing.T) {
	b := Bookmark{Title: "same"}
	f := Folder{Title: "same"}

	tests := []struct {
		name string
		a, b Item
		want bool
	}{
		{"bookmarks", b, Bookmark{Title: "same"}, true},
		{"folders", f, Folder{Title: "same", Children: Items{}}, true},
		{"bookmark vs folder", b, f, false},
		{"folder vs bookmark", f, b, false},
		{"bookmark vs nil", b, nil, false},
		{"nil vs nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("ItemEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsShortcutAndSubfolder(t *testing.T) {
	var it Item = Bookmark{Href: "x"}
	if b, ok := AsShortcut(it); !ok || b.Href != "x" {
		t.Errorf("AsShortcut = %+v, %v", b, ok)
	}
	if _, ok := AsSubfolder(it); ok {
		t.Error("a bookmark is not a subfolder")
	}

	it = Folder{Title: "f"}
	if f, ok := AsSubfolder(it); !ok || f.Title != "f" {
		t.Errorf("AsSubfolder = %+v, %v", f, ok)
	}
	if _, ok := AsShortcut(it); ok {
		t.Error("a folder is not a shortcut")
	}
}

func TestRenderItem(t *testing.T) {
	got, err := RenderItem(Folder{Title: "f", Children: Items{Bookmark{Href: "a", Title: "a"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<DT><H3>f</H3>\n<DL><p>\n" +
		`<DT><A HREF="a" ADD_DATE="" LAST_VISIT="" LAST_MODIFIED="" ICON_URI="" ICON="">a</A>` +
		"\n</DL><p>"
	if got != want {
		t.Errorf("RenderItem =\n%s\nwant\n%s", got, want)
	}

	got, err = RenderItem(mockBookmark())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := mockBookmark().HTML(); got != want {
		t.Errorf("RenderItem =\n%s\nwant\n%s", got, want)
	}
}
