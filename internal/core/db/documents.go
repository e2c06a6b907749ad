package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/seckatie/bookmarkt/internal/netscape"
)

// ------------------------------
// Document methods
// ------------------------------

// SaveDocument stores doc and its whole item tree in one transaction and
// returns the new document id. Sibling order is kept in the position column.
// Emits a DocumentImportedEvent after the commit.
func (db *DB) SaveDocument(doc netscape.Document, source string) (int64, error) {
	importedAt := time.Now().Format(time.RFC3339)

	tx, err := db.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	res, err := tx.Exec(
		"INSERT INTO documents (title, heading, source, imported_at) VALUES (?, ?, ?, ?)",
		doc.Title, doc.Heading, source, importedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	if err := insertItems(tx, id, sql.NullInt64{}, doc.Children); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.emit(DocumentImportedEvent{
		Document: StoredDocument{
			ID:         id,
			Title:      doc.Title,
			Heading:    doc.Heading,
			Source:     source,
			ImportedAt: importedAt,
			Bookmarks:  len(doc.Bookmarks()),
		},
	})

	return id, nil
}

func insertItems(tx *sql.Tx, documentID int64, parentID sql.NullInt64, items netscape.Items) error {
	for position, it := range items {
		switch v := it.(type) {
		case netscape.Bookmark:
			if _, err := tx.Exec(`
				INSERT INTO items (document_id, parent_id, position, kind, title, href,
					add_date, last_visit, last_modified, icon_uri, icon)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				documentID, parentID, position, netscape.KindShortcut.String(), v.Title, v.Href,
				v.AddDate, v.LastVisit, v.LastModified, v.IconURI, v.Icon,
			); err != nil {
				return fmt.Errorf("failed to insert bookmark %q: %w", v.Href, err)
			}

		case netscape.Folder:
			res, err := tx.Exec(`
				INSERT INTO items (document_id, parent_id, position, kind, title,
					add_date, last_modified, folded, personal_toolbar_folder, unfiled_bookmarks_folder)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				documentID, parentID, position, netscape.KindSubfolder.String(), v.Title,
				v.AddDate, v.LastModified, v.Folded, v.PersonalToolbarFolder, v.UnfiledBookmarksFolder,
			)
			if err != nil {
				return fmt.Errorf("failed to insert folder %q: %w", v.Title, err)
			}
			folderID, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get last insert ID: %w", err)
			}
			if err := insertItems(tx, documentID, sql.NullInt64{Int64: folderID, Valid: true}, v.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

// itemRow is one row of the items table as needed to rebuild a tree.
type itemRow struct {
	id       int64
	parentID int64 // 0 for top-level items
	kind     string
	bookmark netscape.Bookmark
	folder   netscape.Folder
}

// GetDocument rebuilds the stored tree of document id.
func (db *DB) GetDocument(id int64) (netscape.Document, error) {
	stored, err := db.GetStoredDocument(id)
	if err != nil {
		return netscape.Document{}, err
	}

	rows, err := db.db.Query(`
		SELECT id, COALESCE(parent_id, 0), kind, title, href, add_date, last_visit,
			last_modified, icon_uri, icon, folded, personal_toolbar_folder, unfiled_bookmarks_folder
		FROM items
		WHERE document_id = ?
		ORDER BY parent_id, position
	`, id)
	if err != nil {
		return netscape.Document{}, fmt.Errorf("failed to load items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	byParent := make(map[int64][]itemRow)
	for rows.Next() {
		var r itemRow
		var title, href, addDate, lastVisit, lastModified, iconURI, icon string
		var folded, toolbar, unfiled bool
		if err := rows.Scan(&r.id, &r.parentID, &r.kind, &title, &href, &addDate, &lastVisit,
			&lastModified, &iconURI, &icon, &folded, &toolbar, &unfiled); err != nil {
			return netscape.Document{}, fmt.Errorf("failed to scan item: %w", err)
		}

		switch r.kind {
		case netscape.KindShortcut.String():
			r.bookmark = netscape.Bookmark{
				Href:         href,
				Title:        title,
				AddDate:      addDate,
				LastVisit:    lastVisit,
				LastModified: lastModified,
				IconURI:      iconURI,
				Icon:         icon,
			}
		case netscape.KindSubfolder.String():
			r.folder = netscape.Folder{
				Title:                  title,
				AddDate:                addDate,
				LastModified:           lastModified,
				Folded:                 folded,
				PersonalToolbarFolder:  toolbar,
				UnfiledBookmarksFolder: unfiled,
			}
		default:
			return netscape.Document{}, fmt.Errorf("item %d has unknown kind %q", r.id, r.kind)
		}
		byParent[r.parentID] = append(byParent[r.parentID], r)
	}
	if err := rows.Err(); err != nil {
		return netscape.Document{}, fmt.Errorf("failed to iterate items: %w", err)
	}

	return netscape.Document{
		Title:    stored.Title,
		Heading:  stored.Heading,
		Children: buildItems(byParent, 0),
	}, nil
}

func buildItems(byParent map[int64][]itemRow, parentID int64) netscape.Items {
	items := netscape.Items{}
	for _, r := range byParent[parentID] {
		if r.kind == netscape.KindShortcut.String() {
			items = append(items, r.bookmark)
			continue
		}
		f := r.folder
		f.Children = buildItems(byParent, r.id)
		items = append(items, f)
	}
	return items
}

// GetStoredDocument returns the summary row of document id.
func (db *DB) GetStoredDocument(id int64) (StoredDocument, error) {
	var d StoredDocument
	err := db.db.QueryRow(`
		SELECT d.id, d.title, d.heading, d.source, d.imported_at,
			(SELECT COUNT(*) FROM items i WHERE i.document_id = d.id AND i.kind = 'shortcut')
		FROM documents d
		WHERE d.id = ?
	`, id).Scan(&d.ID, &d.Title, &d.Heading, &d.Source, &d.ImportedAt, &d.Bookmarks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredDocument{}, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}
		return StoredDocument{}, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns every stored document, newest first.
func (db *DB) ListDocuments() ([]StoredDocument, error) {
	rows, err := db.db.Query(`
		SELECT d.id, d.title, d.heading, d.source, d.imported_at,
			(SELECT COUNT(*) FROM items i WHERE i.document_id = d.id AND i.kind = 'shortcut')
		FROM documents d
		ORDER BY d.imported_at DESC, d.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var out []StoredDocument
	for rows.Next() {
		var d StoredDocument
		if err := rows.Scan(&d.ID, &d.Title, &d.Heading, &d.Source, &d.ImportedAt, &d.Bookmarks); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document and all of its items.
// Emits a DocumentDeletedEvent after successful deletion.
func (db *DB) DeleteDocument(id int64) error {
	stored, err := db.GetStoredDocument(id)
	if err != nil {
		return err
	}

	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.Exec("DELETE FROM items WHERE document_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM documents WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.emit(DocumentDeletedEvent{Document: stored})
	return nil
}
