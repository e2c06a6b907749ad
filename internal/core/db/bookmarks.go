package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
)

// ErrInvalidURL is returned when a bookmark URL cannot be fetched.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateBookmarkURL reports whether a stored href points at a page that can
// be fetched: http or https with a non-empty host. Exports also carry place:,
// javascript: and similar hrefs, which are kept but never archived.
func ValidateBookmarkURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

const bookmarkColumns = `
	id, document_id, href, title, icon_uri,
	COALESCE(archive_status, ''), COALESCE(archived_at, ''),
	COALESCE(archive_error, '')
`

func scanBookmark(row interface{ Scan(...any) error }) (Bookmark, error) {
	var b Bookmark
	err := row.Scan(&b.ID, &b.DocumentID, &b.URL, &b.Title, &b.IconURI, &b.ArchiveStatus, &b.ArchivedAt, &b.ArchiveError)
	return b, err
}

func (db *DB) queryBookmarks(query string, args ...any) ([]Bookmark, error) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var out []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ------------------------------
// Bookmark methods
// ------------------------------

// GetBookmark returns the stored shortcut with the given item id.
func (db *DB) GetBookmark(id int64) (Bookmark, error) {
	row := db.db.QueryRow(
		"SELECT "+bookmarkColumns+" FROM items WHERE id = ? AND kind = 'shortcut'", id,
	)
	b, err := scanBookmark(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bookmark{}, fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
		}
		return Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return b, nil
}

// ListBookmarks returns the shortcuts of one document in insertion order, or
// of every document when documentID is 0. A limit <= 0 means no limit.
func (db *DB) ListBookmarks(documentID int64, limit int) ([]Bookmark, error) {
	query := "SELECT " + bookmarkColumns + " FROM items WHERE kind = 'shortcut'"
	var args []any
	if documentID > 0 {
		query += " AND document_id = ?"
		args = append(args, documentID)
	}
	query += " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	out, err := db.queryBookmarks(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return out, nil
}

// SetBookmarkIconURI records the favicon location discovered for a bookmark.
func (db *DB) SetBookmarkIconURI(id int64, iconURI string) error {
	res, err := db.db.Exec(
		"UPDATE items SET icon_uri = ? WHERE id = ? AND kind = 'shortcut'", iconURI, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update icon uri: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}
