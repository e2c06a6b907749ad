package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ListBookmarksToArchive returns fetchable bookmarks that have no successful
// archive yet, oldest first. Failed attempts are included so they are retried.
func (db *DB) ListBookmarksToArchive(limit int) ([]Bookmark, error) {
	query := "SELECT " + bookmarkColumns + ` FROM items
		WHERE kind = 'shortcut'
			AND archived_at IS NULL
			AND (href LIKE 'http://%' OR href LIKE 'https://%')
		ORDER BY id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	out, err := db.queryBookmarks(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks to archive: %w", err)
	}
	return out, nil
}

func (db *DB) GetBookmarkArchive(id int64) (BookmarkArchive, error) {
	var a BookmarkArchive
	err := db.db.QueryRow(`
		SELECT
			id,
			COALESCE(archived_url, ''),
			COALESCE(archived_html, ''),
			COALESCE(archive_attempted_at, ''),
			COALESCE(archived_at, ''),
			COALESCE(archive_status, ''),
			COALESCE(archive_error, '')
		FROM items
		WHERE id = ? AND kind = 'shortcut'
	`, id).Scan(
		&a.BookmarkID,
		&a.ArchivedURL,
		&a.ArchivedHTML,
		&a.ArchiveAttemptedAt,
		&a.ArchivedAt,
		&a.ArchiveStatus,
		&a.ArchiveError,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookmarkArchive{}, fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
		}
		return BookmarkArchive{}, fmt.Errorf("failed to get bookmark archive: %w", err)
	}
	return a, nil
}

// ClearBookmarkArchive forgets the archive of a bookmark.
// Emits an ArchiveClearedEvent so the bookmark can be queued again.
func (db *DB) ClearBookmarkArchive(id int64) error {
	res, err := db.db.Exec(`
		UPDATE items
		SET
			archived_html = NULL,
			archived_url = NULL,
			archive_attempted_at = NULL,
			archived_at = NULL,
			archive_status = NULL,
			archive_error = NULL
		WHERE id = ? AND kind = 'shortcut'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear bookmark archive: %w", err)
	}
	if err := expectOneRow(res, id); err != nil {
		return err
	}

	db.emit(ArchiveClearedEvent{BookmarkID: id})
	return nil
}

// SaveArchiveResult saves the result of an archive operation. archivedAt is
// nil for failed attempts.
// Emits an ArchiveResultSavedEvent after successful save.
func (db *DB) SaveArchiveResult(id int64, attemptedAt time.Time, archivedAt *time.Time, status string, archiveErr string, archivedURL string, archivedHTML string) error {
	var archivedAtStr any
	if archivedAt != nil {
		archivedAtStr = archivedAt.Format(time.RFC3339)
	}

	res, err := db.db.Exec(`
		UPDATE items
		SET
			archive_attempted_at = ?,
			archived_at = ?,
			archive_status = ?,
			archive_error = ?,
			archived_url = ?,
			archived_html = ?
		WHERE id = ? AND kind = 'shortcut'
	`,
		attemptedAt.Format(time.RFC3339),
		archivedAtStr,
		status,
		archiveErr,
		archivedURL,
		archivedHTML,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to save archive result: %w", err)
	}
	if err := expectOneRow(res, id); err != nil {
		return err
	}

	db.emit(ArchiveResultSavedEvent{
		BookmarkID: id,
		Status:     status,
	})
	return nil
}

func expectOneRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bookmark %d: %w", id, ErrNotFound)
	}
	return nil
}
