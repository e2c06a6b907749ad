package core

import "time"

// Archive status values stored with each bookmark
const (
	ArchiveStatusOK    = "ok"
	ArchiveStatusError = "error"
)

// Timeout defaults
const (
	DefaultArchiveTimeout   = 35 * time.Second
	DefaultIconTimeout      = 10 * time.Second
	DefaultNetworkIdleDelay = 500 * time.Millisecond
)

// Favicons larger than this are not embedded.
const MaxIconSize = 1024 * 1024

// DefaultIconWorkers bounds concurrent favicon downloads.
const DefaultIconWorkers = 4

const UserAgent = "Mozilla/5.0 (compatible; bookmarkt/1.0)"
