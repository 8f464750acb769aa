package dbsession

import (
	// Register the drivers the built-in dialects open.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
