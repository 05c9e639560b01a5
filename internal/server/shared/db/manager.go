// Package db wires repository implementations to a database handle and runs
// schema migrations.
package db

import (
	"database/sql"

	"github.com/zlvtv/TeamBridge-sub000/internal/server/repositories/messages"
	"github.com/zlvtv/TeamBridge-sub000/internal/server/repositories/projects"
)

// RepositoryManager exposes the repository set backed by one database.
type RepositoryManager interface {
	Conn() *sql.DB
	Projects() projects.Repository
	Messages() messages.Repository
	Close() error
}
