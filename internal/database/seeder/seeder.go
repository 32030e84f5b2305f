package seeder

import (
	"context"
	"database/sql"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db *sql.DB) error
}
