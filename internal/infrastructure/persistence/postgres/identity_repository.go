package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"errandgo/internal/domain/identity"
)

type IdentityRepository struct {
	db *PostgresDB

	stmtCreate        *sql.Stmt
	stmtGetByID       *sql.Stmt
	stmtGetByEmail    *sql.Stmt
	stmtExistsByEmail *sql.Stmt
}

func NewIdentityRepository(db *PostgresDB) (*IdentityRepository, error) {
	r := &IdentityRepository{db: db}

	var err error
	r.stmtCreate, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO identities (id, email, password_hash, full_name, phone_number, role, redirect_target)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByID, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT id, email, password_hash, full_name, phone_number, role, redirect_target, created_at, updated_at
		 FROM identities WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByEmail, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT id, email, password_hash, full_name, phone_number, role, redirect_target, created_at, updated_at
		 FROM identities WHERE email = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtExistsByEmail, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT EXISTS (SELECT 1 FROM identities WHERE email = $1)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *IdentityRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByEmail)
	closeStmt(r.stmtExistsByEmail)

	return firstErr
}

func (r *IdentityRepository) Create(ctx context.Context, id identity.Identity) error {
	_, err := r.stmtCreate.ExecContext(ctx, id.ID, id.Email, id.PasswordHash, id.FullName, id.PhoneNumber, id.Role, id.RedirectTarget)
	if err != nil && uniqueViolation(err) {
		return identity.ErrDuplicateEmail
	}
	return err
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (identity.Identity, error) {
	return scanIdentity(r.stmtGetByID.QueryRowContext(ctx, id))
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (identity.Identity, error) {
	return scanIdentity(r.stmtGetByEmail.QueryRowContext(ctx, email))
}

func (r *IdentityRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.stmtExistsByEmail.QueryRowContext(ctx, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type identityRow interface {
	Scan(dest ...any) error
}

func scanIdentity(row identityRow) (identity.Identity, error) {
	var id identity.Identity
	err := row.Scan(&id.ID, &id.Email, &id.PasswordHash, &id.FullName, &id.PhoneNumber, &id.Role, &id.RedirectTarget, &id.CreatedAt, &id.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return identity.Identity{}, identity.ErrNotFound
		}
		return identity.Identity{}, err
	}
	return id, nil
}
