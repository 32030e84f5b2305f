package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"errandgo/internal/domain/profile"
)

type ProfileRepository struct {
	db *PostgresDB

	stmtInsert      *sql.Stmt
	stmtGetByID     *sql.Stmt
	stmtGetRoleByID *sql.Stmt
}

func NewProfileRepository(db *PostgresDB) (*ProfileRepository, error) {
	r := &ProfileRepository{db: db}

	var err error
	r.stmtInsert, err = db.SQLDB().PrepareContext(
		context.Background(),
		`INSERT INTO profiles
		   (id, email, full_name, phone_number, role, nin_front_url, nin_back_url,
		    profile_picture_url, relationship_status, address, bio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetByID, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT id, email, full_name, phone_number, role, nin_front_url, nin_back_url,
		        profile_picture_url, relationship_status, address, bio, created_at, updated_at
		 FROM profiles WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	r.stmtGetRoleByID, err = db.SQLDB().PrepareContext(
		context.Background(),
		`SELECT role FROM profiles WHERE id = $1`,
	)
	if err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func (r *ProfileRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtInsert)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetRoleByID)

	return firstErr
}

func (r *ProfileRepository) Insert(ctx context.Context, p profile.Profile) error {
	_, err := r.stmtInsert.ExecContext(ctx,
		p.ID, p.Email, p.FullName, p.PhoneNumber, p.Role, p.NINFrontURL, p.NINBackURL,
		p.ProfilePictureURL, p.RelationshipStatus, p.Address, p.Bio,
	)
	if err != nil && uniqueViolation(err) {
		return profile.ErrAlreadyExists
	}
	return err
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	var p profile.Profile
	err := r.stmtGetByID.QueryRowContext(ctx, id).Scan(
		&p.ID, &p.Email, &p.FullName, &p.PhoneNumber, &p.Role, &p.NINFrontURL, &p.NINBackURL,
		&p.ProfilePictureURL, &p.RelationshipStatus, &p.Address, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepository) GetRoleByID(ctx context.Context, id uuid.UUID) (profile.Role, error) {
	var role profile.Role
	if err := r.stmtGetRoleByID.QueryRowContext(ctx, id).Scan(&role); err != nil {
		if err == sql.ErrNoRows {
			return "", profile.ErrNotFound
		}
		return "", err
	}
	return role, nil
}
