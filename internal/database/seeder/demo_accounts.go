package seeder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"errandgo/internal/domain/profile"
)

// DemoAccountsSeeder inserts one sender and one runner account for local
// development, so both dashboards are reachable on a fresh database without
// going through registration. Inserts are keyed on email and skipped when the
// account already exists.
type DemoAccountsSeeder struct {
	Password string
}

func (DemoAccountsSeeder) Name() string { return "demo_accounts" }

type demoAccount struct {
	email              string
	fullName           string
	phoneNumber        string
	role               profile.Role
	relationshipStatus string
	street             string
	area               string
	bio                string
}

func (s DemoAccountsSeeder) Run(ctx context.Context, db *sql.DB) error {
	password := s.Password
	if password == "" {
		password = "password"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	accounts := []demoAccount{
		{
			email:              "demo-sender@errandgo.local",
			fullName:           "Demo Sender",
			phoneNumber:        "+234 800 000 0001",
			role:               profile.RoleSender,
			relationshipStatus: "Single",
			street:             "1 Demo Close",
			area:               "Alagbaka",
			bio:                "Demo sender account",
		},
		{
			email:              "demo-runner@errandgo.local",
			fullName:           "Demo Runner",
			phoneNumber:        "+234 800 000 0002",
			role:               profile.RoleRunner,
			relationshipStatus: "Single",
			street:             "2 Demo Close",
			area:               "FUTA Area",
			bio:                "Demo runner account",
		},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, a := range accounts {
		id := uuid.New()

		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO identities (id, email, password_hash, full_name, phone_number, role, redirect_target)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (email) DO NOTHING`,
			id, a.email, string(hash), a.fullName, a.phoneNumber, string(a.role), a.role.DashboardRoute(),
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO profiles (id, email, full_name, phone_number, role, relationship_status, address, bio)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (id) DO NOTHING`,
			id, a.email, a.fullName, a.phoneNumber, string(a.role), a.relationshipStatus,
			profile.ComposeAddress(a.street, a.area), a.bio,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
