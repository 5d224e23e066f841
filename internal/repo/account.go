package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/camp-directory/internal/domain"
)

// AccountRepo persists login accounts for camp owners.
type AccountRepo interface {
	// Create inserts an account and returns its id. The caller supplies an
	// already-hashed password. Returns domain.ErrDuplicateKey if the username
	// or email is taken.
	Create(ctx context.Context, username, passwordHash, email string) (int64, error)

	// UsernameExists reports whether an account already uses username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// UpdateProfile overwrites the profile fields of an account.
	UpdateProfile(ctx context.Context, id int64, p domain.Profile) error

	// AssignRole grants role to an account. Granting a held role is a no-op.
	AssignRole(ctx context.Context, id int64, role string) error
}

type pgAccountRepo struct {
	db db
}

// NewAccountRepo constructs an AccountRepo backed by the provided db connection.
func NewAccountRepo(db db) AccountRepo {
	return &pgAccountRepo{db: db}
}

func (r *pgAccountRepo) Create(ctx context.Context, username, passwordHash, email string) (int64, error) {
	const q = `
		INSERT INTO accounts (username, password_hash, email)
		VALUES (@username, @password_hash, @email)
		RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"username":      username,
		"password_hash": passwordHash,
		"email":         email,
	}).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("repo.AccountRepo.Create: %w", mapError(err))
	}
	return id, nil
}

func (r *pgAccountRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = @username)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"username": username}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.AccountRepo.UsernameExists: %w", mapError(err))
	}
	return exists, nil
}

func (r *pgAccountRepo) UpdateProfile(ctx context.Context, id int64, p domain.Profile) error {
	const q = `
		UPDATE accounts
		SET first_name = @first_name,
		    last_name  = @last_name,
		    phone      = @phone,
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         id,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"phone":      p.Phone,
	})
	if err != nil {
		return fmt.Errorf("repo.AccountRepo.UpdateProfile: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AccountRepo.UpdateProfile: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAccountRepo) AssignRole(ctx context.Context, id int64, role string) error {
	const q = `
		INSERT INTO account_roles (account_id, role)
		VALUES (@id, @role)
		ON CONFLICT (account_id, role) DO NOTHING`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "role": role}); err != nil {
		return fmt.Errorf("repo.AccountRepo.AssignRole: %w", mapError(err))
	}
	return nil
}
