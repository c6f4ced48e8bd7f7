package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bjl5029/WSD-3/internal/models"
	"github.com/bjl5029/WSD-3/internal/storage"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, name, phone, birth_date, status, role, last_login, created_at, updated_at`

// UserRepo implements the storage.UserRepository interface using PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

// WithTx creates a new UserRepo bound to the transaction.
func (r *UserRepo) WithTx(tx pgx.Tx) storage.UserRepository {
	return &UserRepo{db: tx}
}

var _ storage.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new active user.
func (r *UserRepo) Create(ctx context.Context, params storage.CreateUserParams) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, name, phone, birth_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	user, err := r.queryOne(ctx, query, params.Email, params.PasswordHash, params.Name, params.Phone, params.BirthDate)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			log.Printf("UserRepo: email %s already registered", params.Email)
			return nil, storage.ErrDuplicateEmail
		}
		return nil, classify(err, "creating user")
	}
	log.Printf("UserRepo: created user %d", user.ID)
	return user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, classify(err, fmt.Sprintf("getting user %d", id))
	}
	return user, nil
}

// GetByEmail retrieves a user by email, including the password hash.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, classify(err, "getting user by email")
	}
	return user, nil
}

func (r *UserRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return classify(err, op)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, params storage.ProfileParams) error {
	return r.exec(ctx, "updating profile",
		`UPDATE users SET name = $2, phone = $3, birth_date = $4, updated_at = NOW() WHERE id = $1`,
		id, params.Name, params.Phone, params.BirthDate)
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	return r.exec(ctx, "updating last login", `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
}

func (r *UserRepo) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return r.exec(ctx, "updating user status",
		`UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
}
