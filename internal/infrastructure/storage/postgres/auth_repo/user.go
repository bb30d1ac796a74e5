// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/domain/auth"
	"quitanda/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	tx   *postgres.TxManager
	cols []string
}

// NewUserRepo creates a new user repository.
func NewUserRepo(tx *postgres.TxManager) *UserRepo {
	return &UserRepo{
		tx:   tx,
		cols: postgres.ExtractDBColumns[auth.User](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *UserRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	data := postgres.StructToMap(user)

	q := r.Builder().
		Insert(usersTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("user", "email", user.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.Builder().
		Select(r.cols...).
		From(usersTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	return r.getOne(ctx, q, userID.String())
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.Builder().
		Select(r.cols...).
		From(usersTable).
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		Limit(1)

	return r.getOne(ctx, q, email)
}

func (r *UserRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, ref string) (*auth.User, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var user auth.User
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", ref)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.Builder().
		Update(usersTable).
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("role", user.Role).
		Set("is_active", user.IsActive).
		Set("last_login_at", user.LastLoginAt).
		Set("failed_login_attempts", user.FailedLoginAttempts).
		Set("locked_until", user.LockedUntil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", user.ID.String())
	}
	return nil
}

func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.Builder().
		Select("1").
		From(usersTable).
		Where(squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}
