package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"quitanda/internal/core/apperror"
	"quitanda/internal/core/id"
	"quitanda/internal/domain/auth"
	"quitanda/internal/infrastructure/storage/postgres"
)

const refreshTokensTable = "refresh_tokens"

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	tx   *postgres.TxManager
	cols []string
}

// NewTokenRepo creates a new token repository.
func NewTokenRepo(tx *postgres.TxManager) *TokenRepo {
	return &TokenRepo{
		tx:   tx,
		cols: postgres.ExtractDBColumns[auth.RefreshToken](),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *TokenRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	data := postgres.StructToMap(token)

	q := r.Builder().
		Insert(refreshTokensTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	q := r.Builder().
		Select(r.cols...).
		From(refreshTokensTable).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var token auth.RefreshToken
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &token, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("refresh_token", "by hash")
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	q := r.Builder().
		Update(refreshTokensTable).
		Set("revoked_at", squirrel.Expr("now()")).
		Set("revoked_reason", reason).
		Where(squirrel.Eq{"id": tokenID}).
		Where(squirrel.Eq{"revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	q := r.Builder().
		Update(refreshTokensTable).
		Set("revoked_at", squirrel.Expr("now()")).
		Set("revoked_reason", reason).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *TokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) {
	q := r.Builder().
		Delete(refreshTokensTable).
		Where(squirrel.Expr("expires_at < now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired tokens: %w", err)
	}
	return int(result.RowsAffected()), nil
}
