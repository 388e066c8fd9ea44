package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, name, handle FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListByHandles resolves a set of handles in one round trip. Order of the
// returned users is unspecified.
func (r *userRepository) ListByHandles(ctx context.Context, handles []string) ([]*model.User, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, handle FROM users WHERE handle = ANY($1)`

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, pq.Array(handles)); err != nil {
		return nil, fmt.Errorf("failed to list users by handles: %w", err)
	}

	return users, nil
}
