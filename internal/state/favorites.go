package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveFavorite stores query under name, overwriting any previous query
// saved with the same name.
func (s *Store) SaveFavorite(ctx context.Context, name, query string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (name, query, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET query = excluded.query`,
		name, query, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// GetFavorite returns the query saved under name, or false when absent.
func (s *Store) GetFavorite(ctx context.Context, name string) (string, bool, error) {
	if s.db == nil {
		return "", false, fmt.Errorf("database not opened")
	}

	var query string
	err := s.db.QueryRowContext(ctx,
		`SELECT query FROM favorites WHERE name = ?`, name,
	).Scan(&query)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get favorite: %w", err)
	}
	return query, true, nil
}

// ListFavorites returns all favorites sorted by name.
func (s *Store) ListFavorites(ctx context.Context) ([]Favorite, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, query, created_at FROM favorites ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.Name, &fav.Query, &fav.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorite rows: %w", err)
	}
	return favorites, nil
}

// DeleteFavorite removes the favorite saved under name and reports whether
// one existed.
func (s *Store) DeleteFavorite(ctx context.Context, name string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("database not opened")
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	return affected > 0, nil
}
