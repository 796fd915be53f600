package repository

import (
	"context"
	"fmt"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// CreateArea inserts a new area and returns its id. A duplicated nome
// surfaces as ErrConflict via the unique index.
func (s *Storage) CreateArea(ctx context.Context, area models.Area) (int64, error) {
	const op = "storage.CreateArea"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO areas (nome) VALUES ($1) RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, area.Nome).Scan(&id); err != nil {
		return 0, mapErr(op, err)
	}
	return id, nil
}

// GetArea returns an area by id.
func (s *Storage) GetArea(ctx context.Context, id int64) (*models.Area, error) {
	const op = "storage.GetArea"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	a := &models.Area{}
	query := `SELECT id, nome FROM areas WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Nome); err != nil {
		return nil, mapErr(op, err)
	}
	return a, nil
}

// ListAreas returns every area ordered by nome.
func (s *Storage) ListAreas(ctx context.Context) ([]models.Area, error) {
	const op = "storage.ListAreas"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, nome FROM areas ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Area
	for rows.Next() {
		var a models.Area
		if err = rows.Scan(&a.ID, &a.Nome); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateArea renames an area.
func (s *Storage) UpdateArea(ctx context.Context, area models.Area) error {
	const op = "storage.UpdateArea"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE areas SET nome = $1 WHERE id = $2`, area.Nome, area.ID)
	if err != nil {
		return mapErr(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// DeleteArea removes an area by id.
func (s *Storage) DeleteArea(ctx context.Context, id int64) error {
	const op = "storage.DeleteArea"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

// AreaExistsByNome reports whether an area with the given nome exists.
func (s *Storage) AreaExistsByNome(ctx context.Context, nome string) (bool, error) {
	const op = "storage.AreaExistsByNome"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM areas WHERE nome = $1)`
	if err := s.DB.QueryRowContext(ctx, query, nome).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
