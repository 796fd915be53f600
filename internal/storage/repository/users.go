package repository

import (
	"context"
	"fmt"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// GetUserByEmail returns the shared identity payload for an email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nome, email, senha_hash, telefone, role, data_criacao, data_atualizacao
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Nome, &u.Email,
		&u.SenhaHash, &u.Telefone, &u.Role, &u.DataCriacao, &u.DataAtualizacao); err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUserByID returns the shared identity payload for an id.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, nome, email, senha_hash, telefone, role, data_criacao, data_atualizacao
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Nome, &u.Email,
		&u.SenhaHash, &u.Telefone, &u.Role, &u.DataCriacao, &u.DataAtualizacao); err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// EnsureAdmin seeds the bootstrap ADMIN identity if the email is still free.
// It reports whether a row was inserted.
func (s *Storage) EnsureAdmin(ctx context.Context, nome, email, senhaHash string) (bool, error) {
	const op = "storage.EnsureAdmin"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (nome, email, senha_hash, role)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, nome, email, senhaHash, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// UserExistsByEmail reports whether any identity already uses the email.
func (s *Storage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.UserExistsByEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
