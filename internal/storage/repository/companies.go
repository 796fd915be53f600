package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// CreateCompany inserts the shared identity row and the company payload in
// one transaction and returns the new id. Email and cnpj duplicates surface
// as ErrConflict.
func (s *Storage) CreateCompany(ctx context.Context, c models.Company) (int64, error) {
	const op = "storage.CreateCompany"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int64
	query := `INSERT INTO users (nome, email, senha_hash, telefone, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err = tx.QueryRowContext(ctx, query,
		c.Nome, c.Email, c.SenhaHash, c.Telefone, models.RoleCompany).Scan(&id); err != nil {
		return 0, mapErr(op, err)
	}

	query = `INSERT INTO companies (user_id, cnpj, endereco) VALUES ($1, $2, $3)`
	if _, err = tx.ExecContext(ctx, query, id, c.CNPJ, c.Endereco); err != nil {
		return 0, mapErr(op, err)
	}

	if err = replaceCompanyAreas(ctx, tx, id, c.AreasAtuacao); err != nil {
		return 0, mapErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetCompany returns a company with its identity payload and practice areas.
func (s *Storage) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	const op = "storage.GetCompany"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c := &models.Company{}
	query := `SELECT u.id, u.nome, u.email, u.senha_hash, u.telefone, u.role,
			      u.data_criacao, u.data_atualizacao, c.cnpj, c.endereco
			  FROM users u
			  JOIN companies c ON c.user_id = u.id
			  WHERE u.id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Nome, &c.Email,
		&c.SenhaHash, &c.Telefone, &c.Role, &c.DataCriacao, &c.DataAtualizacao,
		&c.CNPJ, &c.Endereco); err != nil {
		return nil, mapErr(op, err)
	}

	areas, err := s.areasOf(ctx, `SELECT a.id, a.nome FROM areas a
		JOIN company_areas ca ON ca.area_id = a.id WHERE ca.company_id = $1 ORDER BY a.nome`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.AreasAtuacao = areas
	return c, nil
}

// ListCompanies returns every company ordered by nome, without area sets.
func (s *Storage) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	const op = "storage.ListCompanies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.nome, u.email, u.telefone, u.role,
			      u.data_criacao, u.data_atualizacao, c.cnpj, c.endereco
			  FROM users u
			  JOIN companies c ON c.user_id = u.id
			  ORDER BY u.nome`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Company
	for rows.Next() {
		c := &models.Company{}
		if err = rows.Scan(&c.ID, &c.Nome, &c.Email, &c.Telefone, &c.Role,
			&c.DataCriacao, &c.DataAtualizacao, &c.CNPJ, &c.Endereco); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCompany overwrites the mutable fields of a company. The senha hash is
// replaced only when non-empty; role and id never change.
func (s *Storage) UpdateCompany(ctx context.Context, c models.Company) error {
	const op = "storage.UpdateCompany"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE users
			  SET nome = $1, email = $2, telefone = $3,
			      senha_hash = COALESCE(NULLIF($4, ''), senha_hash),
			      data_atualizacao = now()
			  WHERE id = $5 AND role = $6`
	res, err := tx.ExecContext(ctx, query, c.Nome, c.Email, c.Telefone, c.SenhaHash, c.ID, models.RoleCompany)
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

	query = `UPDATE companies SET cnpj = $1, endereco = $2 WHERE user_id = $3`
	if _, err = tx.ExecContext(ctx, query, c.CNPJ, c.Endereco, c.ID); err != nil {
		return mapErr(op, err)
	}

	if err = replaceCompanyAreas(ctx, tx, c.ID, c.AreasAtuacao); err != nil {
		return mapErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCompany removes the identity row; the company payload, its offers and
// their applications go with it through the FK cascade.
func (s *Storage) DeleteCompany(ctx context.Context, id int64) error {
	const op = "storage.DeleteCompany"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1 AND role = $2`, id, models.RoleCompany)
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

// CompanyExistsByCNPJ reports whether a company with the given cnpj exists.
func (s *Storage) CompanyExistsByCNPJ(ctx context.Context, cnpj string) (bool, error) {
	const op = "storage.CompanyExistsByCNPJ"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM companies WHERE cnpj = $1)`
	if err := s.DB.QueryRowContext(ctx, query, cnpj).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func replaceCompanyAreas(ctx context.Context, tx *sql.Tx, companyID int64, areas []models.Area) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM company_areas WHERE company_id = $1`, companyID); err != nil {
		return err
	}
	for _, a := range areas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO company_areas (company_id, area_id) VALUES ($1, $2)`,
			companyID, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// areasOf runs an area projection query bound to a single owner id.
func (s *Storage) areasOf(ctx context.Context, query string, ownerID int64) ([]models.Area, error) {
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Area
	for rows.Next() {
		var a models.Area
		if err = rows.Scan(&a.ID, &a.Nome); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
