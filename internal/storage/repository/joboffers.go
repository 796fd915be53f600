package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

const jobOfferColumns = `o.id, o.titulo, o.descricao, o.localizacao, o.modalidade,
	o.carga_horaria, o.requisitos, o.ativa, o.data_criacao, o.data_atualizacao, o.data_encerramento,
	c.user_id, u.nome, c.cnpj, c.endereco, u.telefone, u.email,
	a.id, a.nome`

const jobOfferFrom = `FROM job_offers o
	JOIN companies c ON c.user_id = o.company_id
	JOIN users u ON u.id = c.user_id
	JOIN areas a ON a.id = o.area_id`

func scanJobOffer(row interface{ Scan(...any) error }) (*models.JobOffer, error) {
	o := &models.JobOffer{}
	err := row.Scan(&o.ID, &o.Titulo, &o.Descricao, &o.Localizacao, &o.Modalidade,
		&o.CargaHoraria, &o.Requisitos, &o.Ativa, &o.DataCriacao, &o.DataAtualizacao,
		&o.DataEncerramento, &o.Company.ID, &o.Company.Nome, &o.Company.CNPJ,
		&o.Company.Endereco, &o.Company.Telefone, &o.Company.Email, &o.Area.ID, &o.Area.Nome)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreateJobOffer inserts an offer and returns its id. New offers are always
// active.
func (s *Storage) CreateJobOffer(ctx context.Context, o models.JobOffer) (int64, error) {
	const op = "storage.CreateJobOffer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO job_offers (titulo, descricao, localizacao, modalidade, carga_horaria, requisitos, ativa, company_id, area_id)
			  VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, o.Titulo, o.Descricao, o.Localizacao,
		o.Modalidade, o.CargaHoraria, o.Requisitos, o.Company.ID, o.Area.ID).Scan(&id); err != nil {
		return 0, mapErr(op, err)
	}
	return id, nil
}

// GetJobOffer returns an offer with its company summary and area.
func (s *Storage) GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error) {
	const op = "storage.GetJobOffer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE o.id = $1`, jobOfferColumns, jobOfferFrom)
	o, err := scanJobOffer(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return o, nil
}

// ListActiveJobOffers returns every active offer, newest first.
func (s *Storage) ListActiveJobOffers(ctx context.Context) ([]*models.JobOffer, error) {
	const op = "storage.ListActiveJobOffers"
	return s.listJobOffers(ctx, op, `WHERE o.ativa`, nil)
}

// ListActiveJobOffersByCompany returns the active offers of one company,
// newest first.
func (s *Storage) ListActiveJobOffersByCompany(ctx context.Context, companyID int64) ([]*models.JobOffer, error) {
	const op = "storage.ListActiveJobOffersByCompany"
	return s.listJobOffers(ctx, op, `WHERE o.ativa AND o.company_id = $1`, []any{companyID})
}

// ListActiveJobOffersByArea returns the active offers for one area, newest first.
func (s *Storage) ListActiveJobOffersByArea(ctx context.Context, areaID int64) ([]*models.JobOffer, error) {
	const op = "storage.ListActiveJobOffersByArea"
	return s.listJobOffers(ctx, op, `WHERE o.ativa AND o.area_id = $1`, []any{areaID})
}

// ListActiveJobOffersByAreas returns the active offers whose area is in the
// given set, newest first. An empty set yields no rows.
func (s *Storage) ListActiveJobOffersByAreas(ctx context.Context, areaIDs []int64) ([]*models.JobOffer, error) {
	const op = "storage.ListActiveJobOffersByAreas"
	if len(areaIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(areaIDs))
	args := make([]any, len(areaIDs))
	for i, id := range areaIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	where := fmt.Sprintf(`WHERE o.ativa AND o.area_id IN (%s)`, strings.Join(placeholders, ", "))
	return s.listJobOffers(ctx, op, where, args)
}

func (s *Storage) listJobOffers(ctx context.Context, op, where string, args []any) ([]*models.JobOffer, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY o.data_criacao DESC, o.id DESC`,
		jobOfferColumns, jobOfferFrom, where)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.JobOffer
	for rows.Next() {
		o, err := scanJobOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateJobOffer overwrites the mutable fields of an offer. Ownership,
// activity and closing timestamps are untouched.
func (s *Storage) UpdateJobOffer(ctx context.Context, o models.JobOffer) error {
	const op = "storage.UpdateJobOffer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE job_offers
			  SET titulo = $1, descricao = $2, localizacao = $3, modalidade = $4,
			      carga_horaria = $5, requisitos = $6, area_id = $7, data_atualizacao = now()
			  WHERE id = $8`
	res, err := s.DB.ExecContext(ctx, query, o.Titulo, o.Descricao, o.Localizacao,
		o.Modalidade, o.CargaHoraria, o.Requisitos, o.Area.ID, o.ID)
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

// CloseJobOffer deactivates an offer and stamps data_encerramento once. An
// already closed offer keeps its original closing timestamp.
func (s *Storage) CloseJobOffer(ctx context.Context, id int64) error {
	const op = "storage.CloseJobOffer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE job_offers
			  SET ativa = FALSE,
			      data_encerramento = COALESCE(data_encerramento, now()),
			      data_atualizacao = now()
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
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

// DeleteJobOffer removes an offer; its applications go with it through the
// cascade.
func (s *Storage) DeleteJobOffer(ctx context.Context, id int64) error {
	const op = "storage.DeleteJobOffer"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM job_offers WHERE id = $1`, id)
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

// JobOfferStats aggregates the active and closed counters plus the active
// offers per area.
func (s *Storage) JobOfferStats(ctx context.Context) (*models.JobOfferStats, error) {
	const op = "storage.JobOfferStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stats := &models.JobOfferStats{}
	query := `SELECT COUNT(*) FILTER (WHERE ativa), COUNT(*) FILTER (WHERE NOT ativa) FROM job_offers`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.Ativas, &stats.Encerradas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = `SELECT a.nome, COUNT(o.id)
			 FROM areas a
			 JOIN job_offers o ON o.area_id = a.id AND o.ativa
			 GROUP BY a.nome
			 ORDER BY a.nome`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var ac models.AreaCount
		if err = rows.Scan(&ac.Area, &ac.Total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats.PorArea = append(stats.PorArea, ac)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
