package repository

import (
	"context"
	"fmt"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

const applicationColumns = `ap.id, ap.student_id, us.nome, ap.job_offer_id, o.titulo, ap.data_inscricao, ap.status`

const applicationFrom = `FROM applications ap
	JOIN users us ON us.id = ap.student_id
	JOIN job_offers o ON o.id = ap.job_offer_id`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	err := row.Scan(&a.ID, &a.StudentID, &a.StudentNome, &a.JobOfferID,
		&a.JobOfferTitle, &a.DataInscricao, &a.Status)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateApplication inserts a PENDENTE application and returns its id. A
// second submission for the same (student, offer) pair hits the unique index
// and surfaces as ErrConflict, whichever request loses the race.
func (s *Storage) CreateApplication(ctx context.Context, studentID, jobOfferID int64) (int64, error) {
	const op = "storage.CreateApplication"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO applications (student_id, job_offer_id, status)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, studentID, jobOfferID, models.StatusPendente).Scan(&id); err != nil {
		return 0, mapErr(op, err)
	}
	return id, nil
}

// GetApplication returns an application with the student name and offer title.
func (s *Storage) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	const op = "storage.GetApplication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE ap.id = $1`, applicationColumns, applicationFrom)
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return a, nil
}

// GetApplicationByStudentAndOffer returns the single application a student
// holds for an offer, if any.
func (s *Storage) GetApplicationByStudentAndOffer(ctx context.Context, studentID, jobOfferID int64) (*models.Application, error) {
	const op = "storage.GetApplicationByStudentAndOffer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE ap.student_id = $1 AND ap.job_offer_id = $2`,
		applicationColumns, applicationFrom)
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, studentID, jobOfferID))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return a, nil
}

// ApplicationExists reports whether a student already applied to an offer.
func (s *Storage) ApplicationExists(ctx context.Context, studentID, jobOfferID int64) (bool, error) {
	const op = "storage.ApplicationExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE student_id = $1 AND job_offer_id = $2)`
	if err := s.DB.QueryRowContext(ctx, query, studentID, jobOfferID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListApplications returns every application, newest first.
func (s *Storage) ListApplications(ctx context.Context) ([]*models.Application, error) {
	const op = "storage.ListApplications"
	return s.listApplications(ctx, op, ``, nil)
}

// ListApplicationsByStudent returns a student's applications, newest first.
func (s *Storage) ListApplicationsByStudent(ctx context.Context, studentID int64) ([]*models.Application, error) {
	const op = "storage.ListApplicationsByStudent"
	return s.listApplications(ctx, op, `WHERE ap.student_id = $1`, []any{studentID})
}

// ListApplicationsByJobOffer returns the applications to an offer, newest first.
func (s *Storage) ListApplicationsByJobOffer(ctx context.Context, jobOfferID int64) ([]*models.Application, error) {
	const op = "storage.ListApplicationsByJobOffer"
	return s.listApplications(ctx, op, `WHERE ap.job_offer_id = $1`, []any{jobOfferID})
}

func (s *Storage) listApplications(ctx context.Context, op, where string, args []any) ([]*models.Application, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`SELECT %s %s %s ORDER BY ap.data_inscricao DESC, ap.id DESC`,
		applicationColumns, applicationFrom, where)
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateApplicationStatus sets the review status of an application.
func (s *Storage) UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) error {
	const op = "storage.UpdateApplicationStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`, status, id)
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

// DeleteApplication removes an application by id.
func (s *Storage) DeleteApplication(ctx context.Context, id int64) error {
	const op = "storage.DeleteApplication"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
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

// CountApplicationsByStudent returns how many applications a student submitted.
func (s *Storage) CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error) {
	const op = "storage.CountApplicationsByStudent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var n int64
	query := `SELECT COUNT(*) FROM applications WHERE student_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, studentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CountApplicationsByJobOffer returns how many applications an offer received.
func (s *Storage) CountApplicationsByJobOffer(ctx context.Context, jobOfferID int64) (int64, error) {
	const op = "storage.CountApplicationsByJobOffer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var n int64
	query := `SELECT COUNT(*) FROM applications WHERE job_offer_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, jobOfferID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
