package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// CreateStudent inserts the shared identity row, the student payload and the
// ordered profile collections in one transaction and returns the new id.
// Email and cpf duplicates surface as ErrConflict.
func (s *Storage) CreateStudent(ctx context.Context, st models.Student) (int64, error) {
	const op = "storage.CreateStudent"
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
		st.Nome, st.Email, st.SenhaHash, st.Telefone, models.RoleStudent).Scan(&id); err != nil {
		return 0, mapErr(op, err)
	}

	query = `INSERT INTO students (user_id, cpf, curso, data_nascimento, linkedin, github, portfolio, resumo)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, query, id, st.CPF, st.Curso, st.DataNascimento,
		st.Linkedin, st.Github, st.Portfolio, st.Resumo); err != nil {
		return 0, mapErr(op, err)
	}

	if err = replaceStudentProfile(ctx, tx, id, st); err != nil {
		return 0, mapErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetStudent returns a student with the identity payload, the profile
// collections in their stored order and the interest areas.
func (s *Storage) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	const op = "storage.GetStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	st := &models.Student{}
	query := `SELECT u.id, u.nome, u.email, u.senha_hash, u.telefone, u.role,
			      u.data_criacao, u.data_atualizacao,
			      s.cpf, s.curso, s.data_nascimento, s.linkedin, s.github, s.portfolio, s.resumo
			  FROM users u
			  JOIN students s ON s.user_id = u.id
			  WHERE u.id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&st.ID, &st.Nome, &st.Email,
		&st.SenhaHash, &st.Telefone, &st.Role, &st.DataCriacao, &st.DataAtualizacao,
		&st.CPF, &st.Curso, &st.DataNascimento, &st.Linkedin, &st.Github,
		&st.Portfolio, &st.Resumo); err != nil {
		return nil, mapErr(op, err)
	}

	if err := s.loadStudentProfile(ctx, st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// GetStudentByEmail resolves a student profile by the identity email.
func (s *Storage) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	const op = "storage.GetStudentByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `SELECT u.id FROM users u JOIN students s ON s.user_id = u.id WHERE u.email = $1`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&id); err != nil {
		return nil, mapErr(op, err)
	}
	return s.GetStudent(ctx, id)
}

// ListStudents returns every student ordered by nome, without the profile
// collections.
func (s *Storage) ListStudents(ctx context.Context) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.nome, u.email, u.telefone, u.role,
			      u.data_criacao, u.data_atualizacao,
			      s.cpf, s.curso, s.data_nascimento, s.linkedin, s.github, s.portfolio, s.resumo
			  FROM users u
			  JOIN students s ON s.user_id = u.id
			  ORDER BY u.nome`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Student
	for rows.Next() {
		st := &models.Student{}
		if err = rows.Scan(&st.ID, &st.Nome, &st.Email, &st.Telefone, &st.Role,
			&st.DataCriacao, &st.DataAtualizacao, &st.CPF, &st.Curso, &st.DataNascimento,
			&st.Linkedin, &st.Github, &st.Portfolio, &st.Resumo); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStudent overwrites the mutable fields of a student, including the
// ordered profile collections, which are replaced wholesale. The senha hash
// is replaced only when non-empty; role and id never change.
func (s *Storage) UpdateStudent(ctx context.Context, st models.Student) error {
	const op = "storage.UpdateStudent"
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
	res, err := tx.ExecContext(ctx, query, st.Nome, st.Email, st.Telefone, st.SenhaHash, st.ID, models.RoleStudent)
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

	query = `UPDATE students
			 SET cpf = $1, curso = $2, data_nascimento = $3, linkedin = $4,
			     github = $5, portfolio = $6, resumo = $7
			 WHERE user_id = $8`
	if _, err = tx.ExecContext(ctx, query, st.CPF, st.Curso, st.DataNascimento,
		st.Linkedin, st.Github, st.Portfolio, st.Resumo, st.ID); err != nil {
		return mapErr(op, err)
	}

	if err = replaceStudentProfile(ctx, tx, st.ID, st); err != nil {
		return mapErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteStudent removes the identity row; the student payload, the profile
// collections and the student's applications go with it through the cascade.
func (s *Storage) DeleteStudent(ctx context.Context, id int64) error {
	const op = "storage.DeleteStudent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1 AND role = $2`, id, models.RoleStudent)
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

// StudentExistsByCPF reports whether a student with the given cpf exists.
func (s *Storage) StudentExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	const op = "storage.StudentExistsByCPF"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM students WHERE cpf = $1)`
	if err := s.DB.QueryRowContext(ctx, query, cpf).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// replaceStudentProfile rewrites the ordered collections and the interest
// area set of a student inside the surrounding transaction.
func replaceStudentProfile(ctx context.Context, tx *sql.Tx, studentID int64, st models.Student) error {
	for _, table := range []string{"student_education", "student_experience", "student_skills", "student_areas"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE student_id = $1`, table), studentID); err != nil {
			return err
		}
	}

	for i, e := range st.Educacao {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_education (student_id, posicao, nivel, curso, instituicao, data_inicio, data_fim, em_andamento, descricao)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			studentID, i, e.Nivel, e.Curso, e.Instituicao, e.DataInicio, e.DataFim, e.EmAndamento, e.Descricao); err != nil {
			return err
		}
	}
	for i, e := range st.Experiencia {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_experience (student_id, posicao, cargo, empresa, data_inicio, data_fim, atual, descricao)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			studentID, i, e.Cargo, e.Empresa, e.DataInicio, e.DataFim, e.Atual, e.Descricao); err != nil {
			return err
		}
	}
	for i, h := range st.Habilidades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_skills (student_id, posicao, nome, nivel, categoria)
			 VALUES ($1, $2, $3, $4, $5)`,
			studentID, i, h.Nome, h.Nivel, h.Categoria); err != nil {
			return err
		}
	}
	for _, a := range st.AreasInteresse {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO student_areas (student_id, area_id) VALUES ($1, $2)`,
			studentID, a.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadStudentProfile(ctx context.Context, st *models.Student) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT nivel, curso, instituicao, data_inicio, data_fim, em_andamento, descricao
		 FROM student_education WHERE student_id = $1 ORDER BY posicao`, st.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e models.Education
		if err = rows.Scan(&e.Nivel, &e.Curso, &e.Instituicao, &e.DataInicio,
			&e.DataFim, &e.EmAndamento, &e.Descricao); err != nil {
			_ = rows.Close()
			return err
		}
		st.Educacao = append(st.Educacao, e)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	rows, err = s.DB.QueryContext(ctx,
		`SELECT cargo, empresa, data_inicio, data_fim, atual, descricao
		 FROM student_experience WHERE student_id = $1 ORDER BY posicao`, st.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var e models.Experience
		if err = rows.Scan(&e.Cargo, &e.Empresa, &e.DataInicio, &e.DataFim,
			&e.Atual, &e.Descricao); err != nil {
			_ = rows.Close()
			return err
		}
		st.Experiencia = append(st.Experiencia, e)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	rows, err = s.DB.QueryContext(ctx,
		`SELECT nome, nivel, categoria
		 FROM student_skills WHERE student_id = $1 ORDER BY posicao`, st.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var h models.Skill
		if err = rows.Scan(&h.Nome, &h.Nivel, &h.Categoria); err != nil {
			_ = rows.Close()
			return err
		}
		st.Habilidades = append(st.Habilidades, h)
	}
	_ = rows.Close()
	if err = rows.Err(); err != nil {
		return err
	}

	areas, err := s.areasOf(ctx, `SELECT a.id, a.nome FROM areas a
		JOIN student_areas sa ON sa.area_id = a.id WHERE sa.student_id = $1 ORDER BY a.nome`, st.ID)
	if err != nil {
		return err
	}
	st.AreasInteresse = areas
	return nil
}
