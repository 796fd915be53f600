package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/meuprojeto/portal-estagios/internal/migrations"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	require.NoError(t, migrations.Run(storage.DB, "../../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

func createTestArea(t *testing.T, s *Storage, nome string) models.Area {
	id, err := s.CreateArea(context.Background(), models.Area{Nome: nome})
	require.NoError(t, err)
	return models.Area{ID: id, Nome: nome}
}

func createTestCompany(t *testing.T, s *Storage, areas ...models.Area) *models.Company {
	suffix := uuid.New().String()[:8]
	id, err := s.CreateCompany(context.Background(), models.Company{
		User: models.User{
			Nome:      "Empresa " + suffix,
			Email:     fmt.Sprintf("empresa-%s@teste.com", suffix),
			SenhaHash: "hash",
			Telefone:  "1133334444",
			Role:      models.RoleCompany,
		},
		CNPJ:         suffix + "000190",
		Endereco:     "Av. Paulista, 1000",
		AreasAtuacao: areas,
	})
	require.NoError(t, err)

	company, err := s.GetCompany(context.Background(), id)
	require.NoError(t, err)
	return company
}

func createTestStudent(t *testing.T, s *Storage, areas ...models.Area) *models.Student {
	suffix := uuid.New().String()[:8]
	id, err := s.CreateStudent(context.Background(), models.Student{
		User: models.User{
			Nome:      "Aluno " + suffix,
			Email:     fmt.Sprintf("aluno-%s@teste.com", suffix),
			SenhaHash: "hash",
			Role:      models.RoleStudent,
		},
		CPF:            suffix + "901",
		Curso:          "Ciência da Computação",
		AreasInteresse: areas,
	})
	require.NoError(t, err)

	student, err := s.GetStudent(context.Background(), id)
	require.NoError(t, err)
	return student
}

func createTestOffer(t *testing.T, s *Storage, companyID int64, area models.Area) int64 {
	id, err := s.CreateJobOffer(context.Background(), models.JobOffer{
		Titulo:       "Estágio Backend",
		Descricao:    "Desenvolvimento de APIs em Go",
		Localizacao:  "São Paulo",
		Modalidade:   models.ModalidadeHibrido,
		CargaHoraria: 30,
		Requisitos:   "Go, SQL",
		Company:      models.CompanySummary{ID: companyID},
		Area:         area,
	})
	require.NoError(t, err)
	return id
}

func TestStorage_CompanyLifecycle(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	marketing := createTestArea(t, storage, "Marketing")

	company := createTestCompany(t, storage, tech, marketing)
	assert.Equal(t, models.RoleCompany, company.Role)
	assert.Len(t, company.AreasAtuacao, 2)

	exists, err := storage.CompanyExistsByCNPJ(ctx, company.CNPJ)
	require.NoError(t, err)
	assert.True(t, exists)

	// Full update replaces the area set.
	company.Nome = "Empresa Renomeada"
	company.AreasAtuacao = []models.Area{tech}
	require.NoError(t, storage.UpdateCompany(ctx, *company))

	updated, err := storage.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Empresa Renomeada", updated.Nome)
	assert.Len(t, updated.AreasAtuacao, 1)
	assert.NotNil(t, updated.DataAtualizacao)

	require.NoError(t, storage.DeleteCompany(ctx, company.ID))
	_, err = storage.GetCompany(ctx, company.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = storage.GetUserByID(ctx, company.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_StudentProfileRoundTrip(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	student := createTestStudent(t, storage, tech)

	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	student.Resumo = "Estudante de computação."
	student.Educacao = []models.Education{
		{Nivel: "Graduação", Curso: "Ciência da Computação", Instituicao: "USP", DataInicio: &start, EmAndamento: true},
		{Nivel: "Técnico", Curso: "Informática", Instituicao: "ETEC"},
	}
	student.Experiencia = []models.Experience{
		{Cargo: "Estagiário", Empresa: "Empresa X", DataInicio: &start, Atual: true},
	}
	student.Habilidades = []models.Skill{
		{Nome: "Go", Nivel: "Intermediário", Categoria: "Backend"},
		{Nome: "SQL", Nivel: "Avançado", Categoria: "Banco de Dados"},
	}
	require.NoError(t, storage.UpdateStudent(ctx, *student))

	got, err := storage.GetStudent(ctx, student.ID)
	require.NoError(t, err)

	// Collections come back in insertion order.
	require.Len(t, got.Educacao, 2)
	assert.Equal(t, "Graduação", got.Educacao[0].Nivel)
	assert.Equal(t, "Técnico", got.Educacao[1].Nivel)
	require.Len(t, got.Habilidades, 2)
	assert.Equal(t, "Go", got.Habilidades[0].Nome)
	require.Len(t, got.Experiencia, 1)
	assert.True(t, got.Experiencia[0].Atual)
	assert.Equal(t, []models.Area{tech}, got.AreasInteresse)

	byEmail, err := storage.GetStudentByEmail(ctx, student.Email)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byEmail.ID)
}

func TestStorage_JobOfferClose_FirstCloseWins(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	company := createTestCompany(t, storage, tech)
	offerID := createTestOffer(t, storage, company.ID, tech)

	require.NoError(t, storage.CloseJobOffer(ctx, offerID))
	closed, err := storage.GetJobOffer(ctx, offerID)
	require.NoError(t, err)
	assert.False(t, closed.Ativa)
	require.NotNil(t, closed.DataEncerramento)
	firstClose := *closed.DataEncerramento

	// A second close keeps the original closing time.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, storage.CloseJobOffer(ctx, offerID))
	again, err := storage.GetJobOffer(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, firstClose, *again.DataEncerramento)
}

func TestStorage_JobOfferListsAndStats(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	marketing := createTestArea(t, storage, "Marketing")
	company := createTestCompany(t, storage, tech)

	techOffer := createTestOffer(t, storage, company.ID, tech)
	marketingOffer := createTestOffer(t, storage, company.ID, marketing)
	closedOffer := createTestOffer(t, storage, company.ID, tech)
	require.NoError(t, storage.CloseJobOffer(ctx, closedOffer))

	active, err := storage.ListActiveJobOffers(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// The closed offer drops out of the company listing.
	byCompany, err := storage.ListActiveJobOffersByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)
	for _, o := range byCompany {
		assert.True(t, o.Ativa)
	}

	byArea, err := storage.ListActiveJobOffersByArea(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, byArea, 1)
	assert.Equal(t, techOffer, byArea[0].ID)
	assert.Equal(t, company.Nome, byArea[0].Company.Nome)

	byAreas, err := storage.ListActiveJobOffersByAreas(ctx, []int64{tech.ID, marketing.ID})
	require.NoError(t, err)
	assert.Len(t, byAreas, 2)
	_ = marketingOffer

	empty, err := storage.ListActiveJobOffersByAreas(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	stats, err := storage.JobOfferStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Ativas)
	assert.Equal(t, int64(1), stats.Encerradas)
}

func TestStorage_ApplicationUniqueIndex(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	company := createTestCompany(t, storage, tech)
	student := createTestStudent(t, storage, tech)
	offerID := createTestOffer(t, storage, company.ID, tech)

	appID, err := storage.CreateApplication(ctx, student.ID, offerID)
	require.NoError(t, err)

	app, err := storage.GetApplication(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendente, app.Status)
	assert.Equal(t, student.Nome, app.StudentNome)
	assert.Equal(t, "Estágio Backend", app.JobOfferTitle)

	_, err = storage.CreateApplication(ctx, student.ID, offerID)
	assert.ErrorIs(t, err, models.ErrConflict)

	byPair, err := storage.GetApplicationByStudentAndOffer(ctx, student.ID, offerID)
	require.NoError(t, err)
	assert.Equal(t, appID, byPair.ID)
	_, err = storage.GetApplicationByStudentAndOffer(ctx, student.ID+1, offerID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	byStudent, err := storage.CountApplicationsByStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byStudent)
}

func TestStorage_ApplicationConcurrentSubmissions(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	company := createTestCompany(t, storage, tech)
	student := createTestStudent(t, storage, tech)
	offerID := createTestOffer(t, storage, company.ID, tech)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = storage.CreateApplication(ctx, student.ID, offerID)
		}()
	}
	wg.Wait()

	// The unique index decides the race: exactly one submission lands.
	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	count, err := storage.CountApplicationsByJobOffer(ctx, offerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStorage_ApplicationStatusAndCascade(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tech := createTestArea(t, storage, "Tecnologia")
	company := createTestCompany(t, storage, tech)
	student := createTestStudent(t, storage, tech)
	offerID := createTestOffer(t, storage, company.ID, tech)

	appID, err := storage.CreateApplication(ctx, student.ID, offerID)
	require.NoError(t, err)

	require.NoError(t, storage.UpdateApplicationStatus(ctx, appID, models.StatusAprovado))
	app, err := storage.GetApplication(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprovado, app.Status)

	// Deleting the offer takes its applications with it.
	require.NoError(t, storage.DeleteJobOffer(ctx, offerID))
	_, err = storage.GetApplication(ctx, appID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_EnsureAdmin_Idempotent(t *testing.T) {
	storage, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	created, err := storage.EnsureAdmin(ctx, "Administrador", "admin@portal.com", "hash")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = storage.EnsureAdmin(ctx, "Administrador", "admin@portal.com", "other-hash")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := storage.GetUserByEmail(ctx, "admin@portal.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "hash", admin.SenhaHash)
}
