package portalestagios

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	applicationcreate "github.com/meuprojeto/portal-estagios/internal/http/handlers/application/create"
	applicationlist "github.com/meuprojeto/portal-estagios/internal/http/handlers/application/list"
	applicationread "github.com/meuprojeto/portal-estagios/internal/http/handlers/application/read"
	applicationremove "github.com/meuprojeto/portal-estagios/internal/http/handlers/application/remove"
	applicationsetstatus "github.com/meuprojeto/portal-estagios/internal/http/handlers/application/setstatus"
	areacreate "github.com/meuprojeto/portal-estagios/internal/http/handlers/area/create"
	arealist "github.com/meuprojeto/portal-estagios/internal/http/handlers/area/list"
	arearead "github.com/meuprojeto/portal-estagios/internal/http/handlers/area/read"
	arearemove "github.com/meuprojeto/portal-estagios/internal/http/handlers/area/remove"
	areaupdate "github.com/meuprojeto/portal-estagios/internal/http/handlers/area/update"
	"github.com/meuprojeto/portal-estagios/internal/http/handlers/auth/login"
	companylist "github.com/meuprojeto/portal-estagios/internal/http/handlers/company/list"
	companyread "github.com/meuprojeto/portal-estagios/internal/http/handlers/company/read"
	companyregister "github.com/meuprojeto/portal-estagios/internal/http/handlers/company/register"
	companyremove "github.com/meuprojeto/portal-estagios/internal/http/handlers/company/remove"
	companyupdate "github.com/meuprojeto/portal-estagios/internal/http/handlers/company/update"
	jobofferclose "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/close"
	joboffercreate "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/create"
	jobofferlist "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/list"
	jobofferread "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/read"
	jobofferremove "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/remove"
	jobofferstats "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/stats"
	jobofferupdate "github.com/meuprojeto/portal-estagios/internal/http/handlers/joboffer/update"
	studentlist "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/list"
	studentread "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/read"
	studentregister "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/register"
	studentremove "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/remove"
	studentresume "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/resume"
	studentupdate "github.com/meuprojeto/portal-estagios/internal/http/handlers/student/update"
	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/http/policy"
	"github.com/meuprojeto/portal-estagios/internal/lib/jwt"
	applicationservice "github.com/meuprojeto/portal-estagios/internal/services/application"
	areaservice "github.com/meuprojeto/portal-estagios/internal/services/area"
	authservice "github.com/meuprojeto/portal-estagios/internal/services/auth"
	companyservice "github.com/meuprojeto/portal-estagios/internal/services/company"
	jobofferservice "github.com/meuprojeto/portal-estagios/internal/services/joboffer"
	resumeservice "github.com/meuprojeto/portal-estagios/internal/services/resume"
	studentservice "github.com/meuprojeto/portal-estagios/internal/services/student"
)

// Services groups the domain services the router wires handlers to.
type Services struct {
	Auth        *authservice.AuthService
	Area        *areaservice.AreaService
	Company     *companyservice.CompanyService
	Student     *studentservice.StudentService
	JobOffer    *jobofferservice.JobOfferService
	Application *applicationservice.ApplicationService
	Resume      *resumeservice.ResumeService
}

// RegisterRoutes registers every route of the portal. Authentication only
// identifies the caller; the policy middleware is what rejects.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, svc *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(jwtMaker, logger))
		r.Use(policy.Middleware(policy.Table, "/api", logger))

		r.With(middlewarectx.RateLimitMiddleware(logger)).
			Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)

		r.Post("/areas", areacreate.New(logger, svc.Area).ServeHTTP)
		r.Get("/areas", arealist.New(logger, svc.Area).ServeHTTP)
		r.Get("/areas/{id}", arearead.New(logger, svc.Area).ServeHTTP)
		r.Put("/areas/{id}", areaupdate.New(logger, svc.Area).ServeHTTP)
		r.Delete("/areas/{id}", arearemove.New(logger, svc.Area).ServeHTTP)

		r.Post("/companies", companyregister.New(logger, svc.Company).ServeHTTP)
		r.Get("/companies", companylist.New(logger, svc.Company).ServeHTTP)
		r.Get("/companies/{id}", companyread.New(logger, svc.Company).ServeHTTP)
		r.Put("/companies/{id}", companyupdate.New(logger, svc.Company).ServeHTTP)
		r.Delete("/companies/{id}", companyremove.New(logger, svc.Company).ServeHTTP)

		r.Post("/students", studentregister.New(logger, svc.Student).ServeHTTP)
		r.Get("/students", studentlist.New(logger, svc.Student).ServeHTTP)
		r.Get("/students/{id}", studentread.New(logger, svc.Student).ServeHTTP)
		r.Get("/students/{id}/resume", studentresume.New(logger, svc.Resume).ServeHTTP)
		r.Put("/students/{id}", studentupdate.New(logger, svc.Student).ServeHTTP)
		r.Delete("/students/{id}", studentremove.New(logger, svc.Student).ServeHTTP)

		offerList := jobofferlist.New(logger, svc.JobOffer)
		r.Post("/job-offers", joboffercreate.New(logger, svc.JobOffer).ServeHTTP)
		r.Get("/job-offers", offerList.Active)
		r.Get("/job-offers/estatisticas", jobofferstats.New(logger, svc.JobOffer).ServeHTTP)
		r.Get("/job-offers/company/{id}", offerList.ByCompany)
		r.Get("/job-offers/area/{id}", offerList.ByArea)
		r.Get("/job-offers/areas", offerList.ByAreas)
		r.Get("/job-offers/{id}", jobofferread.New(logger, svc.JobOffer).ServeHTTP)
		r.Put("/job-offers/{id}", jobofferupdate.New(logger, svc.JobOffer).ServeHTTP)
		r.Patch("/job-offers/{id}/encerrar", jobofferclose.New(logger, svc.JobOffer).ServeHTTP)
		r.Delete("/job-offers/{id}", jobofferremove.New(logger, svc.JobOffer).ServeHTTP)

		appList := applicationlist.New(logger, svc.Application)
		r.Post("/applications", applicationcreate.New(logger, svc.Application).ServeHTTP)
		r.Get("/applications", appList.All)
		r.Get("/applications/student/{id}", appList.ByStudent)
		r.Get("/applications/job-offer/{id}", appList.ByJobOffer)
		r.Get("/applications/{id}", applicationread.New(logger, svc.Application).ServeHTTP)
		r.Patch("/applications/{id}/status", applicationsetstatus.New(logger, svc.Application).ServeHTTP)
		r.Delete("/applications/{id}", applicationremove.New(logger, svc.Application).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
