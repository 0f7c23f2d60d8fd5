// Package router assembles the route table and the middleware chain.
//
// Route table:
//
//	GET    /api/alunos                               → list students
//	POST   /api/alunos                               → create a student
//	GET    /api/alunos/{id}                          → get one student
//	PUT    /api/alunos/{id}                          → update a student
//	DELETE /api/alunos/{id}                          → delete a student
//	POST   /api/alunos/{alunoId}/matricular/{cursoId}    → enroll
//	DELETE /api/alunos/{alunoId}/desmatricular/{cursoId} → unenroll
//	(the same five CRUD routes under /api/cursos)
//	GET    /actuator/health                          → health (public)
//	GET    /v3/api-docs                              → OpenAPI (public)
package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/http/handlers/course"
	"github.com/aanand-mishra/academico-api/internal/http/handlers/student"
	"github.com/aanand-mishra/academico-api/internal/http/handlers/system"
	"github.com/aanand-mishra/academico-api/internal/http/middleware"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Students      student.Service
	Courses       course.Service
	DB            system.Pinger
	Authenticator middleware.Authenticator
	Logger        *zap.Logger
}

// New returns the fully wrapped application handler.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/alunos", student.GetList(d.Students))
	mux.HandleFunc("POST /api/alunos", student.New(d.Students))
	mux.HandleFunc("GET /api/alunos/{id}", student.GetByID(d.Students))
	mux.HandleFunc("PUT /api/alunos/{id}", student.Update(d.Students))
	mux.HandleFunc("DELETE /api/alunos/{id}", student.Delete(d.Students))
	mux.HandleFunc("POST /api/alunos/{alunoId}/matricular/{cursoId}", student.Enroll(d.Students))
	mux.HandleFunc("DELETE /api/alunos/{alunoId}/desmatricular/{cursoId}", student.Unenroll(d.Students))

	mux.HandleFunc("GET /api/cursos", course.GetList(d.Courses))
	mux.HandleFunc("POST /api/cursos", course.New(d.Courses))
	mux.HandleFunc("GET /api/cursos/{id}", course.GetByID(d.Courses))
	mux.HandleFunc("PUT /api/cursos/{id}", course.Update(d.Courses))
	mux.HandleFunc("DELETE /api/cursos/{id}", course.Delete(d.Courses))

	mux.HandleFunc("GET /actuator/health", system.Health(d.DB))
	mux.HandleFunc("GET /v3/api-docs", system.APIDocs())

	return middleware.Chain(mux,
		middleware.RequestLogger(d.Logger),
		middleware.Recoverer(d.Logger),
		middleware.BasicAuth(d.Authenticator, middleware.PublicPrefixes),
	)
}
