// Package course contains the HTTP handlers for the /api/cursos resource.
// Handlers follow the same factory pattern as package student.
package course

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/logger"
	"github.com/aanand-mishra/academico-api/internal/storage"
	"github.com/aanand-mishra/academico-api/internal/types"
	"github.com/aanand-mishra/academico-api/internal/utils/request"
	"github.com/aanand-mishra/academico-api/internal/utils/response"
)

// Service is what the handlers need from the course domain service.
type Service interface {
	FindAll(ctx context.Context) ([]types.Course, error)
	FindByID(ctx context.Context, id int64) (types.Course, error)
	Save(ctx context.Context, course *types.Course) error
	UpdateDetails(ctx context.Context, id int64, details types.Course) (types.Course, error)
	DeleteByID(ctx context.Context, id int64) error
}

// New handles POST /api/cursos
//
//	{ "nome": "Math", "cargaHoraria": 60 }  →  201 + stored course
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var course types.Course
		if err := request.DecodeJSON(r, &course); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		course.ID = 0

		if err := svc.Save(r.Context(), &course); err != nil {
			serverError(w, "error creating course", err)
			return
		}

		zap.L().Info("course created", logger.CourseID(course.ID))
		response.WriteJSON(w, http.StatusCreated, course)
	}
}

// GetList handles GET /api/cursos
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := svc.FindAll(r.Context())
		if err != nil {
			serverError(w, "error listing courses", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// GetByID handles GET /api/cursos/{id}
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		course, err := svc.FindByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error getting course", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, course)
	}
}

// Update handles PUT /api/cursos/{id}
// Only nome and cargaHoraria are overwritten.
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		var details types.Course
		if err := request.DecodeJSON(r, &details); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		course, err := svc.UpdateDetails(r.Context(), id, details)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error updating course", err)
			return
		}

		zap.L().Info("course updated", logger.CourseID(id))
		response.WriteJSON(w, http.StatusOK, course)
	}
}

// Delete handles DELETE /api/cursos/{id}
// Enrollments of the course are removed with it.
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r, "id")
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		_, err = svc.FindByID(r.Context(), id)
		if err == nil {
			err = svc.DeleteByID(r.Context(), id)
		}
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteEmpty(w, http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, "error deleting course", err)
			return
		}

		zap.L().Info("course deleted", logger.CourseID(id))
		response.WriteEmpty(w, http.StatusNoContent)
	}
}

func serverError(w http.ResponseWriter, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
