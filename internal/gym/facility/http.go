// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package facility

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gymfusion/gymfusion/internal/platform/middleware"
	requestutil "github.com/gymfusion/gymfusion/internal/platform/request"
	"github.com/gymfusion/gymfusion/internal/platform/respond"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
	"github.com/gymfusion/gymfusion/internal/platform/validate"
	"github.com/gymfusion/gymfusion/pkg/pagination"
)

// Handler implements facility HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a facility Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the facility endpoints. Reads are public; every
// mutation requires the ADMIN role (403 otherwise).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
		r.Patch("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Delete("/", handler.deleteAll)
	})
}

type facilityRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Availability *bool    `json:"availability"`
	Location     string   `json:"location"`
	OpeningHours string   `json:"opening_hours"`
	Capacity     int      `json:"capacity"`
	Equipment    []string `json:"equipment"`
}

type facilityPatchRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Availability *bool    `json:"availability"`
	Location     *string  `json:"location"`
	OpeningHours *string  `json:"opening_hours"`
	Capacity     *int     `json:"capacity"`
	Equipment    []string `json:"equipment"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	facilities, meta, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, facilities, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	facility, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, facility)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input facilityRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		Required("description", input.Description).
		Required("location", input.Location).
		Required("opening_hours", input.OpeningHours).
		Positive("capacity", input.Capacity)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	facility, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Description:  input.Description,
		Availability: input.Availability,
		Location:     input.Location,
		OpeningHours: input.OpeningHours,
		Capacity:     input.Capacity,
		EquipmentIDs: input.Equipment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, facility)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input facilityPatchRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Capacity != nil {
		v.Positive("capacity", *input.Capacity)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	facility, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), UpdateInput{
		Name:         input.Name,
		Description:  input.Description,
		Availability: input.Availability,
		Location:     input.Location,
		OpeningHours: input.OpeningHours,
		Capacity:     input.Capacity,
		EquipmentIDs: input.Equipment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, facility)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteAll(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.DeleteAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"deleted_count": count,
		"message":       "All facilities deleted",
	})
}
