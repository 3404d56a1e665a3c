package equipment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gymfusion/gymfusion/internal/platform/middleware"
	requestutil "github.com/gymfusion/gymfusion/internal/platform/request"
	"github.com/gymfusion/gymfusion/internal/platform/respond"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
	"github.com/gymfusion/gymfusion/internal/platform/validate"
	"github.com/gymfusion/gymfusion/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the equipment endpoints. Reads are public; every
// mutation requires the ADMIN role.
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

type equipmentRequest struct {
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	Brand               string     `json:"brand"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	Condition           string     `json:"condition"`
	Location            string     `json:"location"`
	MaintenanceSchedule []time.Time `json:"maintenance_schedule"`
	IsAvailable         *bool      `json:"is_available"`
}

type equipmentPatchRequest struct {
	Name                *string     `json:"name"`
	Type                *string     `json:"type"`
	Brand               *string     `json:"brand"`
	PurchaseDate        *time.Time  `json:"purchase_date"`
	Condition           *string     `json:"condition"`
	Location            *string     `json:"location"`
	MaintenanceSchedule []time.Time `json:"maintenance_schedule"`
	IsAvailable         *bool       `json:"is_available"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	items, meta, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, meta)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input equipmentRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).
		Required("type", input.Type).
		Required("location", input.Location).
		Custom("purchase_date", input.PurchaseDate == nil, "is required")

	if input.Condition != "" {
		v.OneOf("condition", input.Condition,
			string(ConditionNew), string(ConditionGood), string(ConditionFair), string(ConditionPoor))
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Create(request.Context(), CreateInput{
		Name:                input.Name,
		Type:                input.Type,
		Brand:               input.Brand,
		PurchaseDate:        *input.PurchaseDate,
		Condition:           Condition(input.Condition),
		Location:            input.Location,
		MaintenanceSchedule: input.MaintenanceSchedule,
		IsAvailable:         input.IsAvailable,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, item)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input equipmentPatchRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Condition != nil {
		v.OneOf("condition", *input.Condition,
			string(ConditionNew), string(ConditionGood), string(ConditionFair), string(ConditionPoor))
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	patch := UpdateInput{
		Name:                input.Name,
		Type:                input.Type,
		Brand:               input.Brand,
		PurchaseDate:        input.PurchaseDate,
		Location:            input.Location,
		MaintenanceSchedule: input.MaintenanceSchedule,
		IsAvailable:         input.IsAvailable,
	}
	if input.Condition != nil {
		condition := Condition(*input.Condition)
		patch.Condition = &condition
	}

	item, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, item)
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
		"message":       "All equipment deleted",
	})
}
