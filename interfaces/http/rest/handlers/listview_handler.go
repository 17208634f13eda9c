package handlers

import (
	"net/http"

	"ifn-backend/application/listview"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/common"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListViewGauge is told the number of open list views after every change
type ListViewGauge interface {
	SetListViews(n int)
}

// ListViewHandler exposes interactive list views to remote clients. Each view
// is a controller session owned by the user that opened it.
type ListViewHandler struct {
	views  *listview.Registry
	gauge  ListViewGauge
	errs   *errors.ErrorHandler
	logger *zap.Logger
}

// NewListViewHandler creates a new list view handler. gauge may be nil.
func NewListViewHandler(views *listview.Registry, gauge ListViewGauge, errs *errors.ErrorHandler, logger *zap.Logger) *ListViewHandler {
	return &ListViewHandler{views: views, gauge: gauge, errs: errs, logger: logger}
}

// CreateListViewRequest opens a view on a collection
type CreateListViewRequest struct {
	Collection string `json:"collection" validate:"required,max=64"`
}

// ListViewResponse is a view's id and current state
type ListViewResponse struct {
	ID       string            `json:"id"`
	Changed  *bool             `json:"changed,omitempty"`
	Snapshot listview.Snapshot `json:"snapshot"`
}

// Create handles POST /listviews
func (h *ListViewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	var req CreateListViewRequest
	if err := common.ParseJSONBody(w, r, &req, maxEventBytes); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	id, ctrl, err := h.views.Create(inventory.Name(req.Collection), user.UserID, user.Roles)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.observe()

	common.RespondJSON(w, http.StatusCreated, ListViewResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// Get handles GET /listviews/{id}
func (h *ListViewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, ListViewResponse{ID: id, Snapshot: ctrl.Snapshot()})
}

// Dispatch handles POST /listviews/{id}/events
func (h *ListViewHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := h.session(w, r)
	if !ok {
		return
	}

	var ev listview.Event
	if err := common.ParseJSONBody(w, r, &ev, maxEventBytes); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}
	if err := utils.ValidateStruct(ev); err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	changed, err := ctrl.Dispatch(ev)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ListViewResponse{ID: id, Changed: &changed, Snapshot: ctrl.Snapshot()})
}

// Delete handles DELETE /listviews/{id}
func (h *ListViewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	if err := h.views.Delete(chi.URLParam(r, "id"), user.UserID); err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	h.observe()
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListViewHandler) session(w http.ResponseWriter, r *http.Request) (string, *listview.Controller, bool) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return "", nil, false
	}

	id := chi.URLParam(r, "id")
	ctrl, err := h.views.Get(id, user.UserID)
	if err != nil {
		h.errs.Handle(w, r, err)
		return "", nil, false
	}
	return id, ctrl, true
}

func (h *ListViewHandler) observe() {
	if h.gauge != nil {
		h.gauge.SetListViews(h.views.Len())
	}
}
