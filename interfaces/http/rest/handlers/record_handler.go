package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"ifn-backend/application/commands"
	"ifn-backend/application/commands/bus"
	"ifn-backend/application/queries"
	querybus "ifn-backend/application/queries/bus"
	"ifn-backend/domain/config"
	"ifn-backend/pkg/common"
	"ifn-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecordHandler serves the listings of a collection and the commands that replace it
type RecordHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	settings   config.ListingSource
	errs       *errors.ErrorHandler
	logger     *zap.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	settings config.ListingSource,
	errs *errors.ErrorHandler,
	logger *zap.Logger,
) *RecordHandler {
	return &RecordHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		settings:   settings,
		errs:       errs,
		logger:     logger,
	}
}

// ReloadResponse acknowledges a store replacement
type ReloadResponse struct {
	Collection string `json:"collection"`
	Status     string `json:"status"`
}

// List handles GET /records/{collection}?q=&category=&date=&preset=&page=&page_size=
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	params, err := common.ExtractPaginationParams(r, h.settings.Current().PageSize)
	if err != nil {
		h.errs.Handle(w, r, errors.NewValidationError(err.Error()))
		return
	}

	q := r.URL.Query()
	result, err := h.queryBus.Ask(r.Context(), queries.ListRecordsQuery{
		Collection: chi.URLParam(r, "collection"),
		Text:       q.Get("q"),
		Category:   q.Get("category"),
		Date:       q.Get("date"),
		Preset:     q.Get("preset"),
		Page:       params.Page,
		PageSize:   params.PageSize,
		Roles:      user.Roles,
	})
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	res, ok := result.(*queries.ListRecordsResult)
	if !ok {
		h.errs.Handle(w, r, errors.NewInternalError("unexpected list result"))
		return
	}

	meta := common.NewMeta(r)
	meta.Version = res.Version
	meta.Pagination = common.BuildPaginationMeta(res.Model.CurrentPage, params.PageSize, res.Model.TotalItems, res.Model.TotalPages)
	common.RespondWithMeta(w, http.StatusOK, res, meta)
}

// Reload handles POST /records/{collection}/reload
func (h *RecordHandler) Reload(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	collection := chi.URLParam(r, "collection")
	if err := h.commandBus.Send(r.Context(), commands.ReloadCollectionCommand{
		Collection:  collection,
		RequestedBy: user.UserID,
	}); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, ReloadResponse{Collection: collection, Status: "reloaded"})
}

// Import handles POST /records/{collection}/import with a JSON array of records
func (h *RecordHandler) Import(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.errs.HandleStatus(w, r, http.StatusRequestEntityTooLarge, "import payload is too large")
			return
		}
		h.errs.Handle(w, r, errors.NewValidationError("could not read request body").WithCause(err))
		return
	}

	collection := chi.URLParam(r, "collection")
	if err := h.commandBus.Send(r.Context(), commands.ImportRecordsCommand{
		Collection:  collection,
		Payload:     payload,
		RequestedBy: user.UserID,
	}); err != nil {
		h.errs.Handle(w, r, err)
		return
	}

	h.logger.Info("Collection imported",
		zap.String("collection", collection),
		zap.String("user_id", user.UserID),
		zap.Int("bytes", len(payload)),
	)
	common.RespondJSON(w, http.StatusOK, ReloadResponse{Collection: collection, Status: "imported"})
}
