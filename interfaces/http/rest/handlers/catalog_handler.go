package handlers

import (
	"net/http"

	"ifn-backend/application/queries"
	querybus "ifn-backend/application/queries/bus"
	"ifn-backend/pkg/common"
	"ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

// CatalogHandler serves the cross-collection reads: the collection catalog,
// the universal search and the problem report
type CatalogHandler struct {
	queryBus *querybus.QueryBus
	errs     *errors.ErrorHandler
	logger   *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(queryBus *querybus.QueryBus, errs *errors.ErrorHandler, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{queryBus: queryBus, errs: errs, logger: logger}
}

// Collections handles GET /collections
func (h *CatalogHandler) Collections(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListCollectionsQuery{})
}

// Search handles GET /search?q=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.UniversalSearchQuery{Term: r.URL.Query().Get("q")})
}

// ProblemReport handles GET /reports/problemas?from=&to=
func (h *CatalogHandler) ProblemReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.ask(w, r, queries.ProblemReportQuery{From: q.Get("from"), To: q.Get("to")})
}

func (h *CatalogHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errs.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, common.NewMeta(r))
}
