package handlers

import (
	"context"

	"ifn-backend/application/commands"
	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/validators"
	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"

	"go.uber.org/zap"
)

// ListViewReloader re-runs open list views after a store swap
type ListViewReloader interface {
	ReloadCollection(collection inventory.Name) int
}

// CollectionHandler handles the commands that replace a whole collection
type CollectionHandler struct {
	source      ports.RecordSource
	writer      ports.RecordWriter
	catalog     ports.StoreCatalog
	collections *inventory.Registry
	views       ListViewReloader
	logger      *zap.Logger
}

// NewCollectionHandler creates the handler. writer and views may be nil.
func NewCollectionHandler(
	source ports.RecordSource,
	writer ports.RecordWriter,
	catalog ports.StoreCatalog,
	collections *inventory.Registry,
	views ListViewReloader,
	logger *zap.Logger,
) *CollectionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionHandler{
		source:      source,
		writer:      writer,
		catalog:     catalog,
		collections: collections,
		views:       views,
		logger:      logger,
	}
}

// HandleReload loads the collection from the source and swaps the store
func (h *CollectionHandler) HandleReload(ctx context.Context, cmd commands.ReloadCollectionCommand) error {
	name := cmd.CollectionName()
	store, _, err := h.lookup(name)
	if err != nil {
		return err
	}
	records, err := h.source.LoadRecords(ctx, name)
	if err != nil {
		return errors.Wrapf(err, "reload %s", name)
	}
	return h.swap(name, store, records, cmd.RequestedBy)
}

// HandleImport decodes the payload, persists it when a writer is configured and swaps the store
func (h *CollectionHandler) HandleImport(ctx context.Context, cmd commands.ImportRecordsCommand) error {
	name := cmd.CollectionName()
	store, def, err := h.lookup(name)
	if err != nil {
		return err
	}
	records, rejected, err := def.Layout.DecodeList(cmd.Payload)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	if len(rejected) > 0 {
		return errors.NewValidationError("import contains rows without a usable id").
			WithDetails(map[string]interface{}{"rejected": len(rejected)})
	}
	// duplicates must be caught before anything is persisted
	if _, err := validators.NewRecordValidator().ValidateCollection(records); err != nil {
		return err
	}
	if h.writer != nil {
		if err := h.writer.SaveRecords(ctx, name, records); err != nil {
			return errors.Wrapf(err, "persist %s", name)
		}
	}
	return h.swap(name, store, records, cmd.RequestedBy)
}

func (h *CollectionHandler) lookup(name inventory.Name) (ports.RecordStore, inventory.Collection, error) {
	def, ok := h.collections.Get(name)
	if !ok {
		return nil, inventory.Collection{}, errors.NewNotFoundError("collection " + string(name)).WithCode(errors.CodeUnknownCollection)
	}
	store, err := h.catalog.Store(name)
	if err != nil {
		return nil, inventory.Collection{}, err
	}
	return store, def, nil
}

func (h *CollectionHandler) swap(name inventory.Name, store ports.RecordStore, records []*entities.Record, by string) error {
	if err := store.Replace(records); err != nil {
		return err
	}
	refreshed := 0
	if h.views != nil {
		refreshed = h.views.ReloadCollection(name)
	}
	h.logger.Info("Collection replaced",
		zap.String("collection", string(name)),
		zap.Int("records", len(records)),
		zap.Uint64("version", store.Version()),
		zap.Int("listviews", refreshed),
		zap.String("requested_by", by),
	)
	return nil
}
