// Package listview drives one interactive record listing: it reacts to user
// events, debounces text input and re-runs the listing pipeline.
package listview

import (
	"sync"
	"time"

	"ifn-backend/application/ports"
	"ifn-backend/application/search"
	"ifn-backend/application/views"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"

	"go.uber.org/zap"
)

// Sink receives every model the controller produces. It is called with the
// controller locked and must not call back into it.
type Sink func(views.DisplayModel)

// Options tune a controller
type Options struct {
	PageSize    int
	PageWindow  int
	Debounce    time.Duration
	Sentinel    string
	DefaultDate valueobjects.Day
	Roles       []string
	Clock       utils.Clock
	Logger      *zap.Logger
	Metrics     ports.Metrics
	Sink        Sink

	DisableStats   bool
	DisablePresets bool

	// Search backs the universal search box of the view; nil disables it
	Search         *search.Searcher
	SearchDebounce time.Duration
}

// Controller owns the interaction state of one listing.
// Events are serialized; a timer callback takes the same lock as user events.
type Controller struct {
	mu sync.Mutex

	collection inventory.Collection
	store      ports.RecordStore
	renderer   *views.Renderer
	clock      utils.Clock
	logger     *zap.Logger
	metrics    ports.Metrics
	sink       Sink

	debounce       time.Duration
	pageSize       int
	sentinel       string
	defaultDate    valueobjects.Day
	disableStats   bool
	disablePresets bool

	state       State
	criteria    listing.Criteria
	pendingText string
	timer       utils.Timer
	generation  uint64

	page      int
	sorted    []*entities.Record
	malformed []*errors.AppError
	stats     *views.Stats
	model     views.DisplayModel
	closed    bool

	// searchBox publishes under searchMu only, never under mu
	searchBox     *search.Debounced
	searchMu      sync.Mutex
	searchResults *search.Results
}

// NewController creates a controller and runs the pipeline once so a model is
// available immediately.
func NewController(collection inventory.Collection, store ports.RecordStore, opts Options) (*Controller, error) {
	if store == nil {
		return nil, errors.NewValidationError("record store is required")
	}
	if opts.PageSize <= 0 {
		return nil, errors.NewInvalidPageRequest(1, opts.PageSize)
	}
	if opts.Clock == nil {
		opts.Clock = utils.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sentinel == "" {
		opts.Sentinel = listing.DefaultSentinels[0]
	}

	c := &Controller{
		collection:  collection,
		store:       store,
		renderer:    views.NewRenderer(collection, opts.PageWindow).WithRoles(opts.Roles),
		clock:       opts.Clock,
		logger:      opts.Logger.With(zap.String("collection", string(collection.Name))),
		metrics:     opts.Metrics,
		sink:        opts.Sink,
		debounce:       opts.Debounce,
		pageSize:       opts.PageSize,
		sentinel:       opts.Sentinel,
		defaultDate:    opts.DefaultDate,
		disableStats:   opts.DisableStats,
		disablePresets: opts.DisablePresets,
		criteria:       listing.Criteria{Category: opts.Sentinel, Date: opts.DefaultDate},
		page:           1,
	}
	if opts.Search != nil {
		c.searchBox = search.NewDebounced(opts.Search, opts.Clock, opts.SearchDebounce, c.publishSearch, func(err error) {
			c.logger.Warn("Universal search failed", zap.Error(err))
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.validate(c.criteria); err != nil {
		return nil, err
	}
	c.runFull("init", true)
	return c, nil
}

// TextInput records new search text and (re)starts the debounce timer.
// The pipeline runs when the timer expires without further input.
func (c *Controller) TextInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.pendingText = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.generation++
	gen := c.generation
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.expire(gen) })
	c.state = PendingDebounce
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation || c.state != PendingDebounce {
		return
	}
	c.timer = nil
	c.state = Idle
	c.criteria.Text = c.pendingText
	c.runFull("debounce", true)
}

// SetCategory filters by category right away. The sentinel clears the filter.
func (c *Controller) SetCategory(category string) error {
	return c.immediate("category", func(cr *listing.Criteria) { cr.Category = category })
}

// SetDate filters by calendar day right away. A zero day clears the filter.
func (c *Controller) SetDate(day valueobjects.Day) error {
	return c.immediate("date", func(cr *listing.Criteria) { cr.Date = day })
}

// SetPreset applies a named quick filter right away
func (c *Controller) SetPreset(preset string) error {
	return c.immediate("preset", func(cr *listing.Criteria) { cr.Preset = preset })
}

// Apply re-runs the pipeline with whatever criteria are current
func (c *Controller) Apply() error {
	return c.immediate("apply", func(*listing.Criteria) {})
}

// ClearFilters resets every criterion and returns to page 1
func (c *Controller) ClearFilters() error {
	return c.immediate("clear", func(cr *listing.Criteria) {
		*cr = listing.Criteria{Category: c.sentinel, Date: c.defaultDate}
	})
}

// immediate applies change on top of the criteria, pending text included, and
// runs the pipeline. A rejected change leaves the controller untouched, so a
// running debounce still fires.
func (c *Controller) immediate(trigger string, change func(*listing.Criteria)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.NewConflictError("list view is closed")
	}

	next := c.criteria
	if c.state == PendingDebounce {
		next.Text = c.pendingText
	}
	change(&next)
	if err := c.validate(next); err != nil {
		return err
	}

	c.cancelPending()
	c.criteria = next
	c.runFull(trigger, true)
	return nil
}

func (c *Controller) validate(cr listing.Criteria) error {
	if c.disablePresets && !c.collection.Schema.IsSentinel(cr.Preset) {
		return errors.NewFeatureDisabled("presets")
	}
	return c.collection.Schema.Validate(cr)
}

// cancelPending stops a running debounce timer
func (c *Controller) cancelPending() {
	if c.state != PendingDebounce {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.state = Idle
}

// SearchInput feeds a keystroke to the universal search box. The search runs
// once the search debounce expires.
func (c *Controller) SearchInput(text string) error {
	box, err := c.openSearchBox()
	if err != nil {
		return err
	}
	box.Input(text)
	return nil
}

// SearchSubmit searches right away
func (c *Controller) SearchSubmit(text string) error {
	box, err := c.openSearchBox()
	if err != nil {
		return err
	}
	box.Submit(text)
	return nil
}

// SearchResults returns the latest universal search result, nil before the first one
func (c *Controller) SearchResults() *search.Results {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	return c.searchResults
}

func (c *Controller) openSearchBox() (*search.Debounced, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.NewConflictError("list view is closed")
	}
	if c.searchBox == nil {
		return nil, errors.NewFeatureDisabled("universal search")
	}
	return c.searchBox, nil
}

func (c *Controller) publishSearch(res search.Results) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	c.searchResults = &res
}

// GoToPage shows page n of the current result. Pages outside [1, TotalPages]
// are ignored and false is returned.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(n)
}

// PrevPage moves back one page when possible
func (c *Controller) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.page - 1)
}

// NextPage moves forward one page when possible
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.page + 1)
}

func (c *Controller) goTo(n int) bool {
	if c.closed || n < 1 || n > c.model.TotalPages {
		return false
	}
	c.page = n
	c.renderPage()
	return true
}

// Reload re-reads the store, keeping the current page when it still exists
func (c *Controller) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.runFull("reload", false)
}

// runFull filters and sorts the store snapshot, then renders a page
func (c *Controller) runFull(trigger string, resetPage bool) {
	prepared := listing.Prepare(c.store.GetAll(), c.criteria, c.collection.Schema)
	c.sorted = prepared.Items
	c.malformed = prepared.Malformed
	c.stats = nil
	if !c.disableStats {
		stats := views.ComputeStats(prepared.Items)
		c.stats = &stats
	}

	if len(prepared.Malformed) > 0 {
		c.logger.Warn("Excluded malformed records",
			zap.Int("count", len(prepared.Malformed)),
			zap.String("trigger", trigger),
		)
	}
	if c.metrics != nil {
		c.metrics.PipelineRun(string(c.collection.Name), trigger)
		c.metrics.MalformedRecords(string(c.collection.Name), len(prepared.Malformed))
	}

	if resetPage {
		c.page = 1
	}
	c.renderPage()
}

// renderPage paginates the cached sequence and emits the model
func (c *Controller) renderPage() {
	page, err := listing.Paginate(c.sorted, listing.PageRequest{Number: c.page, Size: c.pageSize})
	if err != nil {
		c.logger.Error("Pagination failed", zap.Error(err))
		return
	}
	c.page = page.Number
	c.model = c.renderer.Render(page)
	if c.sink != nil {
		c.sink(c.model)
	}
}

// Collection returns the name of the listed collection
func (c *Controller) Collection() inventory.Name {
	return c.collection.Name
}

// Model returns the latest display model
func (c *Controller) Model() views.DisplayModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// State returns the debounce state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Criteria returns the applied criteria. Pending text is not included.
func (c *Controller) Criteria() listing.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// Snapshot returns a copy of the controller's observable state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{
		Collection: string(c.collection.Name),
		State:      c.state,
		Criteria:   viewOf(c.criteria),
		Model:      c.model,
		Stats:      c.stats,
		Malformed:  views.Reports(c.malformed),
	}
	if c.state == PendingDebounce {
		snap.PendingText = c.pendingText
	}
	snap.Search = c.SearchResults()
	return snap
}

// Close stops any pending timer. Later events are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.state = Idle
	c.closed = true
	c.mu.Unlock()

	if c.searchBox != nil {
		c.searchBox.Close()
	}
}
