package listview

import (
	"context"
	"sync"
	"time"

	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Factory builds a controller for a collection on behalf of a viewer
type Factory func(collection inventory.Name, roles []string) (*Controller, error)

type session struct {
	ctrl     *Controller
	owner    string
	lastSeen time.Time
}

// Registry keeps the live list views of remote clients, keyed by session id.
// Sessions idle for longer than the timeout are evicted by Sweep.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	factory  Factory
	idle     time.Duration
	clock    utils.Clock
	logger   *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(factory Factory, idle time.Duration, clock utils.Clock, logger *zap.Logger) *Registry {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*session),
		factory:  factory,
		idle:     idle,
		clock:    clock,
		logger:   logger,
	}
}

// Create opens a new list view and returns its id
func (r *Registry) Create(collection inventory.Name, owner string, roles []string) (string, *Controller, error) {
	ctrl, err := r.factory(collection, roles)
	if err != nil {
		return "", nil, err
	}

	id := uuid.New().String()
	r.mu.Lock()
	r.sessions[id] = &session{ctrl: ctrl, owner: owner, lastSeen: r.clock.Now()}
	r.mu.Unlock()

	r.logger.Debug("List view opened",
		zap.String("session_id", id),
		zap.String("collection", string(collection)),
		zap.String("owner", owner),
	)
	return id, ctrl, nil
}

// Get returns the controller of a session owned by owner and marks it active.
// Another user's session is reported as not found.
func (r *Registry) Get(id, owner string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.owner != owner {
		return nil, errors.NewNotFoundError("list view " + id)
	}
	s.lastSeen = r.clock.Now()
	return s.ctrl, nil
}

// Delete closes and forgets a session
func (r *Registry) Delete(id, owner string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.owner != owner {
		r.mu.Unlock()
		return errors.NewNotFoundError("list view " + id)
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	s.ctrl.Close()
	return nil
}

// ReloadCollection refreshes every open view of a collection after its store changed.
// It returns the number of views refreshed.
func (r *Registry) ReloadCollection(collection inventory.Name) int {
	r.mu.Lock()
	var targets []*Controller
	for _, s := range r.sessions {
		if s.ctrl.Collection() == collection {
			targets = append(targets, s.ctrl)
		}
	}
	r.mu.Unlock()

	for _, c := range targets {
		c.Reload()
	}
	return len(targets)
}

// Sweep evicts sessions idle for longer than the timeout and returns how many it removed
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	now := r.clock.Now()

	r.mu.Lock()
	var expired []*session
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.idle {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.ctrl.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("Evicted idle list views", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run sweeps on every tick until ctx is cancelled
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
