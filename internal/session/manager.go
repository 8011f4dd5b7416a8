package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/angelmondragon/sonumarket-core/internal/cart"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/payments"
	"github.com/angelmondragon/sonumarket-core/internal/persistence"
	"github.com/angelmondragon/sonumarket-core/internal/profile"
	"github.com/angelmondragon/sonumarket-core/internal/wizard"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
	"github.com/angelmondragon/sonumarket-core/pkg/metrics"
)

// Options wires the collaborators shared by every session.
type Options struct {
	Catalog *catalog.Store
	Store   persistence.Store
	Writer  *persistence.Writer
	Charger payments.Charger
	Pricing cart.Pricing
	Logger  *logger.Logger

	CartMetrics   *metrics.CartMetrics
	WizardMetrics *metrics.WizardMetrics
}

// Manager owns the live sessions of the process.
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Catalog == nil {
		return nil, errors.New("catalog store required")
	}
	if opts.Charger == nil {
		return nil, errors.New("charger required")
	}
	if (opts.Store == nil) != (opts.Writer == nil) {
		return nil, errors.New("snapshot store and writer must be provided together")
	}
	return &Manager{opts: opts, sessions: map[string]*Session{}}, nil
}

// Open returns the live session for id, restoring its cart and user snapshots
// on first use. Snapshots are read without holding the manager lock, so a slow
// store only delays callers opening the same id.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if s, ok := m.Get(id); ok {
		return s, nil
	}

	ctx = m.opts.Logger.WithSessionID(ctx, id)
	cartKey := persistence.Scoped(id, persistence.KeyCart)
	userKey := persistence.Scoped(id, persistence.KeyUser)
	restoredCart, _ := persistence.Restore[cart.Cart](ctx, m.opts.Store, cartKey, m.opts.Logger)
	restoredUser, hasUser := persistence.Restore[profile.User](ctx, m.opts.Store, userKey, m.opts.Logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have opened id while the snapshots were read
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}

	bg := m.opts.Logger.WithSessionID(context.Background(), id)
	s := &Session{ID: id, manager: m, wizards: map[enums.WizardFlow]*wizard.Machine{}}
	s.Cart = cart.NewEngine(cart.Options{
		Pricing: m.opts.Pricing,
		Initial: restoredCart,
		Metrics: m.opts.CartMetrics,
		OnChange: func(c cart.Cart) {
			m.persist(bg, cartKey, c)
		},
	})

	profileOpts := profile.Options{
		OnChange: func(u *profile.User) {
			if u == nil {
				m.remove(bg, userKey)
				return
			}
			m.persist(bg, userKey, u)
		},
	}
	if hasUser {
		profileOpts.Initial = &restoredUser
	}
	s.Profile = profile.NewManager(profileOpts)

	m.sessions[id] = s
	m.opts.Logger.Debug(ctx, "session opened")
	return s, nil
}

// Get returns a live session without creating one.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close drops the live session. Persisted snapshots remain.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Catalog exposes the shared catalog store.
func (m *Manager) Catalog() *catalog.Store {
	return m.opts.Catalog
}

func (m *Manager) persist(ctx context.Context, key string, v any) {
	if m.opts.Writer == nil {
		return
	}
	if err := m.opts.Writer.SaveJSON(key, v); err != nil {
		m.opts.Logger.Error(m.opts.Logger.WithField(ctx, "snapshot_key", key), "queue snapshot", err)
	}
}

func (m *Manager) remove(ctx context.Context, key string) {
	if m.opts.Writer == nil {
		return
	}
	if err := m.opts.Writer.Delete(key); err != nil {
		m.opts.Logger.Error(m.opts.Logger.WithField(ctx, "snapshot_key", key), "queue snapshot delete", err)
	}
}
