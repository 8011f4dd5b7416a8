package profile

import (
	"strings"
	"sync"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/angelmondragon/sonumarket-core/pkg/validation"
	"github.com/google/uuid"
)

func errSignedOut() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "no user is signed in")
}

// Options wires a Manager.
type Options struct {
	// Initial is the restored profile, nil when logged out.
	Initial *User
	// OnChange receives every new profile, or nil after sign-out. It must not block.
	OnChange func(*User)
}

// Manager is the single writer of the session's user profile.
type Manager struct {
	mu       sync.Mutex
	user     *User
	onChange func(*User)

	subs    map[uint64]func(*User)
	nextSub uint64
}

func NewManager(opts Options) *Manager {
	m := &Manager{onChange: opts.OnChange, subs: map[uint64]func(*User){}}
	if opts.Initial != nil && validation.Struct(*opts.Initial) == nil {
		u := opts.Initial.clone()
		m.user = &u
	}
	return m
}

// Current returns the signed-in user.
func (m *Manager) Current() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return User{}, false
	}
	return m.user.clone(), true
}

// SignIn replaces the profile with u.
func (m *Manager) SignIn(u User) (User, error) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		u.ID = "user-" + uuid.NewString()
	}
	if err := validation.Struct(u); err != nil {
		return User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	next := u.clone()
	return m.commit(&next), nil
}

// SignOut forgets the profile.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return
	}
	m.user = nil
	m.publish(nil)
}

func (m *Manager) UpdateSettings(s Settings) (User, error) {
	if err := validation.Struct(s); err != nil {
		return User{}, err
	}
	return m.update(func(u *User) error {
		u.Name = strings.TrimSpace(s.Name)
		u.Email = strings.TrimSpace(s.Email)
		u.Avatar = s.Avatar
		return nil
	})
}

// SaveAddress updates the address with the same id or appends a new one.
func (m *Manager) SaveAddress(a Address) (User, error) {
	if err := validation.Struct(a); err != nil {
		return User{}, err
	}
	return m.update(func(u *User) error {
		for i := range u.Addresses {
			if a.ID != "" && u.Addresses[i].ID == a.ID {
				u.Addresses[i] = a
				return nil
			}
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		u.Addresses = append(u.Addresses, a)
		return nil
	})
}

// DeleteAddress drops the address; unknown ids are ignored.
func (m *Manager) DeleteAddress(id string) (User, error) {
	return m.update(func(u *User) error {
		out := u.Addresses[:0]
		for _, a := range u.Addresses {
			if a.ID != id {
				out = append(out, a)
			}
		}
		u.Addresses = out
		return nil
	})
}

func (m *Manager) AddPaymentMethod(pm PaymentMethod) (User, error) {
	pm.Number = strings.TrimSpace(pm.Number)
	pm.HolderName = strings.TrimSpace(pm.HolderName)
	if err := validation.Struct(pm); err != nil {
		return User{}, err
	}
	if pm.Provider == "" {
		pm.Provider = defaultProvider(pm.Type)
	}
	pm.ID = uuid.NewString()
	return m.update(func(u *User) error {
		u.PaymentMethods = append(u.PaymentMethods, pm)
		return nil
	})
}

// DeletePaymentMethod drops the method; unknown ids are ignored.
func (m *Manager) DeletePaymentMethod(id string) (User, error) {
	return m.update(func(u *User) error {
		out := u.PaymentMethods[:0]
		for _, pm := range u.PaymentMethods {
			if pm.ID != id {
				out = append(out, pm)
			}
		}
		u.PaymentMethods = out
		return nil
	})
}

// AddToWishlist keeps at most one entry per product id.
func (m *Manager) AddToWishlist(p catalog.Product) (User, error) {
	if p.ID == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return m.update(func(u *User) error {
		for _, existing := range u.Wishlist {
			if existing.ID == p.ID {
				return nil
			}
		}
		u.Wishlist = append(u.Wishlist, p)
		return nil
	})
}

func (m *Manager) RemoveFromWishlist(productID string) (User, error) {
	return m.update(func(u *User) error {
		out := u.Wishlist[:0]
		for _, p := range u.Wishlist {
			if p.ID != productID {
				out = append(out, p)
			}
		}
		u.Wishlist = out
		return nil
	})
}

// Subscribe registers fn for every profile change and returns a cancel func. Callbacks
// run while the manager is locked and must not call back into it.
func (m *Manager) Subscribe(fn func(*User)) func() {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) update(fn func(u *User) error) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return User{}, errSignedOut()
	}
	next := m.user.clone()
	if err := fn(&next); err != nil {
		return User{}, err
	}
	return m.commit(&next), nil
}

func (m *Manager) commit(next *User) User {
	m.user = next
	m.publish(next)
	return next.clone()
}

func (m *Manager) publish(u *User) {
	if m.onChange != nil {
		m.onChange(cloneRef(u))
	}
	for _, sub := range m.subs {
		sub(cloneRef(u))
	}
}

func cloneRef(u *User) *User {
	if u == nil {
		return nil
	}
	c := u.clone()
	return &c
}
