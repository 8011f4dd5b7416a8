package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/payments"
	"github.com/angelmondragon/sonumarket-core/internal/persistence"
	"github.com/angelmondragon/sonumarket-core/internal/profile"
	"github.com/angelmondragon/sonumarket-core/internal/wizard"
	"github.com/angelmondragon/sonumarket-core/pkg/config"
	"github.com/angelmondragon/sonumarket-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/sonumarket-core/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *persistence.MemoryStore
	writer  *persistence.Writer
	manager *Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := persistence.NewMemoryStore()
	writer, err := persistence.NewWriter(store, persistence.WriterOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close(context.Background()) })

	charger, err := payments.NewSimulated(config.PaymentsConfig{}, nil)
	require.NoError(t, err)

	m, err := NewManager(Options{
		Catalog: catalog.Default(),
		Store:   store,
		Writer:  writer,
		Charger: charger,
	})
	require.NoError(t, err)
	return fixture{store: store, writer: writer, manager: m}
}

func TestNewManagerRequiresCollaborators(t *testing.T) {
	t.Parallel()

	_, err := NewManager(Options{})
	require.Error(t, err)

	_, err = NewManager(Options{Catalog: catalog.Default(), Charger: payments.ChargerFunc(nil), Store: persistence.NewMemoryStore()})
	require.Error(t, err)
}

func TestOpenReturnsSameSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a, err := f.manager.Open(context.Background(), "sess-1")
	require.NoError(t, err)
	b, err := f.manager.Open(context.Background(), " sess-1 ")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = f.manager.Open(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

// gatedStore holds loads of keys containing block until release is closed.
type gatedStore struct {
	*persistence.MemoryStore
	block   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) Load(ctx context.Context, key string) ([]byte, error) {
	if strings.Contains(key, g.block) {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}
	return g.MemoryStore.Load(ctx, key)
}

func TestOpenDoesNotHoldLockWhileRestoring(t *testing.T) {
	t.Parallel()

	gated := &gatedStore{
		MemoryStore: persistence.NewMemoryStore(),
		block:       "sess-slow",
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	writer, err := persistence.NewWriter(gated.MemoryStore, persistence.WriterOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close(context.Background()) })
	charger, err := payments.NewSimulated(config.PaymentsConfig{}, nil)
	require.NoError(t, err)
	m, err := NewManager(Options{Catalog: catalog.Default(), Store: gated, Writer: writer, Charger: charger})
	require.NoError(t, err)

	const openers = 4
	var wg sync.WaitGroup
	slow := make([]*Session, openers)
	for i := range openers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := m.Open(context.Background(), "sess-slow")
			assert.NoError(t, err)
			slow[i] = s
		}()
	}

	select {
	case <-gated.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("slow restore never started")
	}

	fast := make(chan *Session, 1)
	go func() {
		s, _ := m.Open(context.Background(), "sess-fast")
		fast <- s
	}()
	select {
	case s := <-fast:
		require.NotNil(t, s)
		assert.Equal(t, "sess-fast", s.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("open of another session blocked behind a slow restore")
	}

	close(gated.release)
	wg.Wait()
	for _, s := range slow {
		assert.Same(t, slow[0], s)
	}
	got, ok := m.Get("sess-slow")
	require.True(t, ok)
	assert.Same(t, slow[0], got)
}

func TestCartAndUserSurviveReopen(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	s, err := f.manager.Open(ctx, "sess-2")
	require.NoError(t, err)

	gpu, _ := f.manager.Catalog().Product("1")
	s.Cart.AddOne(gpu)
	s.Cart.AddOne(gpu)
	_, err = s.Profile.SignIn(profile.FromPhone("690000001"))
	require.NoError(t, err)
	require.NoError(t, f.writer.Flush(ctx))

	f.manager.Close("sess-2")
	_, ok := f.manager.Get("sess-2")
	require.False(t, ok)

	reopened, err := f.manager.Open(ctx, "sess-2")
	require.NoError(t, err)
	assert.NotSame(t, s, reopened)
	snap := reopened.Cart.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, int64(1700000), reopened.Cart.Subtotal())

	u, ok := reopened.Profile.Current()
	require.True(t, ok)
	assert.Equal(t, "user-690000001", u.ID)

	reopened.Profile.SignOut()
	require.NoError(t, f.writer.Flush(ctx))
	_, err = f.store.Load(ctx, persistence.Scoped("sess-2", persistence.KeyUser))
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, persistence.Scoped("sess-3", persistence.KeyCart), []byte("{oops")))

	s, err := f.manager.Open(ctx, "sess-3")
	require.NoError(t, err)
	assert.True(t, s.Cart.Snapshot().IsEmpty())
	_, ok := s.Profile.Current()
	assert.False(t, ok)
}

func TestConfiguratorWizardFillsSessionCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	s, err := f.manager.Open(ctx, "sess-4")
	require.NoError(t, err)

	m, err := s.OpenWizard(enums.WizardFlowConfigurator)
	require.NoError(t, err)
	got, ok := s.Wizard(enums.WizardFlowConfigurator)
	require.True(t, ok)
	assert.Same(t, m, got)

	store := f.manager.Catalog()
	for i, id := range []string{"cfg-chassis-16", "cfg-cpu-i5", "cfg-ram-16", "cfg-ssd-512", "cfg-os-linux"} {
		p, ok := store.Product(id)
		require.True(t, ok)
		require.True(t, m.Select(wizard.ConfiguratorSteps[i], p))
	}
	res := m.Advance(ctx)
	require.Equal(t, wizard.AdvanceSubmitted, res.Outcome)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := res.Submission.Wait(waitCtx)
	require.NoError(t, err)
	require.True(t, result.Succeeded())

	assert.Equal(t, int64(320000+145000+45000+35000), s.Cart.Subtotal())
	assert.True(t, s.CloseWizard(enums.WizardFlowConfigurator))
	assert.False(t, s.CloseWizard(enums.WizardFlowConfigurator))
	_, ok = s.Wizard(enums.WizardFlowConfigurator)
	assert.False(t, ok)
}

func TestOpenWizardRejectsUnknownFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	s, err := f.manager.Open(context.Background(), "sess-5")
	require.NoError(t, err)

	_, err = s.OpenWizard("checkout")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	for _, flow := range []enums.WizardFlow{enums.WizardFlowCVPurchase, enums.WizardFlowRedactionRequest} {
		m, err := s.OpenWizard(flow)
		require.NoError(t, err)
		assert.Equal(t, flow, m.Definition().Flow())
	}
}
