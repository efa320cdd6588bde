package sync_test

import (
	"testing"
	"time"

	"skillsphere/internal/api"
	"skillsphere/internal/apitest"
	"skillsphere/internal/auth"
	"skillsphere/internal/store"
	"skillsphere/internal/sync"

	"github.com/stretchr/testify/require"
)

// fixture bundles one backend instance with per-user client wiring. All
// synchronizers built from the same fixture share one Store, mirroring the
// views of the real application sharing one cache.
type fixture struct {
	srv   *apitest.Server
	store *store.Store
	snaps *store.Snapshots
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv, err := apitest.NewServer()
	require.NoError(t, err)
	return &fixture{
		srv:   srv,
		store: store.New(),
		snaps: store.NewSnapshots("", time.Minute), // disabled; redis covered in store tests
	}
}

func (f *fixture) client(t *testing.T, token string) *api.Client {
	t.Helper()
	client, err := api.New("http://skillsphere.test", auth.StaticToken(token),
		api.WithTransport(f.srv.Transport()))
	require.NoError(t, err)
	return client
}

func (f *fixture) reactionsFor(t *testing.T, userID uint) *sync.Reactions {
	t.Helper()
	return f.reactionsWithToken(t, f.srv.Token(userID))
}

func (f *fixture) reactionsWithToken(t *testing.T, token string) *sync.Reactions {
	t.Helper()
	client := f.client(t, token)
	return sync.NewReactions(client, client, f.store, f.snaps, auth.StaticToken(token))
}

func (f *fixture) commentsFor(t *testing.T, userID uint) *sync.Comments {
	t.Helper()
	token := f.srv.Token(userID)
	client := f.client(t, token)
	return sync.NewComments(client, client, f.store, f.snaps, auth.StaticToken(token))
}
