package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwinews/feedstore/internal/storage"
	"github.com/kiwinews/feedstore/internal/storage/postgres"
	"github.com/kiwinews/feedstore/pkg/types"
)

// postgresTestDSN returns the DSN for the test database. If
// POSTGRES_TEST_DSN is not set, tests are skipped.
func postgresTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set; skipping PostgreSQL integration tests")
	}
	return dsn
}

// newTestStore connects to the test database and truncates the relations so
// each test starts clean.
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()

	store, err := postgres.NewStore(postgresTestDSN(t), "kiwi")
	require.NoError(t, err, "NewStore should succeed")
	t.Cleanup(func() { _ = store.Close() })

	db := store.GetDB()
	_, err = db.Exec("TRUNCATE comments, upvotes, submissions")
	require.NoError(t, err, "truncate should succeed")

	return store
}

func TestAmplifyClassification(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.InsertMessage(ctx, &types.Message{
		Type: types.TypeAmplify, Href: "http://a.com", Index: "1",
		Title: "first", Timestamp: 1_700_000_000, Signer: "s1", Identity: "I1",
	})
	require.NoError(t, err, "first amplify should create a submission")

	err = store.InsertMessage(ctx, &types.Message{
		Type: types.TypeAmplify, Href: "http://a.com", Index: "2",
		Title: "first", Timestamp: 1_700_000_010, Signer: "s2", Identity: "I2",
	})
	require.NoError(t, err, "second amplify should create an upvote")

	view, err := store.GetSubmission(ctx, "1")
	require.NoError(t, err)

	assert.Equal(t, 2, view.Upvotes)
	require.Len(t, view.Upvoters, 2)
	assert.Equal(t, "I1", view.Upvoters[0].Identity)
	assert.Equal(t, "I2", view.Upvoters[1].Identity)
}

// TestConcurrentAmplifiesSameNewHref races two amplifies for a previously
// unseen href. Exactly one submission and one upvote must result; the loser
// of the insert must fall through to the upvote path, not error out.
func TestConcurrentAmplifiesSameNewHref(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.InsertMessage(ctx, &types.Message{
				Type: types.TypeAmplify, Href: "http://raced.com", Index: fmt.Sprintf("a%d", i+1),
				Title: "raced", Timestamp: 1_700_000_000 + int64(i), Signer: "s", Identity: fmt.Sprintf("I%d", i+1),
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0], "first amplify must not fail")
	require.NoError(t, errs[1], "second amplify must not fail")

	db := store.GetDB()

	var submissions, upvotes int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM submissions WHERE href = 'http://raced.com'").Scan(&submissions))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM upvotes WHERE href = 'http://raced.com'").Scan(&upvotes))

	assert.Equal(t, 1, submissions, "exactly one submission per href")
	assert.Equal(t, 1, upvotes, "the racing amplify must become an upvote")
}

func TestDuplicateIndexIsRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	msg := &types.Message{
		Type: types.TypeAmplify, Href: "http://a.com", Index: "1",
		Timestamp: 1_700_000_000, Identity: "I1",
	}
	require.NoError(t, store.InsertMessage(ctx, msg))

	err := store.InsertMessage(ctx, &types.Message{
		Type: types.TypeAmplify, Href: "http://b.com", Index: "1",
		Timestamp: 1_700_000_001, Identity: "I2",
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestUnsupportedTypeIsRejected(t *testing.T) {
	store := newTestStore(t)

	err := store.InsertMessage(context.Background(), &types.Message{
		Type: "like", Href: "http://a.com", Index: "1",
	})
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}

func TestGetSubmissionNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSubmission(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
