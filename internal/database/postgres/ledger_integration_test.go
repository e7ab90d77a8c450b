package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/YobelBerhe/CoachOS-sub000/internal/database"
	"github.com/YobelBerhe/CoachOS-sub000/internal/domain"
	"github.com/YobelBerhe/CoachOS-sub000/internal/repository"
)

var testPool *pgxpool.Pool

// TestMain sets up one shared container for the package. When Docker is
// unavailable (or -short is set) the integration tests skip.
func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()

	if !testing.Short() {
		ctx := context.Background()
		var connStr string
		connStr, terminate = setupContainer(ctx)

		if connStr != "" {
			if err := database.Migrate(connStr); err != nil {
				fmt.Printf("WARNING: Failed to migrate test database: %v\n", err)
			} else {
				var err error
				testPool, err = database.NewPool(connStr, 20, 30*time.Minute, time.Hour)
				if err != nil {
					fmt.Printf("WARNING: Failed to create test pool: %v\n", err)
				}
			}
		}
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	if terminate != nil {
		terminate()
	}

	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(15*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return "", func() { _ = container.Terminate(ctx) }
	}

	return connStr, func() { _ = container.Terminate(ctx) }
}

func requirePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("postgres container unavailable")
	}
	return testPool
}

func seedRecipe(t *testing.T, pool *pgxpool.Pool, price int64, paid bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO recipes (recipe_id, creator_id, title, price_minor, is_paid) VALUES ($1, $2, $3, $4, $5)`,
		id, uuid.New(), "integration test recipe", price, paid)
	require.NoError(t, err)
	return id
}

func TestLedger_Lifecycle(t *testing.T) {
	pool := requirePool(t)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	key := domain.UnlockKey{UserID: uuid.New(), RecipeID: seedRecipe(t, pool, 499, true)}

	// Fresh key inserts pending.
	outcome, _, err := ledger.InsertPending(ctx, key, 499)
	require.NoError(t, err)
	assert.Equal(t, repository.InsertedPending, outcome)

	// A second insert sees the in-flight row.
	outcome, _, err = ledger.InsertPending(ctx, key, 499)
	require.NoError(t, err)
	assert.Equal(t, repository.AlreadyPending, outcome)

	// Complete the pending row.
	split := domain.RevenueSplit{AmountPaid: 499, PlatformFee: 75, CreatorPayout: 424}
	completed, err := ledger.CompletePending(ctx, key, split, "auth-1")
	require.NoError(t, err)
	assert.True(t, completed)

	// Completion is terminal: neither transition fires again.
	completed, err = ledger.CompletePending(ctx, key, split, "auth-2")
	require.NoError(t, err)
	assert.False(t, completed)
	failed, err := ledger.FailPending(ctx, key, "late")
	require.NoError(t, err)
	assert.False(t, failed)

	// Retries observe the completed record.
	outcome, record, err := ledger.InsertPending(ctx, key, 499)
	require.NoError(t, err)
	assert.Equal(t, repository.AlreadyCompleted, outcome)
	require.NotNil(t, record)
	assert.Equal(t, domain.UnlockStatusCompleted, record.Status)
	assert.Equal(t, int64(75), record.PlatformFee)
	assert.Equal(t, "auth-1", record.ExternalAuthorizationID)
	require.NotNil(t, record.CompletedAt)
}

func TestLedger_FailedRowSuperseded(t *testing.T) {
	pool := requirePool(t)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	key := domain.UnlockKey{UserID: uuid.New(), RecipeID: seedRecipe(t, pool, 250, true)}

	outcome, _, err := ledger.InsertPending(ctx, key, 250)
	require.NoError(t, err)
	require.Equal(t, repository.InsertedPending, outcome)

	failed, err := ledger.FailPending(ctx, key, "authorization declined")
	require.NoError(t, err)
	require.True(t, failed)

	// A fresh attempt revives the row in place with a new price snapshot.
	outcome, _, err = ledger.InsertPending(ctx, key, 299)
	require.NoError(t, err)
	assert.Equal(t, repository.InsertedPending, outcome)

	record, err := ledger.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockStatusPending, record.Status)
	assert.Equal(t, int64(299), record.AmountPaid)
	assert.Empty(t, record.FailReason)
}

func TestLedger_ConcurrentInsertSingleWinner(t *testing.T) {
	pool := requirePool(t)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	key := domain.UnlockKey{UserID: uuid.New(), RecipeID: seedRecipe(t, pool, 499, true)}

	const attempts = 16
	var wg sync.WaitGroup
	var insertedCount atomic.Int64
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, _, err := ledger.InsertPending(ctx, key, 499)
			assert.NoError(t, err)
			if outcome == repository.InsertedPending {
				insertedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	// Exactly one attempt holds the pending row.
	assert.Equal(t, int64(1), insertedCount.Load())
}

func TestLedger_StalePendingListing(t *testing.T) {
	pool := requirePool(t)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	key := domain.UnlockKey{UserID: uuid.New(), RecipeID: seedRecipe(t, pool, 499, true)}

	_, _, err := ledger.InsertPending(ctx, key, 499)
	require.NoError(t, err)

	// Fresh pending is not stale.
	keys, err := ledger.ListStalePending(ctx, time.Now().Add(-time.Minute), 10)
	require.NoError(t, err)
	assert.NotContains(t, keys, key)

	// Backdate and it becomes sweepable exactly once.
	_, err = pool.Exec(ctx,
		`UPDATE unlock_records SET created_at = NOW() - INTERVAL '5 minutes' WHERE user_id = $1 AND recipe_id = $2`,
		key.UserID, key.RecipeID)
	require.NoError(t, err)

	keys, err = ledger.ListStalePending(ctx, time.Now().Add(-time.Minute), 1000)
	require.NoError(t, err)
	assert.Contains(t, keys, key)

	swept, err := ledger.FailPending(ctx, key, "stale pending timeout")
	require.NoError(t, err)
	assert.True(t, swept)
	swept, err = ledger.FailPending(ctx, key, "stale pending timeout")
	require.NoError(t, err)
	assert.False(t, swept)
}

func TestLedger_HistoryPaging(t *testing.T) {
	pool := requirePool(t)
	ledger := NewLedgerRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		key := domain.UnlockKey{UserID: userID, RecipeID: seedRecipe(t, pool, 100, true)}
		_, _, err := ledger.InsertPending(ctx, key, 100)
		require.NoError(t, err)
		_, err = ledger.CompletePending(ctx, key,
			domain.RevenueSplit{AmountPaid: 100, PlatformFee: 15, CreatorPayout: 85}, fmt.Sprintf("auth-%d", i))
		require.NoError(t, err)
	}

	records, total, err := ledger.ListCompletedByUser(ctx, userID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 2)

	records, total, err = ledger.ListCompletedByUser(ctx, userID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 1)
}

func TestInteractionLog_AppendAndDerive(t *testing.T) {
	pool := requirePool(t)
	repo := NewInteractionRepository(pool)
	ctx := context.Background()

	userID := uuid.New()
	recipeID := seedRecipe(t, pool, 0, false)
	base := time.Now().Add(-time.Hour).UTC()

	appendEvent := func(eventType domain.EventType, at time.Time) {
		require.NoError(t, repo.Append(ctx, domain.InteractionEvent{
			ID:         uuid.New(),
			UserID:     userID,
			RecipeID:   recipeID,
			EventType:  eventType,
			OccurredAt: at,
			RecordedAt: time.Now(),
		}))
	}

	appendEvent(domain.EventView, base)
	appendEvent(domain.EventFavorite, base.Add(time.Minute))
	appendEvent(domain.EventUnfavorite, base.Add(2*time.Minute))
	appendEvent(domain.EventFavorite, base.Add(3*time.Minute))

	events, err := repo.ListByUserAndRecipes(ctx, userID, []uuid.UUID{recipeID})
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].OccurredAt.Before(events[i-1].OccurredAt), "events must be occurred_at ascending")
	}

	// Most recent toggle is a favorite.
	favorites, err := repo.CurrentFavorites(ctx, userID)
	require.NoError(t, err)
	assert.Contains(t, favorites, recipeID)

	appendEvent(domain.EventUnfavorite, base.Add(4*time.Minute))
	favorites, err = repo.CurrentFavorites(ctx, userID)
	require.NoError(t, err)
	assert.NotContains(t, favorites, recipeID)
}

func TestRecipeRepository_GetByID(t *testing.T) {
	pool := requirePool(t)
	repo := NewRecipeRepository(pool)
	ctx := context.Background()

	recipeID := seedRecipe(t, pool, 1299, true)

	recipe, err := repo.GetByID(ctx, recipeID)
	require.NoError(t, err)
	assert.Equal(t, int64(1299), recipe.PriceMinor)
	assert.True(t, recipe.IsPaid)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
