package ingest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"fuelwatch/internal/database"
	"fuelwatch/internal/models"
	"fuelwatch/internal/parse"
)

const pageMarkup = `
<html><body>
<article class="gasprice ptt">
	<li><span>ดีเซล B7</span><em>29.94</em></li>
	<li><span>แก๊สโซฮอล์ 95</span><em>34.85</em></li>
</article>
<article class="gasprice shell">
	<li><span>ดีเซล B7</span><em>31.14</em></li>
</article>
<article class="gasprice esso">
	<li><span>ดีเซล B7</span><em>broken</em></li>
</article>
</body></html>
`

type fetcherFunc func(ctx context.Context) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

func staticPage(markup string) fetcherFunc {
	return func(ctx context.Context) ([]byte, error) {
		return []byte(markup), nil
	}
}

func newTestStore(t *testing.T) *database.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewFromDB(sqlDB, zerolog.Nop())
}

func TestRun_StoresAllProviders(t *testing.T) {
	store := newTestStore(t)
	providers := []models.ProviderConfig{
		{Name: "ptt", Container: "gasprice ptt"},
		{Name: "shell", Container: "gasprice shell"},
	}

	p := New(store, staticPage(pageMarkup), providers, zerolog.Nop())

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	require.Equal(t, "ptt", result.Results[0].Provider)
	require.Equal(t, OutcomeSucceeded, result.Results[0].Outcome)
	require.Equal(t, 2, result.Results[0].RowsWritten)

	require.Equal(t, "shell", result.Results[1].Provider)
	require.Equal(t, OutcomeSucceeded, result.Results[1].Outcome)
	require.Equal(t, 1, result.Results[1].RowsWritten)

	// Flattened observations keep configuration order.
	require.Equal(t, []models.Observation{
		{Provider: "ptt", FuelType: "ดีเซล B7", Price: 29.94},
		{Provider: "ptt", FuelType: "แก๊สโซฮอล์ 95", Price: 34.85},
		{Provider: "shell", FuelType: "ดีเซล B7", Price: 31.14},
	}, result.Observations)

	rows, err := store.QueryDay(context.Background(), result.Date, []string{"ดีเซล B7", "แก๊สโซฮอล์ 95"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestRun_SecondRunConflicts(t *testing.T) {
	store := newTestStore(t)
	providers := []models.ProviderConfig{
		{Name: "ptt", Container: "gasprice ptt"},
		{Name: "shell", Container: "gasprice shell"},
	}

	p := New(store, staticPage(pageMarkup), providers, zerolog.Nop())
	ctx := context.Background()

	first, err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, first.Observations, 3)

	second, err := p.Run(ctx)
	require.NoError(t, err)
	require.True(t, second.AllConflicted())
	require.Empty(t, second.Observations)
	for _, res := range second.Results {
		require.Equal(t, OutcomeConflict, res.Outcome)
		require.Zero(t, res.RowsWritten)
	}

	count, err := store.TotalObservations(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
}

func TestRun_MalformedProviderDoesNotAbortSiblings(t *testing.T) {
	store := newTestStore(t)
	providers := []models.ProviderConfig{
		{Name: "ptt", Container: "gasprice ptt"},
		{Name: "bcp", Container: "gasprice bcp"},   // absent from the page
		{Name: "esso", Container: "gasprice esso"}, // unparseable price
		{Name: "shell", Container: "gasprice shell"},
	}

	p := New(store, staticPage(pageMarkup), providers, zerolog.Nop())

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Results, 4)

	require.Equal(t, OutcomeSucceeded, result.Results[0].Outcome)

	require.Equal(t, OutcomeFailed, result.Results[1].Outcome)
	require.ErrorIs(t, result.Results[1].Err, parse.ErrContainerNotFound)

	require.Equal(t, OutcomeFailed, result.Results[2].Outcome)
	require.Error(t, result.Results[2].Err)

	require.Equal(t, OutcomeSucceeded, result.Results[3].Outcome)

	succeeded, conflicted, failed := result.Counts()
	require.Equal(t, 2, succeeded)
	require.Zero(t, conflicted)
	require.Equal(t, 2, failed)
}

func TestRun_FetchFailureIsFatal(t *testing.T) {
	store := newTestStore(t)
	fetchErr := errors.New("page unreachable")
	failing := fetcherFunc(func(ctx context.Context) ([]byte, error) {
		return nil, fetchErr
	})

	p := New(store, failing, []models.ProviderConfig{{Name: "ptt", Container: "gasprice ptt"}}, zerolog.Nop())

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, fetchErr)
}

func TestRun_FetchesPageExactlyOnce(t *testing.T) {
	store := newTestStore(t)
	calls := 0
	counting := fetcherFunc(func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(pageMarkup), nil
	})

	providers := []models.ProviderConfig{
		{Name: "ptt", Container: "gasprice ptt"},
		{Name: "shell", Container: "gasprice shell"},
	}
	p := New(store, counting, providers, zerolog.Nop())

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

type failingStore struct {
	*database.DB
	failFor string
}

func (s *failingStore) InsertBatch(ctx context.Context, dayArg time.Time, provider string, observations []models.Observation) (int, error) {
	if provider == s.failFor {
		return 0, errors.New("write failed")
	}
	return s.DB.InsertBatch(ctx, dayArg, provider, observations)
}

func TestRun_StorageErrorIsScopedToProvider(t *testing.T) {
	store := &failingStore{DB: newTestStore(t), failFor: "ptt"}
	providers := []models.ProviderConfig{
		{Name: "ptt", Container: "gasprice ptt"},
		{Name: "shell", Container: "gasprice shell"},
	}

	p := New(store, staticPage(pageMarkup), providers, zerolog.Nop())

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, OutcomeFailed, result.Results[0].Outcome)
	require.Equal(t, OutcomeSucceeded, result.Results[1].Outcome)
	require.Equal(t, []models.Observation{
		{Provider: "shell", FuelType: "ดีเซล B7", Price: 31.14},
	}, result.Observations)
}
