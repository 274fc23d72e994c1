package repository

import (
	"path/filepath"
	"testing"

	"pricewatch/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHistoryRepository(db)
}

func Test_LastPrice_Empty(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)

	_, ok, err := repo.LastPrice("https://example.com/p")
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_LastPrice_ReturnsNewestReading(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)
	url := "https://articulo.mercadolibre.com.co/MCO-1"

	for _, p := range []string{"200.00", "185.50", "190.75"} {
		price, err := decimal.NewFromString(p)
		require.NoError(t, err)
		require.NoError(t, repo.Insert("Laptop", url, price, "$"))
	}

	last, ok, err := repo.LastPrice(url)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "190.75", last.String())
}

func Test_LastPrice_IsolatedPerURL(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)

	require.NoError(t, repo.Insert("A", "https://amazon.com/dp/a", decimal.NewFromInt(100), "$"))
	require.NoError(t, repo.Insert("B", "https://amazon.com/dp/b", decimal.NewFromInt(50), "$"))

	last, ok, err := repo.LastPrice("https://amazon.com/dp/a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "100", last.String())
}

func Test_Recent_NewestFirstAcrossProducts(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)

	require.NoError(t, repo.Insert("First", "https://amazon.com/dp/1", decimal.NewFromInt(10), "$"))
	require.NoError(t, repo.Insert("Second", "https://amazon.com/dp/2", decimal.NewFromInt(20), "$"))
	require.NoError(t, repo.Insert("Third", "https://amazon.com/dp/3", decimal.NewFromInt(30), "$"))

	readings, err := repo.Recent(2)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	require.Equal(t, "Third", readings[0].Name)
	require.Equal(t, "Second", readings[1].Name)
	require.Equal(t, "30", readings[0].Price.String())
	require.NotEmpty(t, readings[0].Date)
}

func Test_Recent_Empty(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)

	readings, err := repo.Recent(10)
	require.NoError(t, err)
	require.Empty(t, readings)
}

func Test_Insert_AssignsTimestamp(t *testing.T) {
	t.Parallel()
	repo := testRepo(t)

	require.NoError(t, repo.Insert("Watch", "https://amazon.com/dp/w", decimal.NewFromFloat(79.99), "$"))

	readings, err := repo.Recent(1)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, readings[0].Date)
	require.Equal(t, "$", readings[0].Currency)
}
