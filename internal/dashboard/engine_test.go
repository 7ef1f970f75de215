package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhardwajvivekkumar/JobSync/internal/applications"
)

func seed(t *testing.T, svc *applications.Service, userID string, reqs ...applications.CreateRequest) {
	t.Helper()
	for _, req := range reqs {
		_, err := svc.Create(context.Background(), userID, req)
		require.NoError(t, err)
	}
}

func TestCount(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-a",
		applications.CreateRequest{Company: "Acme", JobTitle: "Engineer"},
		applications.CreateRequest{Company: "Globex", JobTitle: "Manager"},
	)
	seed(t, svc, "user-b",
		applications.CreateRequest{Company: "Initech", JobTitle: "Analyst"},
	)

	n, err := engine.Count(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTrendsByMonthAlways12Entries(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-a",
		applications.CreateRequest{Company: "Acme", JobTitle: "Engineer", AppliedAt: "2024-03-05"},
	)

	trends, err := engine.TrendsByMonth(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, trends, 12)

	assert.Equal(t, "Jan", trends[0].Month)
	assert.Equal(t, "Dec", trends[11].Month)

	total := 0
	for _, mc := range trends {
		total += mc.Count
		if mc.Month == "Mar" {
			assert.Equal(t, 1, mc.Count)
		} else {
			assert.Zero(t, mc.Count)
		}
	}
	assert.Equal(t, 1, total)
}

func TestTrendsMergeAcrossYears(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-a",
		applications.CreateRequest{Company: "Acme", JobTitle: "Engineer", AppliedAt: "2023-03-05"},
		applications.CreateRequest{Company: "Globex", JobTitle: "Manager", AppliedAt: "2024-03-09"},
	)

	trends, err := engine.TrendsByMonth(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, trends[2].Count) // Mar, both years
}

func TestPerDay(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-a",
		applications.CreateRequest{Company: "Acme", JobTitle: "Engineer", AppliedAt: "2024-03-05"},
		applications.CreateRequest{Company: "Globex", JobTitle: "Manager", AppliedAt: "2024-03-05"},
		applications.CreateRequest{Company: "Initech", JobTitle: "Analyst", AppliedAt: "2024-02-01"},
	)

	days, err := engine.PerDay(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"2024-03-05": 2,
		"2024-02-01": 1,
	}, days)
}

func TestByStatus(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-a",
		applications.CreateRequest{Company: "Acme", JobTitle: "Engineer", Status: applications.StatusApplied},
		applications.CreateRequest{Company: "Globex", JobTitle: "Manager", Status: applications.StatusOffer},
	)

	counts, err := engine.ByStatus(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Applied": 1,
		"Offer":   1,
	}, counts)
}

func TestByStatusGroupsMissingAsUnknown(t *testing.T) {
	store := applications.NewMemStore()
	engine := NewEngine(store)
	ctx := context.Background()

	// Legacy rows can carry an empty status; they surface as Unknown.
	app := applications.Application{UserID: "user-a", Company: "Acme", JobTitle: "Engineer"}
	require.NoError(t, store.Insert(ctx, &app))

	counts, err := engine.ByStatus(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Unknown": 1}, counts)
}

func TestViewsAreOwnerScoped(t *testing.T) {
	store := applications.NewMemStore()
	svc := applications.NewService(store)
	engine := NewEngine(store)

	seed(t, svc, "user-b",
		applications.CreateRequest{Company: "Initech", JobTitle: "Analyst", AppliedAt: "2024-03-05"},
	)

	n, err := engine.Count(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Zero(t, n)

	days, err := engine.PerDay(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Empty(t, days)
}
