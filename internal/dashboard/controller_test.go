package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"journal-dashboard/internal/charts"
	"journal-dashboard/internal/dashboard"
	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"
	"journal-dashboard/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

type apiMock struct {
	mu sync.Mutex

	entries func(p query.Params) (*models.EntriesResponse, error)
	stats   func(days int) (*models.StatsSnapshot, error)
	profile func() (*models.ProfileResponse, error)

	entryCalls []query.Params
	statsCalls []int
	created    []string
	plans      []models.PlanTier
}

func newAPIMock() *apiMock {
	return &apiMock{
		entries: func(p query.Params) (*models.EntriesResponse, error) {
			return entriesPage(25, p.Offset, "entry"), nil
		},
		stats: func(days int) (*models.StatsSnapshot, error) {
			return statsSnapshot(12, 70), nil
		},
		profile: func() (*models.ProfileResponse, error) {
			return &models.ProfileResponse{
				Plan:  models.Plan{Name: "Free", MaxEntries: 30},
				Usage: models.Usage{EntriesThisMonth: 4},
			}, nil
		},
	}
}

func (m *apiMock) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	m.mu.Lock()
	fn := m.profile
	m.mu.Unlock()
	return fn()
}

func (m *apiMock) Stats(ctx context.Context, days int) (*models.StatsSnapshot, error) {
	m.mu.Lock()
	m.statsCalls = append(m.statsCalls, days)
	fn := m.stats
	m.mu.Unlock()
	return fn(days)
}

func (m *apiMock) Entries(ctx context.Context, p query.Params) (*models.EntriesResponse, error) {
	m.mu.Lock()
	m.entryCalls = append(m.entryCalls, p)
	fn := m.entries
	m.mu.Unlock()
	return fn(p)
}

func (m *apiMock) CreateEntry(ctx context.Context, content string) (*models.EntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, content)
	return &models.EntryRecord{ID: 99, Content: content, EmotionLabel: "joy", EmotionScore: 88}, nil
}

func (m *apiMock) ChangePlan(ctx context.Context, tier models.PlanTier) (*models.UpgradeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, tier)
	if tier == models.TierFree {
		return &models.UpgradeResponse{Message: "downgraded"}, nil
	}
	return &models.UpgradeResponse{Link: "https://pay.example.com/" + string(tier)}, nil
}

func (m *apiMock) lastEntryCall() query.Params {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entryCalls[len(m.entryCalls)-1]
}

func (m *apiMock) setEntries(fn func(p query.Params) (*models.EntriesResponse, error)) {
	m.mu.Lock()
	m.entries = fn
	m.mu.Unlock()
}

func (m *apiMock) setStats(fn func(days int) (*models.StatsSnapshot, error)) {
	m.mu.Lock()
	m.stats = fn
	m.mu.Unlock()
}

func entriesPage(total, offset int, prefix string) *models.EntriesResponse {
	stamp := models.Timestamp{Time: fixedNow.Add(-time.Hour)}
	return &models.EntriesResponse{
		Total:  total,
		Limit:  10,
		Offset: offset,
		Entries: []models.EntryRecord{
			{ID: offset + 1, Content: fmt.Sprintf("%s %d", prefix, offset), CreatedAt: stamp, EmotionLabel: "joy", EmotionScore: 91.5},
		},
		OriginalTrend: []models.TrendPoint{{CreatedAt: stamp, Score: 91.5}},
		MultiTrend: []models.MultiTrendPoint{
			{CreatedAt: stamp, Emotions: []models.EmotionScore{{Label: "joy", Score: 91.5}}},
		},
	}
}

func statsSnapshot(total int, avg float64) *models.StatsSnapshot {
	return &models.StatsSnapshot{
		TotalEntries:        total,
		MonthlyEntries:      3,
		TopEmotion:          "joy",
		AvgScore:            avg,
		MoodTrend:           []models.MoodTrendPoint{{Date: "2024-06-09", AverageScore: avg}},
		EmotionDistribution: []models.EmotionCount{{Label: "joy", Emoji: "😄", Count: total}},
		WeeklyPattern:       []models.WeekdayScore{{Day: "Monday", AverageScore: avg}},
		EmotionCorrelation:  []models.EmotionPair{},
	}
}

func newController(api dashboard.JournalAPI, lib charts.Library) *dashboard.Controller {
	return dashboard.New(dashboard.Options{
		API:          api,
		Charts:       lib,
		Session:      &models.Session{Token: "tok", User: models.UserRecord{Name: "Ana"}},
		PageSize:     10,
		DefaultRange: query.Range30d,
		Now:          func() time.Time { return fixedNow },
	})
}

func TestInitRendersAllViews(t *testing.T) {
	api := newAPIMock()
	lib := charts.NewMemoryLibrary()
	ctrl := newController(api, lib)

	require.NoError(t, ctrl.Init(context.Background()))
	v := ctrl.View()

	assert.Equal(t, "Welcome, Ana", v.Greeting)
	assert.Equal(t, "Page 1 of 3", v.Pagination.Text)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "😄 joy 91.50%", v.Entries[0].ScoreText)
	assert.True(t, v.Entries[0].Positive)

	require.NotNil(t, v.Stats)
	assert.Equal(t, "12", v.Stats.Total)
	assert.Equal(t, "70.00%", v.Stats.Score)
	assert.Len(t, v.Insights, 3)

	require.NotNil(t, v.Profile)
	assert.Equal(t, models.TierFree, v.Profile.Tier)
	assert.True(t, v.Profile.Buttons.Free.Disabled)

	for _, canvas := range []string{
		charts.CanvasOriginalTrend, charts.CanvasMultiTrend,
		charts.CanvasMoodTrend, charts.CanvasEmotionDistribution,
		charts.CanvasWeeklyMood, charts.CanvasEmotionCorrelation,
	} {
		assert.Equal(t, 1, lib.Live(canvas), canvas)
		assert.Contains(t, v.Charts, canvas)
	}
	assert.Equal(t, []int{30}, api.statsCalls)
}

func TestRepeatedRefreshKeepsOneChart(t *testing.T) {
	lib := charts.NewMemoryLibrary()
	ctrl := newController(newAPIMock(), lib)

	for i := 0; i < 4; i++ {
		require.NoError(t, ctrl.RefreshAll(context.Background()))
	}
	assert.Equal(t, 1, lib.Live(charts.CanvasWeeklyMood))
	assert.Equal(t, 1, lib.Live(charts.CanvasMultiTrend))

	ctrl.Close()
	assert.Equal(t, 0, lib.Live(charts.CanvasWeeklyMood))
}

func TestStaleEntriesResponseIsDiscarded(t *testing.T) {
	api := newAPIMock()
	started := make(chan struct{})
	release := make(chan struct{})
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		if p.Offset == 0 {
			close(started)
			<-release
			return entriesPage(25, 0, "old"), nil
		}
		return entriesPage(25, p.Offset, "new"), nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background(), 0) }()
	<-started

	require.NoError(t, ctrl.Refresh(context.Background(), 1))
	close(release)
	assert.ErrorIs(t, <-done, errorvalues.ErrSuperseded)

	v := ctrl.View()
	require.Len(t, v.Entries, 1)
	assert.Equal(t, "new 10", v.Entries[0].Content)
	assert.Equal(t, 1, v.Pagination.Page)
	assert.Equal(t, "Page 2 of 3", v.Pagination.Text)
	assert.Equal(t, uint64(2), v.Versions[dashboard.ViewEntries])
}

func TestStaleStatsResponseIsDiscarded(t *testing.T) {
	api := newAPIMock()
	started := make(chan struct{})
	release := make(chan struct{})
	api.setStats(func(days int) (*models.StatsSnapshot, error) {
		if days == 7 {
			close(started)
			<-release
			return statsSnapshot(7, 20), nil
		}
		return statsSnapshot(365, 90), nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())

	done := make(chan error, 1)
	go func() { done <- ctrl.SetAnalyticsRange(context.Background(), query.Range7d, "", "") }()
	<-started

	require.NoError(t, ctrl.SetAnalyticsRange(context.Background(), query.Range365d, "", ""))
	close(release)
	assert.ErrorIs(t, <-done, errorvalues.ErrSuperseded)

	v := ctrl.View()
	require.NotNil(t, v.Stats)
	assert.Equal(t, "365", v.Stats.Total)
	assert.Equal(t, "90.00%", v.Stats.Score)
	assert.Contains(t, v.Insights[0], "very positive")
}

func TestFailureKeepsRenderedViews(t *testing.T) {
	api := newAPIMock()
	lib := charts.NewMemoryLibrary()
	ctrl := newController(api, lib)
	require.NoError(t, ctrl.Init(context.Background()))
	before := ctrl.View()

	api.setStats(func(days int) (*models.StatsSnapshot, error) {
		return nil, &services.APIError{Status: 500, Message: "Internal Server Error"}
	})
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		return nil, &services.APIError{Message: "connection refused"}
	})

	assert.Error(t, ctrl.RefreshStats(context.Background()))
	assert.Error(t, ctrl.NextPage(context.Background()))

	after := ctrl.View()
	assert.Equal(t, before.Stats, after.Stats)
	assert.Equal(t, before.Insights, after.Insights)
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, before.Pagination, after.Pagination)
	assert.Equal(t, before.Charts, after.Charts)
	assert.Equal(t, "Internal Server Error", after.Notices[dashboard.ViewStats])
	assert.Equal(t, "connection refused", after.Notices[dashboard.ViewEntries])
	assert.Equal(t, 1, lib.Live(charts.CanvasMoodTrend))
}

func TestApplyFilterResetsPage(t *testing.T) {
	api := newAPIMock()
	ctrl := newController(api, charts.NewMemoryLibrary())
	require.NoError(t, ctrl.Init(context.Background()))

	require.NoError(t, ctrl.NextPage(context.Background()))
	assert.Equal(t, 10, api.lastEntryCall().Offset)

	require.NoError(t, ctrl.ApplyFilter(context.Background(), query.Range7d, "", ""))
	call := api.lastEntryCall()
	assert.Equal(t, 0, call.Offset)
	assert.Equal(t, "2024-06-03", call.StartDate)
	assert.Equal(t, "2024-06-10", call.EndDate)
	assert.Equal(t, 0, ctrl.View().Pagination.Page)
	assert.Equal(t, query.Range7d, ctrl.View().Filter.Range)
}

func TestCustomFilterNeedsBothDates(t *testing.T) {
	api := newAPIMock()
	ctrl := newController(api, charts.NewMemoryLibrary())

	err := ctrl.ApplyFilter(context.Background(), query.RangeCustom, "2024-06-01", "")
	assert.ErrorIs(t, err, errorvalues.ErrValidation)
	assert.Empty(t, api.entryCalls)
	assert.NotEmpty(t, ctrl.View().Notices[dashboard.ViewEntries])

	require.NoError(t, ctrl.ApplyFilter(context.Background(), query.RangeCustom, "2024-06-01", "2024-06-05"))
	call := api.lastEntryCall()
	assert.Equal(t, "2024-06-01", call.StartDate)
	assert.Equal(t, "2024-06-05", call.EndDate)
}

func TestPagingStopsAtBounds(t *testing.T) {
	api := newAPIMock()
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		return entriesPage(5, p.Offset, "entry"), nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())
	require.NoError(t, ctrl.Refresh(context.Background(), 0))

	require.NoError(t, ctrl.NextPage(context.Background()))
	require.NoError(t, ctrl.PrevPage(context.Background()))
	assert.Len(t, api.entryCalls, 1)
}

func TestSaveEntry(t *testing.T) {
	t.Run("blank content", func(t *testing.T) {
		api := newAPIMock()
		ctrl := newController(api, charts.NewMemoryLibrary())

		_, err := ctrl.SaveEntry(context.Background(), "   \n")
		assert.ErrorIs(t, err, errorvalues.ErrValidation)
		assert.Equal(t, "Please write something before saving.", ctrl.View().FormStatus)
		assert.Empty(t, api.created)
	})

	t.Run("reloads first page", func(t *testing.T) {
		api := newAPIMock()
		ctrl := newController(api, charts.NewMemoryLibrary())
		require.NoError(t, ctrl.Init(context.Background()))
		require.NoError(t, ctrl.NextPage(context.Background()))

		entry, err := ctrl.SaveEntry(context.Background(), "  Good day  ")
		require.NoError(t, err)
		assert.Equal(t, 99, entry.ID)
		assert.Equal(t, []string{"Good day"}, api.created)
		assert.Equal(t, "Saved.", ctrl.View().FormStatus)
		assert.Equal(t, 0, api.lastEntryCall().Offset)
		assert.Equal(t, 0, ctrl.View().Pagination.Page)
	})
}

type failingLibrary struct {
	*charts.MemoryLibrary
	canvas string
}

func (l failingLibrary) New(canvasID string, cfg charts.Config) (charts.Instance, error) {
	if canvasID == l.canvas {
		return nil, errors.New("canvas not found")
	}
	return l.MemoryLibrary.New(canvasID, cfg)
}

func TestRenderFailureDoesNotBlockOtherCharts(t *testing.T) {
	mem := charts.NewMemoryLibrary()
	ctrl := newController(newAPIMock(), failingLibrary{MemoryLibrary: mem, canvas: charts.CanvasWeeklyMood})

	require.NoError(t, ctrl.RefreshStats(context.Background()))
	v := ctrl.View()

	assert.Contains(t, v.RenderErrors[charts.CanvasWeeklyMood], "canvas not found")
	assert.Equal(t, 1, mem.Live(charts.CanvasEmotionCorrelation))
	assert.NotEmpty(t, v.Insights)
	require.NotNil(t, v.Stats)
}

func TestChangePlan(t *testing.T) {
	api := newAPIMock()
	ctrl := newController(api, charts.NewMemoryLibrary())

	change, err := ctrl.ChangePlan(context.Background(), models.TierPremium)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/premium", change.RedirectURL)

	_, err = ctrl.ChangePlan(context.Background(), models.TierFree)
	assert.ErrorIs(t, err, errorvalues.ErrValidation)
	assert.Equal(t, []models.PlanTier{models.TierPremium}, api.plans)
}

func TestSearch(t *testing.T) {
	api := newAPIMock()
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		resp := entriesPage(2, 0, "x")
		resp.Entries = []models.EntryRecord{
			{ID: 1, Content: "Rainy afternoon at home", EmotionLabel: "sadness", EmotionScore: 40},
			{ID: 2, Content: "Coffee at the Café with Léa", EmotionLabel: "joy", EmotionScore: 80},
		}
		return resp, nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())
	require.NoError(t, ctrl.Refresh(context.Background(), 0))

	results := ctrl.Search("cafe lea")
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ID)

	assert.Len(t, ctrl.Search(""), 2)
	assert.Empty(t, ctrl.Search("zzz"))
}

// gatedLibrary parks the render of gated until release is closed.
type gatedLibrary struct {
	*charts.MemoryLibrary
	gated   string
	armed   chan struct{}
	entered chan struct{}
	release chan struct{}
}

func (l *gatedLibrary) New(canvasID string, cfg charts.Config) (charts.Instance, error) {
	if canvasID == l.gated {
		select {
		case <-l.armed:
			close(l.entered)
			<-l.release
		default:
		}
	}
	return l.MemoryLibrary.New(canvasID, cfg)
}

func TestViewWaitsForChartsOfSameRefresh(t *testing.T) {
	lib := &gatedLibrary{
		MemoryLibrary: charts.NewMemoryLibrary(),
		gated:         charts.CanvasMultiTrend,
		armed:         make(chan struct{}),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	api := newAPIMock()
	ctrl := newController(api, lib)
	require.NoError(t, ctrl.Refresh(context.Background(), 0))

	close(lib.armed)
	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background(), 1) }()
	<-lib.entered

	views := make(chan dashboard.View, 1)
	go func() { views <- ctrl.View() }()
	select {
	case <-views:
		t.Fatal("view returned while charts were half rendered")
	case <-time.After(50 * time.Millisecond):
	}

	close(lib.release)
	require.NoError(t, <-done)
	v := <-views

	require.Len(t, v.Entries, 1)
	assert.Equal(t, "entry 10", v.Entries[0].Content)
	assert.Equal(t, 1, v.Pagination.Page)
	assert.Contains(t, v.Charts, charts.CanvasOriginalTrend)
	assert.Contains(t, v.Charts, charts.CanvasMultiTrend)
}

func TestViewChartsAreACopy(t *testing.T) {
	ctrl := newController(newAPIMock(), charts.NewMemoryLibrary())
	require.NoError(t, ctrl.Refresh(context.Background(), 0))

	v := ctrl.View()
	delete(v.Charts, charts.CanvasOriginalTrend)
	assert.Contains(t, ctrl.View().Charts, charts.CanvasOriginalTrend)
}

func TestFailedFilterKeepsFilterAndPager(t *testing.T) {
	api := newAPIMock()
	ctrl := newController(api, charts.NewMemoryLibrary())
	require.NoError(t, ctrl.Init(context.Background()))
	require.NoError(t, ctrl.NextPage(context.Background()))
	require.NoError(t, ctrl.NextPage(context.Background()))
	before := ctrl.View()
	require.Equal(t, 2, before.Pagination.Page)

	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		return nil, &services.APIError{Message: "connection refused"}
	})
	assert.Error(t, ctrl.ApplyFilter(context.Background(), query.Range7d, "", ""))

	after := ctrl.View()
	assert.Equal(t, query.Range30d, after.Filter.Range)
	assert.Equal(t, before.Pagination, after.Pagination)
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, "connection refused", after.Notices[dashboard.ViewEntries])

	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		return entriesPage(25, p.Offset, "entry"), nil
	})
	require.NoError(t, ctrl.PrevPage(context.Background()))
	call := api.lastEntryCall()
	assert.Equal(t, 10, call.Offset)
	assert.Equal(t, "2024-05-11", call.StartDate)
}

func TestFailedAnalyticsRangeKeepsRange(t *testing.T) {
	api := newAPIMock()
	ctrl := newController(api, charts.NewMemoryLibrary())
	require.NoError(t, ctrl.RefreshStats(context.Background()))

	api.setStats(func(days int) (*models.StatsSnapshot, error) {
		return nil, &services.APIError{Status: 500, Message: "Internal Server Error"}
	})
	assert.Error(t, ctrl.SetAnalyticsRange(context.Background(), query.Range7d, "", ""))
	assert.Equal(t, query.Range30d, ctrl.View().AnalyticsRange.Range)

	api.setStats(func(days int) (*models.StatsSnapshot, error) {
		return statsSnapshot(days, 70), nil
	})
	require.NoError(t, ctrl.RefreshStats(context.Background()))
	assert.Equal(t, []int{30, 7, 30}, api.statsCalls)
}

func TestOverlappingFiltersApplyLatest(t *testing.T) {
	api := newAPIMock()
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		return entriesPage(25, p.Offset, p.StartDate), nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())

	modes := []query.RangeMode{query.Range7d, query.Range30d, query.Range365d}
	starts := map[query.RangeMode]string{
		query.Range7d:   "2024-06-03",
		query.Range30d:  "2024-05-11",
		query.Range365d: "2023-06-11",
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(mode query.RangeMode) {
			defer wg.Done()
			err := ctrl.ApplyFilter(context.Background(), mode, "", "")
			if err != nil {
				assert.ErrorIs(t, err, errorvalues.ErrSuperseded)
			}
		}(modes[i%len(modes)])
	}
	wg.Wait()

	v := ctrl.View()
	require.Len(t, v.Entries, 1)
	assert.Equal(t, starts[v.Filter.Range]+" 0", v.Entries[0].Content)
	assert.Equal(t, 0, v.Pagination.Page)
}

func TestStaleFilterLosesToNewerFilter(t *testing.T) {
	api := newAPIMock()
	started := make(chan struct{})
	release := make(chan struct{})
	api.setEntries(func(p query.Params) (*models.EntriesResponse, error) {
		if p.StartDate == "2024-06-03" {
			close(started)
			<-release
		}
		return entriesPage(25, p.Offset, p.StartDate), nil
	})
	ctrl := newController(api, charts.NewMemoryLibrary())

	done := make(chan error, 1)
	go func() { done <- ctrl.ApplyFilter(context.Background(), query.Range7d, "", "") }()
	<-started

	require.NoError(t, ctrl.ApplyFilter(context.Background(), query.Range365d, "", ""))
	close(release)
	assert.ErrorIs(t, <-done, errorvalues.ErrSuperseded)

	v := ctrl.View()
	assert.Equal(t, query.Range365d, v.Filter.Range)
	assert.Equal(t, "2023-06-11 0", v.Entries[0].Content)
}
