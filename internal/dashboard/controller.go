// Package dashboard keeps every view of a dashboard page consistent with one
// fetch result at a time.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"journal-dashboard/internal/charts"
	errorvalues "journal-dashboard/internal/error_values"
	"journal-dashboard/internal/insights"
	"journal-dashboard/internal/metrics"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"
	"journal-dashboard/internal/services"
	"journal-dashboard/internal/utils"

	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"
)

// JournalAPI is the subset of the journal REST API a dashboard consumes.
type JournalAPI interface {
	Profile(ctx context.Context) (*models.ProfileResponse, error)
	Stats(ctx context.Context, days int) (*models.StatsSnapshot, error)
	Entries(ctx context.Context, p query.Params) (*models.EntriesResponse, error)
	CreateEntry(ctx context.Context, content string) (*models.EntryRecord, error)
	ChangePlan(ctx context.Context, tier models.PlanTier) (*models.UpgradeResponse, error)
}

type Options struct {
	API          JournalAPI
	Charts       charts.Library
	Session      *models.Session
	PageSize     int
	DefaultRange query.RangeMode
	DateLayout   string
	Now          func() time.Time
	Logger       *slog.Logger
}

// Controller is the view synchronizer of one dashboard page. Every refresh
// takes a sequence number; only the completion holding the latest number of
// its view is applied, older ones are dropped.
type Controller struct {
	api          JournalAPI
	charts       *charts.Registry
	subscription *services.SubscriptionService
	now          func() time.Time
	layout       string
	logger       *slog.Logger

	entriesSeq atomic.Uint64
	statsSeq   atomic.Uint64
	profileSeq atomic.Uint64

	mu        sync.Mutex
	query     *query.State
	analytics FilterView
	entries   []models.EntryRecord
	view      View
}

func New(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DateLayout == "" {
		opts.DateLayout = "1/2/2006"
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewMemoryLibrary()
	}
	mode := opts.DefaultRange
	if mode == "" || mode == query.RangeCustom {
		mode = query.Range30d
	}

	c := &Controller{
		api:          opts.API,
		charts:       charts.NewRegistry(opts.Charts),
		subscription: services.NewSubscriptionService(opts.API),
		now:          opts.Now,
		layout:       opts.DateLayout,
		logger:       opts.Logger,
		query:        query.New(opts.PageSize, mode),
		analytics:    FilterView{Range: mode},
	}
	c.view = View{
		Greeting:       services.Greeting(opts.Session),
		Filter:         FilterView{Range: mode},
		AnalyticsRange: c.analytics,
		Pagination:     c.query.Pagination(),
		Entries:        []EntryView{},
		Insights:       []string{},
		Charts:         map[string]charts.Config{},
		Versions:       map[string]uint64{},
	}
	return c
}

// View returns a copy of the current view model. Charts are the configs
// applied together with the data next to them.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.clone()
}

// Init loads profile, the first entries page and the statistics. The three
// views are independent, so they are fetched concurrently.
func (c *Controller) Init(ctx context.Context) error {
	return c.refreshViews(ctx, 0)
}

// RefreshAll reloads every view, keeping the current page.
func (c *Controller) RefreshAll(ctx context.Context) error {
	c.mu.Lock()
	page := c.query.Page()
	c.mu.Unlock()
	return c.refreshViews(ctx, page)
}

func (c *Controller) refreshViews(ctx context.Context, page int) error {
	var g errgroup.Group
	g.Go(func() error { return c.RefreshProfile(ctx) })
	g.Go(func() error { return c.Refresh(ctx, page) })
	g.Go(func() error { return c.RefreshStats(ctx) })
	return g.Wait()
}

// Refresh loads entries page and applies it to pagination, list and the
// two trend charts, in that order.
func (c *Controller) Refresh(ctx context.Context, page int) error {
	return c.refreshEntries(ctx, page, nil)
}

// refreshEntries fetches page under filter, or under the active filter when
// filter is nil. A new filter becomes active only with its first response.
func (c *Controller) refreshEntries(ctx context.Context, page int, filter *FilterView) error {
	c.mu.Lock()
	staged := *c.query
	if filter != nil {
		staged.SetRange(filter.Range, filter.StartDate, filter.EndDate)
	}
	params, err := staged.Params(page, c.now())
	if err != nil {
		c.mu.Unlock()
		c.setNotice(ViewEntries, err.Error())
		return err
	}
	seq := c.entriesSeq.Add(1)
	c.mu.Unlock()

	start := time.Now()
	logger := c.logger.With(slog.String("view", ViewEntries), slog.Uint64("seq", seq))
	resp, err := c.api.Entries(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.latest(&c.entriesSeq, seq, ViewEntries, start, logger) {
		return errorvalues.ErrSuperseded
	}
	if err != nil {
		c.fail(ViewEntries, err, start, logger)
		return err
	}

	if filter != nil {
		c.query.SetRange(filter.Range, filter.StartDate, filter.EndDate)
		from, to := c.query.CustomDates()
		c.view.Filter = FilterView{Range: filter.Range, StartDate: from, EndDate: to}
	}
	c.query.SetPage(page)
	c.query.SetTotal(resp.Total)
	c.entries = resp.Entries
	c.view.Pagination = c.query.Pagination()
	c.view.Entries = renderEntries(resp.Entries, c.layout)
	c.renderCharts(logger,
		chartJob{charts.CanvasOriginalTrend, charts.OriginalTrendConfig(resp.OriginalTrend, c.layout)},
		chartJob{charts.CanvasMultiTrend, charts.MultiTrendConfig(resp.MultiTrend, c.layout)},
	)
	c.applied(ViewEntries, seq, start)
	logger.Debug("entries applied", slog.Int("total", resp.Total), slog.Int("offset", params.Offset))
	return nil
}

// RefreshStats loads the statistics of the analytics range and applies them
// to the stat cards, the four charts and the insights, in that order.
func (c *Controller) RefreshStats(ctx context.Context) error {
	return c.refreshStats(ctx, nil)
}

// refreshStats mirrors refreshEntries for the analytics range.
func (c *Controller) refreshStats(ctx context.Context, rng *FilterView) error {
	c.mu.Lock()
	target := c.analytics
	if rng != nil {
		target = *rng
	}
	days, err := query.StatsDays(target.Range, target.StartDate, target.EndDate, c.now())
	if err != nil {
		c.mu.Unlock()
		c.setNotice(ViewStats, err.Error())
		return err
	}
	seq := c.statsSeq.Add(1)
	c.mu.Unlock()

	start := time.Now()
	logger := c.logger.With(slog.String("view", ViewStats), slog.Uint64("seq", seq))
	stats, err := c.api.Stats(ctx, days)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.latest(&c.statsSeq, seq, ViewStats, start, logger) {
		return errorvalues.ErrSuperseded
	}
	if err != nil {
		c.fail(ViewStats, err, start, logger)
		return err
	}

	c.analytics = target
	c.view.AnalyticsRange = target
	c.view.Stats = renderStatCards(stats)
	c.renderCharts(logger,
		chartJob{charts.CanvasMoodTrend, charts.MoodTrendConfig(stats.MoodTrend, c.layout)},
		chartJob{charts.CanvasEmotionDistribution, charts.EmotionDistributionConfig(stats.EmotionDistribution)},
		chartJob{charts.CanvasWeeklyMood, charts.WeeklyMoodConfig(stats.WeeklyPattern)},
		chartJob{charts.CanvasEmotionCorrelation, charts.EmotionCorrelationConfig(stats.EmotionCorrelation)},
	)
	c.view.Insights = insights.Generate(*stats)
	c.applied(ViewStats, seq, start)
	return nil
}

// RefreshProfile loads plan and usage and re-derives the plan buttons.
func (c *Controller) RefreshProfile(ctx context.Context) error {
	seq := c.profileSeq.Add(1)
	start := time.Now()
	logger := c.logger.With(slog.String("view", ViewProfile), slog.Uint64("seq", seq))
	profile, err := c.api.Profile(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.latest(&c.profileSeq, seq, ViewProfile, start, logger) {
		return errorvalues.ErrSuperseded
	}
	if err != nil {
		c.fail(ViewProfile, err, start, logger)
		return err
	}
	c.view.Profile = renderProfile(profile)
	c.applied(ViewProfile, seq, start)
	return nil
}

// ApplyFilter switches the entries filter and reloads from the first page.
// The filter and pager stay as they were when the reload fails.
func (c *Controller) ApplyFilter(ctx context.Context, mode query.RangeMode, startDate, endDate string) error {
	return c.refreshEntries(ctx, 0, &FilterView{Range: mode, StartDate: startDate, EndDate: endDate})
}

// NextPage moves forward when there is a next page; otherwise it does nothing.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	page, ok := c.query.NextPage()
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Refresh(ctx, page)
}

// PrevPage moves back when not on the first page.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	page, ok := c.query.PrevPage()
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Refresh(ctx, page)
}

// SetAnalyticsRange changes the statistics range and reloads them.
func (c *Controller) SetAnalyticsRange(ctx context.Context, mode query.RangeMode, startDate, endDate string) error {
	rng := FilterView{Range: mode}
	if mode == query.RangeCustom {
		rng.StartDate = strings.TrimSpace(startDate)
		rng.EndDate = strings.TrimSpace(endDate)
	}
	return c.refreshStats(ctx, &rng)
}

// SaveEntry submits a new entry and reloads the first page, the statistics
// and the usage counter. Blank content never reaches the network.
func (c *Controller) SaveEntry(ctx context.Context, content string) (*models.EntryRecord, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		c.setFormStatus("Please write something before saving.")
		return nil, fmt.Errorf("%w: entry content is empty", errorvalues.ErrValidation)
	}

	c.setFormStatus("Analyzing...")
	entry, err := c.api.CreateEntry(ctx, content)
	if err != nil {
		c.setFormStatus("Error: " + errorMessage(err))
		return nil, err
	}
	c.setFormStatus("Saved.")

	if err := c.refreshViews(ctx, 0); err != nil && !errors.Is(err, errorvalues.ErrSuperseded) {
		c.logger.Warn("reload after save failed", slog.String("error", err.Error()))
	}
	return entry, nil
}

// ChangePlan requests a tier change based on the plan currently shown.
func (c *Controller) ChangePlan(ctx context.Context, target models.PlanTier) (models.PlanChange, error) {
	c.mu.Lock()
	profile := c.view.Profile
	c.mu.Unlock()
	if profile == nil {
		if err := c.RefreshProfile(ctx); err != nil {
			return models.PlanChange{}, err
		}
		c.mu.Lock()
		profile = c.view.Profile
		c.mu.Unlock()
	}

	change, err := c.subscription.Change(ctx, profile.Tier, profile.Expired, target)
	if err != nil {
		return change, err
	}
	if change.Downgraded {
		if err := c.RefreshProfile(ctx); err != nil && !errors.Is(err, errorvalues.ErrSuperseded) {
			c.logger.Warn("profile reload after downgrade failed", slog.String("error", err.Error()))
		}
	}
	return change, nil
}

// Search matches q against the entries on the current page, best match
// first. Matching ignores case and accents.
func (c *Controller) Search(q string) []EntryView {
	c.mu.Lock()
	defer c.mu.Unlock()

	q = strings.TrimSpace(q)
	if q == "" {
		return append([]EntryView(nil), c.view.Entries...)
	}
	folded := make([]string, len(c.entries))
	for i, e := range c.entries {
		folded[i] = utils.FoldText(e.Content)
	}
	matches := fuzzy.Find(utils.FoldText(q), folded)
	out := make([]EntryView, 0, len(matches))
	for _, m := range matches {
		if m.Index < len(c.view.Entries) {
			out = append(out, c.view.Entries[m.Index])
		}
	}
	return out
}

// Close tears down the charts of the page.
func (c *Controller) Close() {
	c.charts.DestroyAll()
}

type chartJob struct {
	canvas string
	cfg    charts.Config
}

// renderCharts renders every job; a failing chart does not stop the others.
// Callers hold c.mu.
func (c *Controller) renderCharts(logger *slog.Logger, jobs ...chartJob) {
	for _, job := range jobs {
		if err := c.charts.Render(job.canvas, job.cfg); err != nil {
			logger.Error("chart render failed", slog.String("canvas", job.canvas), slog.String("error", err.Error()))
			metrics.TrackRenderFailure(job.canvas)
			if c.view.RenderErrors == nil {
				c.view.RenderErrors = map[string]string{}
			}
			c.view.RenderErrors[job.canvas] = err.Error()
			delete(c.view.Charts, job.canvas)
			continue
		}
		delete(c.view.RenderErrors, job.canvas)
		c.view.Charts[job.canvas] = job.cfg
	}
}

// latest reports whether seq is still the newest request of view. Callers
// hold c.mu.
func (c *Controller) latest(counter *atomic.Uint64, seq uint64, view string, start time.Time, logger *slog.Logger) bool {
	if seq == counter.Load() {
		return true
	}
	logger.Info("discarding stale response", slog.Uint64("latest", counter.Load()))
	metrics.TrackRefresh(view, metrics.OutcomeStale, time.Since(start).Seconds())
	return false
}

// fail keeps the rendered view and only reports the error. Callers hold c.mu.
func (c *Controller) fail(view string, err error, start time.Time, logger *slog.Logger) {
	logger.Error("refresh failed", slog.String("error", err.Error()))
	metrics.TrackRefresh(view, metrics.OutcomeFailed, time.Since(start).Seconds())
	if c.view.Notices == nil {
		c.view.Notices = map[string]string{}
	}
	c.view.Notices[view] = errorMessage(err)
}

// applied records a successful refresh. Callers hold c.mu.
func (c *Controller) applied(view string, seq uint64, start time.Time) {
	metrics.TrackRefresh(view, metrics.OutcomeApplied, time.Since(start).Seconds())
	delete(c.view.Notices, view)
	c.view.Versions[view] = seq
}

func (c *Controller) setNotice(view, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.Notices == nil {
		c.view.Notices = map[string]string{}
	}
	c.view.Notices[view] = msg
}

func (c *Controller) setFormStatus(msg string) {
	c.mu.Lock()
	c.view.FormStatus = msg
	c.mu.Unlock()
}

func errorMessage(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
