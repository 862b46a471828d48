// Package population fetches working-age population estimates from the UN
// population data portal.
package population

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/metrics"
	"github.com/dd0wney/drugnet/pkg/parallel"
	"github.com/dd0wney/drugnet/pkg/period"
	"github.com/dd0wney/drugnet/pkg/sources"
)

// DefaultBaseURL is the data portal API root.
const DefaultBaseURL = "https://population.un.org/dataportalapi/api/v1"

// indicatorPopulation is the portal's population by five-year age group.
const indicatorPopulation = 46

// BothSexes is the sex label of totals.
const BothSexes = "Both sexes"

// ErrStatus is returned for a non-200 response.
var ErrStatus = errors.New("unexpected response status")

// Location is a portal location.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type datum struct {
	Location  string  `json:"location"`
	TimeLabel string  `json:"timeLabel"`
	Sex       string  `json:"sex"`
	AgeStart  int     `json:"ageStart"`
	Value     float64 `json:"value"`
}

type page[T any] struct {
	Data     []T     `json:"data"`
	NextPage *string `json:"nextPage"`
}

// Client queries the portal.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// AgeMin and AgeMax bound the ageStart of the age groups summed.
	AgeMin, AgeMax int
	// Pool fans locations out; locations are fetched sequentially when nil.
	Pool    *parallel.WorkerPool
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// NewClient returns a client for baseURL with the 15-64 age band.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		AgeMin:  15,
		AgeMax:  64,
	}
}

func (c *Client) get(ctx context.Context, endpoint, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.record(endpoint, "error", start)
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()
	c.record(endpoint, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s: %d", ErrStatus, url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) record(endpoint, status string, start time.Time) {
	if c.Metrics != nil {
		c.Metrics.RecordFetch(endpoint, status, time.Since(start))
	}
}

// pages follows nextPage links from url until none is left.
func pages[T any](ctx context.Context, c *Client, endpoint, url string) ([]T, error) {
	var out []T
	for next := &url; next != nil && *next != ""; {
		var p page[T]
		if err := c.get(ctx, endpoint, *next, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		next = p.NextPage
	}
	return out, nil
}

// Locations lists every location of the portal.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	return pages[Location](ctx, c, "locations", c.BaseURL+"/locations/")
}

// LocationPopulation returns the population of location id in the age band
// for each year of p, summed over age groups for both sexes.
func (c *Client) LocationPopulation(ctx context.Context, id int, p period.Period) ([]sources.PopulationRow, error) {
	url := fmt.Sprintf("%s/data/indicators/%d/locations/%d/start/%d/end/%d",
		c.BaseURL, indicatorPopulation, id, p.Start, p.End)
	data, err := pages[datum](ctx, c, "indicator", url)
	if err != nil {
		return nil, err
	}

	var name string
	totals := make(map[int]float64)
	for _, d := range data {
		if d.Sex != BothSexes || d.AgeStart < c.AgeMin || d.AgeStart > c.AgeMax {
			continue
		}
		year, err := strconv.Atoi(d.TimeLabel)
		if err != nil || !p.Contains(year) {
			continue
		}
		if name == "" {
			name = d.Location
		}
		totals[year] += d.Value
	}

	out := make([]sources.PopulationRow, 0, len(totals))
	for year, v := range totals {
		out = append(out, sources.PopulationRow{Location: name, Year: year, Population: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// Fetch returns the population of every location for each year of p, in
// location order. Locations whose data cannot be fetched are skipped.
func (c *Client) Fetch(ctx context.Context, p period.Period) ([]sources.PopulationRow, error) {
	logger := logging.OrDefault(c.Logger).With(logging.Stage("population"))
	timer := logging.StartTimer(logger, "fetching population", logging.Period(p.String()))

	locs, err := c.Locations(ctx)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("list locations: %w", err)
	}

	fetch := func(ctx context.Context, _ int, l Location) ([]sources.PopulationRow, error) {
		return c.LocationPopulation(ctx, l.ID, p)
	}
	var results [][]sources.PopulationRow
	var errs []error
	if c.Pool != nil {
		results, errs = parallel.Map(ctx, c.Pool, locs, fetch)
	} else {
		results, errs = make([][]sources.PopulationRow, len(locs)), make([]error, len(locs))
		for i, l := range locs {
			results[i], errs[i] = fetch(ctx, i, l)
		}
	}

	var out []sources.PopulationRow
	skipped := 0
	for i, rows := range results {
		if errs[i] != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				timer.EndError(ctxErr)
				return nil, ctxErr
			}
			skipped++
			logger.Warn("skipping location",
				logging.Int("location_id", locs[i].ID),
				logging.String("location", locs[i].Name),
				logging.Error(errs[i]))
			continue
		}
		out = append(out, rows...)
	}
	timer.End(logging.Count(len(out)), logging.Int("locations", len(locs)), logging.Int("skipped", skipped))
	return out, nil
}

// WriteCSV writes rows as Location,Year,Population.
func WriteCSV(w io.Writer, rows []sources.PopulationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Location", "Year", "Population"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Location, strconv.Itoa(r.Year), strconv.FormatFloat(r.Population, 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
