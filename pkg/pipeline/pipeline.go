package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dd0wney/drugnet/pkg/assemble"
	"github.com/dd0wney/drugnet/pkg/drugs"
	"github.com/dd0wney/drugnet/pkg/estimate"
	"github.com/dd0wney/drugnet/pkg/features"
	"github.com/dd0wney/drugnet/pkg/geo"
	"github.com/dd0wney/drugnet/pkg/logging"
	"github.com/dd0wney/drugnet/pkg/network"
	"github.com/dd0wney/drugnet/pkg/seizures"
	"github.com/dd0wney/drugnet/pkg/sources"
)

// New prepares a pipeline over b.
func New(b *sources.Bundle, opts Options) (*Pipeline, error) {
	if b == nil {
		return nil, NewError(StageLocations).Cause(fmt.Errorf("no source bundle")).Err()
	}
	if err := opts.Period.Validate(); err != nil {
		return nil, NewError(StageLocations).Cause(err).Err()
	}
	if len(opts.Drugs) == 0 {
		opts.Drugs = drugs.All
	}
	p := &Pipeline{
		bundle: b,
		opts:   opts,
		logger: logging.OrDefault(opts.Logger).With(logging.Component("pipeline")),
	}
	p.logger.Info("pipeline ready",
		logging.Period(opts.Period.String()),
		logging.Int("drugs", len(opts.Drugs)))
	return p, nil
}

// Locations derives the hierarchy and estimation targets of drug from its
// own seizures only.
func (p *Pipeline) Locations(drug drugs.Category) (*geo.Hierarchy, []estimate.Target) {
	h := seizures.Locations(p.bundle.Seizures, []drugs.Category{drug}, p.opts.Period)
	targets := make([]estimate.Target, 0, h.Len())
	for _, c := range h.Countries() {
		loc := h.Get(c)
		targets = append(targets, estimate.Target{Country: c, SubRegion: loc.SubRegion, Region: loc.Region})
	}
	return h, targets
}

// Run builds every configured drug in order.
func (p *Pipeline) Run(ctx context.Context) ([]*Result, error) {
	out := make([]*Result, 0, len(p.opts.Drugs))
	for _, d := range p.opts.Drugs {
		r, err := p.RunDrug(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// stage times fn and wraps its error with the stage and drug.
func (p *Pipeline) stage(ctx context.Context, name string, drug drugs.Category, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return NewError(name).Drug(string(drug)).Cause(err).Err()
	}
	timer := logging.StartTimer(p.logger, "stage", logging.Stage(name), logging.Drug(string(drug)))
	err := fn()
	var d time.Duration
	if err != nil {
		d = timer.EndError(err)
	} else {
		d = timer.End()
	}
	if p.opts.Metrics != nil {
		p.opts.Metrics.RecordStage(name, string(drug), d, err)
	}
	var pe *PipelineError
	if err != nil && !errors.As(err, &pe) {
		return NewError(name).Drug(string(drug)).Cause(err).Err()
	}
	return err
}

func (p *Pipeline) onResolve(quantity string) func(string, int, estimate.Estimate) {
	return func(country string, year int, e estimate.Estimate) {
		if p.opts.Metrics != nil {
			p.opts.Metrics.RecordEstimate(quantity, e.Tier.String())
		}
		if e.Tier != estimate.National {
			p.logger.Debug("imputed value",
				logging.String("quantity", quantity),
				logging.Country(country),
				logging.Year(year),
				logging.Tier(e.Tier.String()))
		}
	}
}

// RunDrug builds the statistics, networks and feature tables of drug and
// exports them.
func (p *Pipeline) RunDrug(ctx context.Context, drug drugs.Category) (*Result, error) {
	res := &Result{Drug: drug}
	b, per := p.bundle, p.opts.Period

	var targets []estimate.Target
	if err := p.stage(ctx, StageLocations, drug, func() error {
		res.Locations, targets = p.Locations(drug)
		if res.Locations.Len() == 0 {
			p.logger.Warn("no seizure locations", logging.Drug(string(drug)))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StagePurity, drug, func() (err error) {
		res.Purity, err = estimate.New(b.Purity, purityOf(drug), per).
			Table(targets, estimate.Options{OnResolve: p.onResolve(StagePurity)})
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StagePrevalence, drug, func() (err error) {
		res.Prevalence, err = estimate.New(b.Prevalence, prevalenceOf(drug), per).
			Table(targets, estimate.Options{
				Mode:       estimate.Interpolate,
				Composites: geo.Composites,
				OnResolve:  p.onResolve(StagePrevalence),
			})
		return err
	}); err != nil {
		return nil, err
	}

	// prices are optional: without any record the column stays null
	if err := p.stage(ctx, StagePrice, drug, func() (err error) {
		est := estimate.New(b.Prices, priceOf(drug), per)
		res.Price, err = est.Table(targets, estimate.Options{OnResolve: p.onResolve(StagePrice)})
		if errors.Is(err, estimate.ErrNoData) {
			p.logger.Warn("no price data", logging.Drug(string(drug)))
			res.Price, err = nil, nil
		}
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StageSeizures, drug, func() (err error) {
		res.Seizures, err = seizures.Aggregate(b.Seizures, res.Locations,
			map[drugs.Category]seizures.Purity{drug: res.Purity},
			[]drugs.Category{drug}, per,
			seizures.Options{Logger: p.opts.Logger, Metrics: p.opts.Metrics})
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StageMarkets, drug, func() (err error) {
		res.Markets, err = features.ComputeMarkets(features.MarketInputs{
			Drug:       drug,
			Period:     per,
			Countries:  res.Locations.Countries(),
			Seizures:   res.Seizures,
			Prevalence: res.Prevalence,
			Population: b.Population,
			Production: b.Production,
			Logger:     p.opts.Logger,
			Metrics:    p.opts.Metrics,
		})
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StageNetwork, drug, func() (err error) {
		res.Graphs, err = network.BuildAll(b.Seizures, drug, per, res.Purity, network.Options{
			Markets: res.Markets,
			Logger:  p.opts.Logger,
			Metrics: p.opts.Metrics,
		})
		if err != nil {
			return err
		}
		res.Summary = network.Summary(res.Graphs)
		if p.opts.Aggregate {
			res.Union = network.Union(drug, network.AggregateLabel, res.Graphs)
			if p.opts.Metrics != nil {
				p.opts.Metrics.SetGraphSize(string(drug), per.String(), res.Union.NodeCount(), res.Union.EdgeCount())
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StageFeatures, drug, func() (err error) {
		in := features.Inputs{
			Drug:        drug,
			Period:      per,
			Hierarchy:   res.Locations,
			Markets:     res.Markets,
			GDP:         b.GDP,
			Governance:  b.Governance,
			Coordinates: b.Coordinates,
		}
		if res.Price != nil {
			in.Price = res.Price
		}
		res.Features, err = features.Build(in)
		return err
	}); err != nil {
		return nil, err
	}

	if err := p.stage(ctx, StageAssemble, drug, func() error {
		for _, y := range per.Years() {
			g, err := assemble.Assemble(res.Graphs[y], res.Features.Years[y], per)
			if err != nil {
				return NewError(StageAssemble).Drug(string(drug)).Year(y).Cause(err).Err()
			}
			res.Assembled = append(res.Assembled, g)
		}
		if res.Union != nil {
			g, err := assemble.Assemble(res.Union, res.Features.Total, per)
			if err != nil {
				return err
			}
			res.Assembled = append(res.Assembled, g)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if p.opts.Sink != nil && len(p.opts.Formats) > 0 {
		if err := p.stage(ctx, StageExport, drug, func() error {
			return p.export(ctx, res)
		}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (p *Pipeline) export(ctx context.Context, res *Result) error {
	for _, g := range res.Assembled {
		t, ok := res.Features.Table(g.Label)
		if !ok {
			return fmt.Errorf("no feature table for %s", g.Label)
		}
		for _, f := range p.opts.Formats {
			artifacts, err := assemble.Encode(f, g, t)
			if err != nil {
				return err
			}
			for _, a := range artifacts {
				if err := p.opts.Sink.Put(ctx, a.Name, a.Data); err != nil {
					return err
				}
				res.Artifacts = append(res.Artifacts, a.Name)
			}
		}
	}

	name, data, err := summaryCSV(res.Drug, res.Summary)
	if err != nil {
		return err
	}
	if err := p.opts.Sink.Put(ctx, name, data); err != nil {
		return err
	}
	res.Artifacts = append(res.Artifacts, name)
	p.logger.Info("exported artifacts", logging.Drug(string(res.Drug)), logging.Count(len(res.Artifacts)))
	return nil
}

// summaryCSV renders the per-year network sizes as "<Drug>_summary.csv".
func summaryCSV(drug drugs.Category, rows []network.SummaryRow) (string, []byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Year", "Countries", "Connections"})
	for _, r := range rows {
		w.Write([]string{r.Label, strconv.Itoa(r.Countries), strconv.Itoa(r.Connections)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, err
	}
	return string(drug) + "_summary.csv", buf.Bytes(), nil
}
