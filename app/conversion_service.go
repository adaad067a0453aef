package app

import (
	"context"

	"github.com/montanaflynn/stats"

	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/internal/assembly"
	"tcdump/internal/datatypes"
	"tcdump/internal/interactions"
	"tcdump/internal/markup"
	"tcdump/internal/synthesis"
	"tcdump/ports"
)

// Summary describes a finished conversion run
type Summary struct {
	Rows            int            `json:"rows"`
	Calls           int            `json:"calls"`
	Descriptions    int            `json:"descriptions"`
	Interactions    int            `json:"interactions"`
	Datatypes       int            `json:"datatypes"`
	Representatives int            `json:"representatives"`
	MeanArity       float64        `json:"mean_arity"`
	MaxArity        float64        `json:"max_arity"`
	MeanCalls       float64        `json:"mean_calls_per_interaction"`
	MaxCalls        float64        `json:"max_calls_per_interaction"`
	Bindings        assembly.Stats `json:"bindings"`
}

// Result is the output of one conversion run
type Result struct {
	Graph        *testmodel.Graph
	TestCase     *testmodel.TestCase
	Inventory    *markup.Inventory
	Datatypes    []*testmodel.Datatype
	Interactions []*testmodel.Interaction
	Rows         []testmodel.RowRecord
	Summary      Summary
}

// ConversionService turns spreadsheet rows into the element graph and test case
type ConversionService struct {
	ids    ports.IDGenerator
	logger *internal.Logger
	runner *StageRunner
}

// NewConversionService creates a conversion service drawing every identifier from ids
func NewConversionService(ids ports.IDGenerator, logger *internal.Logger) *ConversionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConversionService{
		ids:    ids,
		logger: logger,
		runner: NewStageRunner(logger),
	}
}

// Convert runs the four batch passes over rows. Each call owns its own
// registry and aggregator; nothing is shared between runs.
func (s *ConversionService) Convert(ctx context.Context, rows []ports.Row) (*Result, error) {
	var (
		parser       = markup.NewParser(s.logger)
		inventory    = markup.NewInventory()
		aggregator   = interactions.NewAggregator(s.logger)
		registry     = datatypes.NewRegistry(s.ids, s.logger)
		result       = &Result{Inventory: inventory}
		descriptions []string
		bindings     assembly.Stats
	)

	err := s.runner.Run(ctx,
		// 1. Scan every row for calls and categorized values
		Stage{Name: "scan", Run: func() error {
			for idx, row := range rows {
				record := scanRow(parser, inventory, idx, row)
				for _, section := range testmodel.Sections {
					cell, ok := record.Sections[section]
					if !ok {
						continue
					}
					descriptions = append(descriptions, cell.Descriptions...)
					for _, call := range cell.Calls {
						aggregator.Observe(call.Operation, section, call.Values, idx)
					}
				}
				result.Rows = append(result.Rows, record)
			}
			s.logger.Info("scanned %d rows: %d call sites, %d distinct values",
				len(rows), len(aggregator.CallSites()), inventory.Len())
			return nil
		}},
		// 2. Fix per-position datatypes from the global tally
		Stage{Name: "resolve", Run: func() error {
			registry.RegisterInventory(inventory)
			resolved, err := aggregator.Resolve(registry, s.ids)
			if err != nil {
				return err
			}
			result.Interactions = resolved
			result.Datatypes = registry.Datatypes()
			return nil
		}},
		// 3. Emit the structural element graph
		Stage{Name: "synthesize", Run: func() error {
			graph, err := synthesis.NewSynthesizer(s.ids, s.logger).Synthesize(registry, result.Interactions)
			if err != nil {
				return err
			}
			result.Graph = graph
			return nil
		}},
		// 4. Assemble the ordered call sequence
		Stage{Name: "assemble", Run: func() error {
			tc, st, err := assembly.NewAssembler(s.ids, s.logger).
				Assemble(aggregator.CallSites(), aggregator, registry, descriptions)
			if err != nil {
				return err
			}
			result.TestCase = tc
			bindings = st
			return nil
		}},
	)
	if err != nil {
		return nil, err
	}

	result.Summary = s.summarize(result, aggregator, registry, len(descriptions), bindings)
	return result, nil
}

func scanRow(parser *markup.Parser, inventory *markup.Inventory, idx int, row ports.Row) testmodel.RowRecord {
	record := testmodel.RowRecord{Index: idx, Sections: make(map[testmodel.Section]testmodel.CellMarkup)}
	for _, section := range testmodel.Sections {
		text, ok := row.Cell(section.Column())
		if !ok {
			continue
		}
		cell := parser.ParseCell(markup.Location{Row: idx, Column: section.Column()}, text, inventory)
		record.Sections[section] = cell
		record.Calls = append(record.Calls, cell.Calls...)
	}
	return record
}

func (s *ConversionService) summarize(result *Result, aggregator *interactions.Aggregator, registry *datatypes.Registry, descriptions int, bindings assembly.Stats) Summary {
	summary := Summary{
		Rows:            len(result.Rows),
		Calls:           len(aggregator.CallSites()),
		Descriptions:    descriptions,
		Interactions:    len(result.Interactions),
		Datatypes:       len(result.Datatypes),
		Representatives: registry.Representatives(),
		Bindings:        bindings,
	}
	if len(result.Interactions) == 0 {
		return summary
	}

	arities := make([]float64, 0, len(result.Interactions))
	calls := make([]float64, 0, len(result.Interactions))
	for _, ia := range result.Interactions {
		arities = append(arities, float64(ia.Arity()))
		calls = append(calls, float64(aggregator.CallCount(ia.Name)))
	}

	// Errors only occur on empty input, ruled out above
	summary.MeanArity, _ = stats.Mean(arities)
	summary.MaxArity, _ = stats.Max(arities)
	summary.MeanCalls, _ = stats.Mean(calls)
	summary.MaxCalls, _ = stats.Max(calls)
	return summary
}
