// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tastelab/recipe-ingress/pkg/config"
	"github.com/tastelab/recipe-ingress/pkg/keygen"
	"github.com/tastelab/recipe-ingress/pkg/model"
	"github.com/tastelab/recipe-ingress/pkg/normalizer"
	"github.com/tastelab/recipe-ingress/pkg/source"
	"github.com/tastelab/recipe-ingress/pkg/tabular"
	"github.com/tastelab/recipe-ingress/pkg/validator"
)

// Pipeline runs one batch pass: fetch the three collections, normalize,
// export the tables and write the quality report. Each stage fully
// materializes its output before the next starts; all run state lives on
// this object, so independent runs never share anything mutable.
type Pipeline struct {
	src       source.DocumentSource
	norm      *normalizer.Normalizer
	validator *validator.Validator
	cfg       *config.Config
	logger    *zap.Logger
}

// New wires a pipeline from its collaborators.
func New(src source.DocumentSource, cfg *config.Config) (*Pipeline, error) {
	if src == nil {
		return nil, errors.New("document source cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	keys, err := keygen.New(keygen.Strategy(cfg.KeyStrategy))
	if err != nil {
		return nil, err
	}
	norm, err := normalizer.New(keys)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		src:       src,
		norm:      norm,
		validator: validator.New(),
		cfg:       cfg,
		logger:    zap.L().Named("pipeline"),
	}, nil
}

// Run executes the full pass. Only total inability to reach the source is
// fatal; individual bad records are skipped and surface in the result.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := NewRunResult()
	result.OutputDir = p.cfg.OutputDir
	result.ReportPath = p.cfg.ReportFile

	recipes, err := p.src.FetchCollection(ctx, model.CollectionRecipes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	users, err := p.src.FetchCollection(ctx, model.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	interactions, err := p.src.FetchCollection(ctx, model.CollectionInteractions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	result.DocsFetched[model.CollectionRecipes] = len(recipes)
	result.DocsFetched[model.CollectionUsers] = len(users)
	result.DocsFetched[model.CollectionInteractions] = len(interactions)

	tables, stats := p.norm.Normalize(recipes, users, interactions)

	result.RowsNormalized["recipe"] = len(tables.Recipes)
	result.RowsNormalized["ingredients"] = len(tables.Ingredients)
	result.RowsNormalized["steps"] = len(tables.Steps)
	result.RowsNormalized["interactions"] = len(tables.Interactions)
	result.SkippedDocuments = stats.SkippedRecipes + stats.SkippedUsers + stats.SkippedInteractions
	result.MalformedTimestamps = stats.MalformedTimestamps

	if err := tabular.WriteTables(p.cfg.OutputDir, tables); err != nil {
		return nil, fmt.Errorf("failed to export tables: %w", err)
	}

	report := p.validator.Validate(tables)
	result.HardViolations = report.HardViolations()
	result.Warnings = report.Count(validator.ClassMissingQuantity)

	if err := os.WriteFile(p.cfg.ReportFile, []byte(report.Render(p.cfg.SampleLimit)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write quality report: %w", err)
	}

	result.Complete()
	p.logger.Info("Run complete",
		zap.Int("total_rows", result.TotalRows()),
		zap.Int("skipped_documents", result.SkippedDocuments),
		zap.Int("hard_violations", result.HardViolations),
		zap.Int("warnings", result.Warnings),
		zap.Duration("duration", result.Duration))

	return result, nil
}
