package tables

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/terraplan/blendopt/internal/config"
	"github.com/terraplan/blendopt/internal/domain/models"
)

// Repository loads the three input tables from their sources and produces
// the normalized in-memory model the pipeline consumes.
type Repository struct {
	fields       Source
	requirements Source
	products     Source
	logger       *zap.Logger
}

// NewRepository wires a repository over the three table sources.
func NewRepository(fields, requirements, products Source, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		fields:       fields,
		requirements: requirements,
		products:     products,
		logger:       logger,
	}
}

// FromConfig builds a repository from configured paths. A non-empty
// reqPathOverride swaps the requirements table (adjusted-requirement variant
// produced upstream). When a spreadsheet is configured, all three tables are
// read from it instead.
func FromConfig(ctx context.Context, cfg *config.Config, reqPathOverride string, logger *zap.Logger) (*Repository, error) {
	if cfg.Sheets.SpreadsheetID != "" && reqPathOverride == "" {
		client, err := NewSheetsClient(ctx, cfg.Sheets)
		if err != nil {
			return nil, err
		}
		return NewRepository(
			client.Source(cfg.Sheets.FieldsRange),
			client.Source(cfg.Sheets.RequirementsRange),
			client.Source(cfg.Sheets.ProductsRange),
			logger,
		), nil
	}

	reqPath := cfg.Data.RequirementsPath
	if reqPathOverride != "" {
		reqPath = reqPathOverride
	}

	return NewRepository(
		ForPath(cfg.Data.FieldsPath),
		ForPath(reqPath),
		ForPath(cfg.Data.ProductsPath),
		logger,
	), nil
}

// Load fetches, validates and normalizes all three tables. Every field's
// crop must have a requirement entry; a dangling reference is fatal.
func (r *Repository) Load(ctx context.Context) (models.Tables, error) {
	fields, err := r.loadFields(ctx)
	if err != nil {
		return models.Tables{}, err
	}

	requirements, err := r.loadRequirements(ctx)
	if err != nil {
		return models.Tables{}, err
	}

	products, err := r.loadProducts(ctx)
	if err != nil {
		return models.Tables{}, err
	}

	for _, field := range fields {
		if _, ok := requirements[field.Crop]; !ok {
			return models.Tables{}, &models.UnknownCropError{Field: field.ID, Crop: field.Crop}
		}
	}

	r.logger.Debug("tables loaded",
		zap.Int("fields", len(fields)),
		zap.Int("crops", len(requirements)),
		zap.Int("products", len(products)))

	return models.Tables{
		Fields:       fields,
		Requirements: requirements,
		Products:     products,
	}, nil
}

func (r *Repository) loadFields(ctx context.Context) ([]models.Field, error) {
	raw, err := r.fields.Rows(ctx)
	if err != nil {
		return nil, err
	}

	tab, err := newTable(TableFields, raw)
	if err != nil {
		return nil, err
	}
	if err := tab.require(colFieldID, colCrop, colArea); err != nil {
		return nil, err
	}

	fields := make([]models.Field, 0, len(tab.rows))
	for _, row := range tab.rows {
		id := tab.cell(row, colFieldID)
		if id == "" {
			continue
		}

		area := floatOr(tab.cell(row, colArea), 0)
		if area <= 0 {
			return nil, fmt.Errorf("table %s: field %q has invalid %s %q", tab.name, id, colArea, tab.cell(row, colArea))
		}

		fields = append(fields, models.Field{
			ID:     id,
			Crop:   tab.cell(row, colCrop),
			AreaHa: area,
		})
	}
	return fields, nil
}

func (r *Repository) loadRequirements(ctx context.Context) (map[string]models.CropRequirement, error) {
	raw, err := r.requirements.Rows(ctx)
	if err != nil {
		return nil, err
	}

	tab, err := newTable(TableRequirements, raw)
	if err != nil {
		return nil, err
	}
	if err := tab.require(colCrop, colNReq, colPReq, colKReq); err != nil {
		return nil, err
	}

	requirements := make(map[string]models.CropRequirement, len(tab.rows))
	for _, row := range tab.rows {
		crop := tab.cell(row, colCrop)
		if crop == "" {
			continue
		}

		requirements[crop] = models.CropRequirement{
			Crop:        crop,
			NReqKgHa:    floatOr(tab.cell(row, colNReq), 0),
			P2O5ReqKgHa: floatOr(tab.cell(row, colPReq), 0),
			K2OReqKgHa:  floatOr(tab.cell(row, colKReq), 0),
		}
	}
	return requirements, nil
}

func (r *Repository) loadProducts(ctx context.Context) ([]models.Product, error) {
	raw, err := r.products.Rows(ctx)
	if err != nil {
		return nil, err
	}

	tab, err := newTable(TableProducts, raw)
	if err != nil {
		return nil, err
	}
	if err := tab.require(colProductID, colNPct, colPPct, colKPct, colPrice, colDoseMin, colDoseMax); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(tab.rows))
	for _, row := range tab.rows {
		id := tab.cell(row, colProductID)
		if id == "" {
			continue
		}

		products = append(products, models.Product{
			ID:          id,
			NPct:        floatOr(tab.cell(row, colNPct), 0),
			P2O5Pct:     floatOr(tab.cell(row, colPPct), 0),
			K2OPct:      floatOr(tab.cell(row, colKPct), 0),
			PriceCLPTon: floatOr(tab.cell(row, colPrice), 0),
			DoseMinKgHa: floatOr(tab.cell(row, colDoseMin), 0),
			DoseMaxKgHa: floatOr(tab.cell(row, colDoseMax), models.DoseMaxSentinel),
		})
	}
	return products, nil
}
