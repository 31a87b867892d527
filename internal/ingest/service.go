package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"green-kart/internal/model"
	"green-kart/internal/pricing"

	"github.com/rs/zerolog"
)

// defaultWorkers bounds concurrent row persistence. Validation is pure
// and persistence calls are independent per product, so rows can be
// processed in parallel; the report still follows input order.
const defaultWorkers = 4

// Service runs bulk product ingestion against a Store.
type Service struct {
	store   Store
	workers int
	logger  zerolog.Logger
}

// NewService creates a bulk ingestion service.
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		workers: defaultWorkers,
		logger:  logger.With().Str("service", "ingest").Logger(),
	}
}

// IngestCSV parses CSV input and ingests the batch.
func (s *Service) IngestCSV(ctx context.Context, r io.Reader) (*Result, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return s.ingestRows(ctx, rows), nil
}

// IngestJSON parses a JSON product array and ingests the batch.
func (s *Service) IngestJSON(ctx context.Context, data []byte) (*Result, error) {
	rows, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return s.ingestRows(ctx, rows), nil
}

// IngestCSVFrom fetches CSV content from a source (local file or object
// storage) and ingests it.
func (s *Service) IngestCSVFrom(ctx context.Context, src Source, ref string) (*Result, error) {
	body, err := src.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.IngestCSV(ctx, body)
}

// Ingest processes an already-decoded batch of candidates.
func (s *Service) Ingest(ctx context.Context, candidates []Candidate) *Result {
	rows := make([]parsedRow, len(candidates))
	for i := range candidates {
		rows[i] = parsedRow{index: i + 1, candidate: &candidates[i]}
	}
	return s.ingestRows(ctx, rows)
}

// rowOutcome is the result of processing one row, kept indexed so the
// final report preserves input order.
type rowOutcome struct {
	errMsg string
	data   *Candidate
}

func (s *Service) ingestRows(ctx context.Context, rows []parsedRow) *Result {
	outcomes := make([]rowOutcome, len(rows))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for i, row := range rows {
		if row.parseErr != "" {
			outcomes[i] = rowOutcome{errMsg: row.parseErr, data: row.candidate}
			continue
		}

		wg.Add(1)
		go func(i int, candidate *Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = s.processRow(ctx, candidate)
		}(i, row.candidate)
	}

	wg.Wait()

	result := &Result{
		TotalProcessed: len(rows),
		Errors:         []RowError{},
	}
	for i, outcome := range outcomes {
		if outcome.errMsg == "" {
			result.SuccessCount++
			continue
		}
		result.ErrorCount++
		result.Errors = append(result.Errors, RowError{
			Row:   rows[i].index,
			Error: outcome.errMsg,
			Data:  outcome.data,
		})
	}
	result.Success = result.ErrorCount == 0

	s.logger.Info().
		Int("total", result.TotalProcessed).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.ErrorCount).
		Msg("bulk ingestion completed")

	return result
}

// processRow validates one candidate and persists it. Validation
// failures and persistence failures are reported distinctly.
func (s *Service) processRow(ctx context.Context, candidate *Candidate) rowOutcome {
	if violations := Validate(candidate); len(violations) > 0 {
		return rowOutcome{errMsg: strings.Join(violations, ", "), data: candidate}
	}

	product := productFromCandidate(candidate)
	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.logger.Warn().
			Err(err).
			Str("product_name", candidate.Name).
			Msg("failed to persist product")
		return rowOutcome{errMsg: fmt.Sprintf("Failed to save product: %v", err), data: candidate}
	}

	return rowOutcome{}
}

// productFromCandidate enriches a validated candidate into a full
// product record.
func productFromCandidate(c *Candidate) *model.Product {
	sku := GenerateSKU(c.Category, c.Name)
	currency := c.Currency
	if currency == "" {
		currency = "₹"
	}
	now := time.Now()

	return &model.Product{
		ID:          sku,
		SKU:         sku,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Price:       c.Price,
		Currency:    currency,
		Rating:      c.Rating,
		ImagePath:   c.ImagePath,
		AmazonLink:  c.AmazonLink,
		Discount:    c.Discount,
		Benefits:    c.Benefits,
		Stock:       c.Stock,
		Weight:      c.Weight,
		Tags:        c.Tags,
		GSTRate:     pricing.DefaultGSTRate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
