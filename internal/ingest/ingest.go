// Package ingest parses, validates and persists batches of product
// records from CSV or JSON input. Batches run to completion with
// per-row outcomes: one bad row never aborts the rest.
package ingest

import (
	"context"

	"green-kart/internal/model"
)

// Candidate is a product record as supplied by an upload, before
// validation and enrichment.
type Candidate struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Description string   `json:"description"`
	ImagePath   string   `json:"imagePath"`
	AmazonLink  string   `json:"amazonLink,omitempty"`
	Discount    int      `json:"discount,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
	Stock       int      `json:"stock,omitempty"`
	Weight      string   `json:"weight,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// RowError reports the failure of a single batch row. Row numbers are
// 1-based over the data rows of the batch, in input order.
type RowError struct {
	Row   int        `json:"row"`
	Error string     `json:"error"`
	Data  *Candidate `json:"data,omitempty"`
}

// Result is the outcome of one ingestion call. SuccessCount and
// ErrorCount always partition TotalProcessed; Success holds iff no row
// failed.
type Result struct {
	Success        bool       `json:"success"`
	TotalProcessed int        `json:"totalProcessed"`
	SuccessCount   int        `json:"successCount"`
	ErrorCount     int        `json:"errorCount"`
	Errors         []RowError `json:"errors"`
}

// Store persists validated products. Persistence failures are reported
// per row; rows already persisted are not rolled back.
type Store interface {
	CreateProduct(ctx context.Context, product *model.Product) error
}
