package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// parsedRow is one data row of a batch: either a candidate or a
// row-level parse error, never both.
type parsedRow struct {
	index     int
	candidate *Candidate
	parseErr  string
}

// ParseCSV reads header-mapped CSV into batch rows. Column names map
// case-insensitively to product fields; unrecognised columns are
// ignored. A malformed row (unparsable numeric field, mismatched column
// count) becomes a row-level error and is skipped.
func ParseCSV(r io.Reader) ([]parsedRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []parsedRow
	index := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		index++
		if err != nil {
			rows = append(rows, parsedRow{index: index, parseErr: fmt.Sprintf("malformed CSV row: %v", err)})
			continue
		}

		candidate, parseErrs := candidateFromRecord(columns, record)
		if len(parseErrs) > 0 {
			rows = append(rows, parsedRow{
				index:     index,
				parseErr:  strings.Join(parseErrs, ", "),
				candidate: candidate,
			})
			continue
		}

		rows = append(rows, parsedRow{index: index, candidate: candidate})
	}

	return rows, nil
}

// ParseJSON decodes a JSON array of product candidates into batch rows.
func ParseJSON(data []byte) ([]parsedRow, error) {
	var candidates []Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode JSON product array: %w", err)
	}

	rows := make([]parsedRow, len(candidates))
	for i := range candidates {
		rows[i] = parsedRow{index: i + 1, candidate: &candidates[i]}
	}
	return rows, nil
}

func candidateFromRecord(columns, record []string) (*Candidate, []string) {
	candidate := &Candidate{}
	var errs []string

	for i, column := range columns {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}

		switch column {
		case "name":
			candidate.Name = value
		case "category":
			candidate.Category = value
		case "price":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid price %q", value))
				continue
			}
			candidate.Price = v
		case "currency":
			candidate.Currency = value
		case "rating":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid rating %q", value))
				continue
			}
			candidate.Rating = v
		case "description":
			candidate.Description = value
		case "imagepath", "image_path":
			candidate.ImagePath = value
		case "amazonlink", "amazon_link":
			candidate.AmazonLink = value
		case "discount":
			v, err := strconv.Atoi(value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid discount %q", value))
				continue
			}
			candidate.Discount = v
		case "benefits":
			candidate.Benefits = splitList(value)
		case "stock":
			v, err := strconv.Atoi(value)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid stock %q", value))
				continue
			}
			candidate.Stock = v
		case "weight":
			candidate.Weight = value
		case "tags":
			candidate.Tags = splitList(value)
		}
		// Unrecognised columns are ignored.
	}

	return candidate, errs
}

// splitList parses a pipe-separated list field.
func splitList(value string) []string {
	parts := strings.Split(value, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
