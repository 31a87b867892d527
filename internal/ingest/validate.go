package ingest

import "strings"

// Validate checks a candidate record and returns every violation, not
// just the first.
func Validate(c *Candidate) []string {
	var errs []string

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "Product name is required")
	}
	if strings.TrimSpace(c.Category) == "" {
		errs = append(errs, "Category is required")
	}
	if c.Price <= 0 {
		errs = append(errs, "Valid price is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "Description is required")
	}
	if strings.TrimSpace(c.ImagePath) == "" {
		errs = append(errs, "Image path is required")
	}
	if c.Rating < 0 || c.Rating > 5 {
		errs = append(errs, "Rating must be between 0 and 5")
	}

	return errs
}
