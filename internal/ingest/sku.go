package ingest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// skuCounter disambiguates SKUs generated within the same millisecond.
var skuCounter atomic.Uint64

// GenerateSKU derives a SKU from category and name plus a time-based
// suffix. The atomic counter keeps SKUs distinct even in a tight loop.
func GenerateSKU(category, name string) string {
	catCode := letterCode(category, "PRD")
	nameCode := letterCode(name, "XXX")
	millis := time.Now().UnixMilli() % 1_000_000
	seq := skuCounter.Add(1) % 100_000
	return fmt.Sprintf("%s-%s-%06d%05d", catCode, nameCode, millis, seq)
}

// letterCode takes the first three A-Z letters of s, uppercased, falling
// back when none remain.
func letterCode(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
