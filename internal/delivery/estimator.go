// Package delivery estimates delivery fees and lead times from Indian
// postal codes, and validates shipping addresses.
package delivery

import "regexp"

// pincodePattern matches a 6-digit Indian pincode with a non-zero leading
// digit.
var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Estimate is the delivery projection for a pincode.
type Estimate struct {
	MinDays     int     `json:"minDays"`
	MaxDays     int     `json:"maxDays"`
	DeliveryFee float64 `json:"deliveryFee"`
	Available   bool    `json:"available"`
	Message     string  `json:"message"`
}

// Tier describes one delivery service level.
type Tier struct {
	MinDays int
	MaxDays int
	Fee     float64
	Message string
}

// Config holds the estimator's tier table. The metro prefix membership is
// a heuristic, not an official postal classification, so it stays
// configurable.
type Config struct {
	// MetroPrefixes lists the leading pincode digits served by the express
	// tier.
	MetroPrefixes []string
	Metro         Tier
	Standard      Tier
}

// DefaultConfig returns the default tier table: leading digits 1, 2, 4
// and 5 get express delivery.
func DefaultConfig() *Config {
	return &Config{
		MetroPrefixes: []string{"1", "2", "4", "5"},
		Metro: Tier{
			MinDays: 2,
			MaxDays: 4,
			Fee:     50,
			Message: "Express delivery available",
		},
		Standard: Tier{
			MinDays: 5,
			MaxDays: 8,
			Fee:     80,
			Message: "Standard delivery",
		},
	}
}

// Estimator maps pincodes to delivery estimates. It is stateless after
// construction and safe for concurrent use.
type Estimator struct {
	metroPrefixes map[string]struct{}
	metro         Tier
	standard      Tier
}

// NewEstimator creates an estimator from the given tier table. A nil
// config uses DefaultConfig.
func NewEstimator(cfg *Config) *Estimator {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	prefixes := make(map[string]struct{}, len(cfg.MetroPrefixes))
	for _, p := range cfg.MetroPrefixes {
		prefixes[p] = struct{}{}
	}

	return &Estimator{
		metroPrefixes: prefixes,
		metro:         cfg.Metro,
		standard:      cfg.Standard,
	}
}

// Estimate classifies a pincode into a delivery tier. An invalid pincode
// yields Available:false with an explanatory message rather than an error.
func (e *Estimator) Estimate(pincode string) Estimate {
	if !pincodePattern.MatchString(pincode) {
		return Estimate{
			Available: false,
			Message:   "Invalid pincode: must be 6 digits and not start with 0",
		}
	}

	tier := e.standard
	if _, ok := e.metroPrefixes[pincode[:1]]; ok {
		tier = e.metro
	}

	return Estimate{
		MinDays:     tier.MinDays,
		MaxDays:     tier.MaxDays,
		DeliveryFee: tier.Fee,
		Available:   true,
		Message:     tier.Message,
	}
}

// IsValidPincode reports whether the pincode matches the Indian 6-digit
// format.
func IsValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}
