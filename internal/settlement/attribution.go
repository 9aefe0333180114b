package settlement

import (
	"fmt"
	"strings"
)

// AttributionPolicy decides which fill of a multi-fill order supplies the
// order's price, symbol, exchange, trade time and product type.
type AttributionPolicy int

const (
	// LastFill takes every attribution field from the last fill in input order.
	LastFill AttributionPolicy = iota
	// FirstFill takes every attribution field from the first fill.
	FirstFill
	// WeightedAverage prices the order at Σ(price×shares)/Σshares and takes the
	// remaining fields from the last fill.
	WeightedAverage
)

func (p AttributionPolicy) String() string {
	switch p {
	case LastFill:
		return "last_fill"
	case FirstFill:
		return "first_fill"
	case WeightedAverage:
		return "weighted_average"
	default:
		return fmt.Sprintf("AttributionPolicy(%d)", int(p))
	}
}

// ParseAttributionPolicy maps a config value to a policy. Empty means LastFill.
func ParseAttributionPolicy(s string) (AttributionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last", "last_fill":
		return LastFill, nil
	case "first", "first_fill":
		return FirstFill, nil
	case "weighted", "weighted_average", "vwap":
		return WeightedAverage, nil
	default:
		return LastFill, fmt.Errorf("unknown attribution policy %q", s)
	}
}
