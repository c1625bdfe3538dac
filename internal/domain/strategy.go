package domain

import (
	"fmt"
	"strings"
)

// Strategy selects how the sequencer seeds its greedy loop.
type Strategy string

const (
	StrategyNearest  Strategy = "nearest"
	StrategyFurthest Strategy = "furthest"
)

// ParseStrategy accepts the wire spelling of a strategy; empty selects nearest.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyNearest:
		return StrategyNearest, nil
	case StrategyFurthest:
		return StrategyFurthest, nil
	default:
		return "", fmt.Errorf("parse strategy: unknown strategy %q", s)
	}
}
