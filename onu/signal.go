package onu

import (
	"context"
	"sort"
)

// Tier is the discrete quality bucket for a receive-power reading.
type Tier int

const (
	TierIndeterminate Tier = iota
	TierExcellent
	TierGood
	TierFair
	TierPoor
	TierBad
	TierVeryBad
)

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierGood:
		return "good"
	case TierFair:
		return "fair"
	case TierPoor:
		return "poor"
	case TierBad:
		return "bad"
	case TierVeryBad:
		return "very bad"
	}
	return "indeterminate"
}

// Classify maps a receive-power reading in dBm to a quality tier. Thresholds
// are inclusive at the lower bound, evaluated top-down.
func Classify(rx *float64) Tier {
	if rx == nil {
		return TierIndeterminate
	}
	switch p := *rx; {
	case p >= -10:
		return TierExcellent
	case p >= -17:
		return TierGood
	case p >= -20:
		return TierFair
	case p >= -24:
		return TierPoor
	case p >= -27:
		return TierBad
	default:
		return TierVeryBad
	}
}

// ScanThreshold is the receive-power cutoff for the bulk bad-signal sweep.
// The sweep uses its own table, not the Classify tiers.
const ScanThreshold = -25.0

// BadSignal is one sweep hit.
type BadSignal struct {
	Identifier string
	Name       string
	Power      float64
}

// BadSignals sweeps the primary table for devices reading below
// ScanThreshold, worst first.
func (s *Service) BadSignals(ctx context.Context) ([]BadSignal, error) {
	rows, err := s.fetchRows(ctx, s.adapter.TablePath())
	if err != nil {
		return nil, err
	}

	var bad []BadSignal
	for _, row := range rows {
		rec := s.adapter.ParseRow(row)
		if rec.RxPower == nil || *rec.RxPower >= ScanThreshold {
			continue
		}
		name := rec.Name
		if name == "" {
			name = "No-Name"
		}
		bad = append(bad, BadSignal{
			Identifier: rec.Identifier,
			Name:       name,
			Power:      *rec.RxPower,
		})
	}

	sort.Slice(bad, func(i, j int) bool { return bad[i].Power < bad[j].Power })
	return bad, nil
}
