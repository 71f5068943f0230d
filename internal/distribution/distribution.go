// Package distribution computes how a project's price is split across
// the three revenue buckets and how one bucket is shared between its
// recipients. All functions are pure.
package distribution

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SumTolerance is how far a set of percentages may deviate from 100.
const SumTolerance = 0.01

// ErrInvalidSplit is wrapped by every percentage-sum failure.
var ErrInvalidSplit = errors.New("invalid split")

// Split holds the three bucket percentages stored on a project.
type Split struct {
	ToolsAndCharges float64 `json:"tools_and_charges"`
	TeamShare       float64 `json:"team_share"`
	RedixCaisse     float64 `json:"redix_caisse"`
}

// Amounts is the monetary result of applying a Split to a total price.
type Amounts struct {
	Tools  float64
	Team   float64
	Caisse float64
}

// Entry is one recipient's percentage of a bucket.
type Entry struct {
	Ref        uuid.UUID
	Percentage float64
}

// Share is one recipient's monetary cut of a bucket.
type Share struct {
	Ref    uuid.UUID
	Amount float64
}

// Validate checks that the three percentages sum to 100 within tolerance.
func (s Split) Validate() error {
	sum := s.ToolsAndCharges + s.TeamShare + s.RedixCaisse
	if math.Abs(sum-100) > SumTolerance {
		return fmt.Errorf("%w: bucket percentages sum to %.2f, want 100", ErrInvalidSplit, sum)
	}

	return nil
}

// ComputeSplit turns a total amount into per-bucket amounts.
// Fails before returning any amount if the percentages do not sum to 100.
func ComputeSplit(totalAmount float64, s Split) (Amounts, error) {
	if err := s.Validate(); err != nil {
		return Amounts{}, err
	}

	return Amounts{
		Tools:  totalAmount * s.ToolsAndCharges / 100,
		Team:   totalAmount * s.TeamShare / 100,
		Caisse: totalAmount * s.RedixCaisse / 100,
	}, nil
}

// ComputeShares splits one bucket amount between its recipients.
// An empty entry list is legal and yields no shares: the bucket amount
// stays unallocated to any entity.
func ComputeShares(bucketAmount float64, entries []Entry) ([]Share, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	var sum float64
	for _, e := range entries {
		sum += e.Percentage
	}

	if math.Abs(sum-100) > SumTolerance {
		return nil, fmt.Errorf("%w: share percentages sum to %.2f, want 100", ErrInvalidSplit, sum)
	}

	shares := make([]Share, len(entries))
	for i, e := range entries {
		shares[i] = Share{Ref: e.Ref, Amount: bucketAmount * e.Percentage / 100}
	}

	return shares, nil
}
