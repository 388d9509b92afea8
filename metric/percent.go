// Copyright (c) 2014 Square, Inc

package metric

import (
	"fmt"

	"github.com/square/spv/core/errs"
)

// Percent is a metric bounded to [0, 100], used by the CPU-usage probe.
type Percent struct {
	value float64
}

// NewPercent returns a Percent metric. It rejects values outside [0, 100].
func NewPercent(value float64) (Percent, error) {
	if value < 0 || value > 100 {
		return Percent{}, fmt.Errorf("%w: percent value %v out of range", errs.ErrProbing, value)
	}
	return Percent{value: value}, nil
}

// DefaultPercent is the zero value used for Pids with no sample yet.
func DefaultPercent() Percent { return Percent{} }

func (p Percent) Cardinality() int { return 1 }

func (p Percent) Component(i int) float64 { return p.value }

func (p Percent) MaxComponent(i int) float64 { return 100 }

func (p Percent) Unit() string { return "%" }

func (p Percent) ConciseRepr() string { return fmt.Sprintf("%.1f%%", p.value) }

func (p Percent) ExplicitRepr(i int) string { return fmt.Sprintf("%.1f %%", p.value) }

func (p Percent) String() string { return fmt.Sprintf("%.1f", p.value) }
