package viewprofit

import (
	"fmt"
	"math"
)

// Percent is a value where 1 means 1%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

// IsDefined is false for the percent of a period without capital.
func (p Percent) IsDefined() bool { return finite(float64(p)) }

// String formats the percent with 2 digits, an undefined percent is "-".
func (p Percent) String() string {
	if !p.IsDefined() {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString is String with an explicit sign, 0 and undefined are "-".
func (p Percent) SignedString() string {
	if !p.IsDefined() {
		return "-"
	}
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
