package schedule_test

import (
	"math"

	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpApprox = cmpopts.EquateApprox(0, 1e-9) //nolint:gochecknoglobals // shared comparer.

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}
