package report

import (
	"fmt"
	"strings"

	"github.com/terraplan/blendopt/internal/domain/models"
)

// Comparison pairs two independently solved scenarios for side-by-side
// reading. The scenarios themselves never shared state; only their results
// meet here.
type Comparison struct {
	A models.ScenarioResult
	B models.ScenarioResult
}

// DiffCLP is the cost difference B minus A. Positive means B is more
// expensive.
func (c Comparison) DiffCLP() int64 {
	return c.B.TotalCostCLP - c.A.TotalCostCLP
}

// Text renders the comparison as the plain-text block printed after a
// compare run.
func (c Comparison) Text() string {
	diff := c.DiffCLP()

	verdict := "B costs the same as A."
	switch {
	case diff > 0:
		verdict = "B is more expensive than A."
	case diff < 0:
		verdict = "B is cheaper than A."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cost %s: %s\n", c.A.Tag, FormatCLP(c.A.TotalCostCLP))
	fmt.Fprintf(&b, "Cost %s: %s\n", c.B.Tag, FormatCLP(c.B.TotalCostCLP))
	fmt.Fprintf(&b, "Difference (%s - %s): %s\n", c.B.Tag, c.A.Tag, FormatCLP(diff))
	b.WriteString(verdict)
	return b.String()
}
