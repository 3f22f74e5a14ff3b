package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FormatCLP renders an amount with the Chilean thousand separator, e.g.
// 2409642 -> "$2.409.642".
func FormatCLP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + "$" + strings.Join(groups, ".")
}

// ReadTotalCost extracts the integer CLP amount from a summary file by
// scanning for digits, the same way the dashboard consumes the file.
func ReadTotalCost(path string) (int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read summary %s: %w", path, err)
	}

	var b strings.Builder
	for _, r := range string(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("summary %s contains no cost figure", path)
	}

	amount, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("summary %s cost figure: %w", path, err)
	}
	return amount, nil
}
