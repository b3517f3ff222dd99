//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// ECLevel is the QR error-correction strength. Higher strength trades
// capacity for damage resilience per FORMAT.md.
type ECLevel string

// Supported error-correction levels. Quartile (Q) is deliberately
// unsupported: it sits between M and H with no capacity ceiling of its
// own in FORMAT.md.
const (
	ECLow    ECLevel = "L"
	ECMedium ECLevel = "M"
	ECHigh   ECLevel = "H"
)

// ParseECLevel parses a user-supplied level string.
func ParseECLevel(s string) (ECLevel, error) {
	switch s {
	case "L", "l", "low":
		return ECLow, nil
	case "M", "m", "medium":
		return ECMedium, nil
	case "H", "h", "high":
		return ECHigh, nil
	default:
		return "", fmt.Errorf("invalid error-correction level: %q (must be L, M, or H)", s)
	}
}

// Valid reports whether the level is one of the supported constants.
func (l ECLevel) Valid() bool {
	switch l {
	case ECLow, ECMedium, ECHigh:
		return true
	}
	return false
}
