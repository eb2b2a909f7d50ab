package analysis

// Parameter names shared across analyzers. Bounds come from the config's
// reference_values table, tuning values from its settings table.
const (
	paramMinimum   = "minimum"
	paramMaximum   = "maximum"
	paramEquals    = "equals"
	paramThreshold = "threshold"
)

// Params carries the merged, registry-filtered parameters for one analyzer
// invocation. Values originate from TOML, so numbers arrive as int64 or
// float64 and lists as []any.
type Params map[string]any

// Float returns the named parameter coerced to float64.
func (p Params) Float(name string) (float64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	return f, ok
}

// FloatOr returns the named parameter or a default when absent.
func (p Params) FloatOr(name string, def float64) float64 {
	if f, ok := p.Float(name); ok {
		return f
	}
	return def
}

// EqualsList returns the equals parameter normalized to a list. A scalar
// reference becomes a single-element list.
func (p Params) EqualsList() ([]any, bool) {
	v, ok := p[paramEquals]
	if !ok {
		return nil, false
	}
	if list, isList := v.([]any); isList {
		return list, true
	}
	return []any{v}, true
}

// toFloat coerces the numeric types TOML decoding can produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// evalBounds checks a numeric value against optional minimum/maximum bounds.
// With both bounds the value must fall inside the closed interval; with one
// bound only that side is checked; with neither the pass is unknown.
func evalBounds(value float64, p Params) *bool {
	minimum, hasMin := p.Float(paramMinimum)
	maximum, hasMax := p.Float(paramMaximum)

	switch {
	case hasMin && hasMax:
		return passOf(value >= minimum && value <= maximum)
	case hasMin:
		return passOf(value >= minimum)
	case hasMax:
		return passOf(value <= maximum)
	}
	return nil
}

// evalEquals checks membership of value in the equals reference (scalar or
// list). Numeric members compare by value regardless of TOML integer/float
// representation; everything else compares as strings.
func evalEquals(value any, p Params) *bool {
	list, ok := p.EqualsList()
	if !ok {
		return nil
	}

	for _, member := range list {
		if equalValues(value, member) {
			return passOf(true)
		}
	}
	return passOf(false)
}

func equalValues(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}

	sa, aStr := asString(a)
	sb, bStr := asString(b)
	return aStr && bStr && sa == sb
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case interface{ String() string }:
		return s.String(), true
	}
	return "", false
}
