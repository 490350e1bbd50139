package vals

// Truthy returns the truth value of a value, as used by If, And and Or. The
// values false, 0, "" and nil are false; all other values, including every
// pair and closure, are true.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
