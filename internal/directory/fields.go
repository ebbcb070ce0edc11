package directory

// Field accessors coerce values out of a record's loosely typed field bag.
// The service returns JSON, so numbers arrive as float64 and multi-selects
// as []any.

func (record Record) FieldString(key string) string {
	value, ok := record.Fields[key].(string)
	if !ok {
		return ""
	}
	return value
}

func (record Record) FieldFloat(key string) float64 {
	switch value := record.Fields[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return 0
	}
}

func (record Record) FieldStrings(key string) []string {
	raw, ok := record.Fields[key].([]any)
	if !ok {
		if direct, ok := record.Fields[key].([]string); ok {
			result := make([]string, len(direct))
			copy(result, direct)
			return result
		}
		return nil
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if text, ok := item.(string); ok {
			result = append(result, text)
		}
	}
	return result
}
