package nullable

import "encoding/json/v2"

// Any in `nullable` package holds a scalar that may be absent entirely,
// e.g. a first-column value when the query returned zero rows. Absence
// (Valid == false) is distinct from a present SQL NULL (Valid == true,
// Value == nil).
// implements: json.Marshaler and json.Unmarshaler
type Any struct {
	Value any
	Valid bool
}

func (n Any) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Value)
	}
	return []byte("null"), nil
}

func (n *Any) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Valid = false
		n.Value = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = v
	n.Valid = true
	return nil
}

func (n Any) ForceValue() any {
	if !n.Valid {
		return nil
	}
	return n.Value
}

func (n Any) IsNil() bool {
	return !n.Valid || n.Value == nil
}
