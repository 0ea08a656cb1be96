package engine

// Value is a stored value or the absent marker. The zero Value is absent.
type Value struct {
	Data  string
	Valid bool
}

// Absent represents "this key has no value".
var Absent = Value{}

func Some(data string) Value {
	return Value{Data: data, Valid: true}
}

func (v Value) String() string {
	if !v.Valid {
		return "NULL"
	}
	return v.Data
}
