package utils

import (
	"encoding/json"
)

// Remarshal converts input into a T through its JSON form, eg: a struct into
// a generic document that can be matched against a filter.
func Remarshal[T any](input interface{}) (output T, err error) {
	b, err := json.Marshal(input)
	if nil != err {
		return
	}
	err = json.Unmarshal(b, &output)
	return
}
