package utils

import "encoding/json"

// ToJSONString renders v for log attributes; never fails.
func ToJSONString(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "<marshal error>"
	}
	return string(b)
}
