package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a process variable that should be numeric but may arrive as a
// string from form fields. Numbers and numeric strings ("60000", "60,000")
// decode to their value; anything else ("", "abc", true, objects) decodes to
// 0 instead of failing the job.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		*n = Number(v)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*n = Number(f)
		}
	}
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

func NumberPtr(f float64) *Number {
	n := Number(f)
	return &n
}
