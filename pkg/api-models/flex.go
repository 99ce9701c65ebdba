package apimodels

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// ParseTime accepts the layouts used by the listing service and by query strings, plus unix seconds.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range timeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", value)
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// FlexString accepts a JSON string or number.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

// FlexFloat accepts a JSON number or a numeric string. Null and "" decode as unset.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	if isNull(data) {
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat{Value: num, Valid: true}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("expected number or numeric string, got %s", data)
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}
	num, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric string %q: %w", str, err)
	}
	*f = FlexFloat{Value: num, Valid: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexInt accepts an integral JSON number or a numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*i = FlexInt(int(f.Value))
	return nil
}

// FlexBool accepts true/false, "yes"/"no", "true"/"false", "1"/"0" and 1/0.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*b = num != 0
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("expected bool-like value, got %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "yes", "y", "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// FlexStrings accepts a list of strings or numbers, or a single one. Null decodes as empty.
type FlexStrings []string

func (s *FlexStrings) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = FlexStrings{}
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '[' {
		var single FlexString
		if err := single.UnmarshalJSON(trimmed); err != nil {
			return err
		}
		if single == "" {
			*s = FlexStrings{}
			return nil
		}
		*s = FlexStrings{string(single)}
		return nil
	}

	var items []FlexString
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return fmt.Errorf("expected list of ids: %w", err)
	}
	out := make(FlexStrings, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, string(item))
		}
	}
	*s = out
	return nil
}

// StringSet is an amenity-style list. Null decodes as empty; any other non-array value is rejected.
type StringSet []string

func (s *StringSet) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = StringSet{}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected array of strings: %w", err)
	}
	out := make(StringSet, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*s = out
	return nil
}

// FlexTime accepts any layout understood by ParseTime. Null and "" decode as the zero time.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(data []byte) error {
	*t = FlexTime{}
	if isNull(data) {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var unix int64
		if err := json.Unmarshal(data, &unix); err != nil {
			return fmt.Errorf("expected time, got %s", data)
		}
		t.Time = time.Unix(unix, 0).UTC()
		return nil
	}
	if strings.TrimSpace(str) == "" {
		return nil
	}
	parsed, err := ParseTime(str)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}
