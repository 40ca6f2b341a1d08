package schwab

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SortFields orders a comma-separated list of field identifiers by numeric value,
// dropping empty and repeated identifiers.
// Identifiers carry no leading zeros, so a shorter string is always the smaller number.
// The server applies SUBS/VIEW fields positionally and expects ascending order.
func SortFields(csv string) string {
	if csv == "" {
		return ""
	}
	fields := make([]string, 0, strings.Count(csv, ",")+1)
	for _, f := range strings.Split(csv, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	slices.SortFunc(fields, compareFieldIDs)
	return strings.Join(slices.Compact(fields), ",")
}

func compareFieldIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// FieldRange renders "0,1,...,last".
func FieldRange(last int) string {
	var sb strings.Builder
	for i := 0; i <= last; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

// FieldID parses a record key as a data field identifier. Envelope keys such as
// "key", "delayed" or "assetMainType" are not numeric and report false.
func FieldID(name string) (int, bool) {
	if name == "" || len(name) > 3 {
		return 0, false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Field value decoders used by the per-service merge functions.

func DecodeFloat(raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode float: %w", err)
	}
	return v, nil
}

func DecodeInt(raw json.RawMessage) (int64, error) {
	var v json.Number
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode int: %w", err)
	}
	if i, err := v.Int64(); err == nil {
		return i, nil
	}
	f, err := v.Float64()
	if err != nil {
		return 0, fmt.Errorf("decode int: %w", err)
	}
	return int64(f), nil
}

func DecodeString(raw json.RawMessage) (string, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode string: %w", err)
	}
	return v, nil
}

func DecodeBool(raw json.RawMessage) (bool, error) {
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("decode bool: %w", err)
	}
	return v, nil
}

// DecodeTime converts an epoch-millisecond field into a UTC timestamp.
func DecodeTime(raw json.RawMessage) (time.Time, error) {
	ms, err := DecodeInt(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
