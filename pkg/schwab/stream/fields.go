package stream

import (
	"encoding/json"
	"time"

	"schwabstream/pkg/schwab"
)

// Setters assign only when the value decodes, so a bad field never clobbers the last good one.

func setFloat(dst *float64, raw json.RawMessage) error {
	v, err := schwab.DecodeFloat(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt(dst *int64, raw json.RawMessage) error {
	v, err := schwab.DecodeInt(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setString(dst *string, raw json.RawMessage) error {
	v, err := schwab.DecodeString(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setBool(dst *bool, raw json.RawMessage) error {
	v, err := schwab.DecodeBool(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setTime(dst *time.Time, raw json.RawMessage) error {
	v, err := schwab.DecodeTime(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// Envelope holds the non-numeric metadata that level-one records carry.
type Envelope struct {
	Key           string `json:"key"`
	Delayed       bool   `json:"delayed"`
	AssetMainType string `json:"assetMainType,omitempty"`
	AssetSubType  string `json:"assetSubType,omitempty"`
	Cusip         string `json:"cusip,omitempty"`
}

func (e *Envelope) SetKey(key string) {
	e.Key = key
}

func (e *Envelope) MergeEnvelope(rec schwab.Record) {
	if raw, ok := rec["delayed"]; ok {
		_ = setBool(&e.Delayed, raw)
	}
	if raw, ok := rec["assetMainType"]; ok {
		_ = setString(&e.AssetMainType, raw)
	}
	if raw, ok := rec["assetSubType"]; ok {
		_ = setString(&e.AssetSubType, raw)
	}
	if raw, ok := rec["cusip"]; ok {
		_ = setString(&e.Cusip, raw)
	}
}
