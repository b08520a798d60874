package util

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleID renders a raw JSON id as a string, whatever its JSON type. The
// backend serves numeric database ids while locally synthesized records use
// strings; storage round-trips must tolerate both.
func FlexibleID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatFloat(asNumber, 'f', -1, 64)
	}
	return s
}
