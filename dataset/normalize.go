// Package dataset turns the raw production export into engine records.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/badgerinventory/perfdash/engine"
)

// ============================================================================
// NORMALIZER — Raw export → []engine.EmployeeRecord
// ============================================================================
// The export is a JSON object whose values are arrays of raw rows. Buckets
// are flattened in document order, supervisors are resolved to names
// through the employee id of the same export, and the result is sorted by
// date (stable).
// ============================================================================

// RawRecord is one row of the production export.
type RawRecord struct {
	Employee         float64 `json:"Employee"`
	FirstName        string  `json:"FirstName"`
	LastName         string  `json:"LastName"`
	OfficeName       string  `json:"OfficeName"`
	AccountName      string  `json:"AccountName"`
	StoreName        string  `json:"StoreName"`
	DateOfInv        string  `json:"DateOfInv"`
	PiecesPerHr      float64 `json:"PiecesPerHr"`
	DollarPerHr      float64 `json:"DollarPerHr"`
	SkusPerHr        float64 `json:"SkusPerHr"`
	AvgDelta         float64 `json:"AVG_DELTA"`
	Gap5Count        float64 `json:"GAP5_COUNT"`
	Gap10Count       float64 `json:"GAP10_COUNT"`
	Gap15Count       float64 `json:"GAP15_COUNT"`
	SupervisorNumber float64 `json:"SupervisorNumber"`
}

// FullName is "First Last" with each part trimmed.
func (r RawRecord) FullName() string {
	return strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
}

// Bucket is one top-level array of the export.
type Bucket struct {
	Key  string
	Rows []RawRecord
}

// Decode parses an export payload into its buckets in document order. A
// repeated key keeps its first position and its last value.
func Decode(payload []byte) ([]Bucket, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DataFormatError{Reason: "top level is not an object"}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var buckets []Bucket
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, &DataFormatError{Bucket: key, Reason: "value is not an array"}
		}
		var rows []RawRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, &DataFormatError{Bucket: key, Reason: err.Error()}
		}

		if i, ok := index[key]; ok {
			buckets[i].Rows = rows
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, Bucket{Key: key, Rows: rows})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the top-level object")
	}
	return buckets, nil
}

// Flatten concatenates buckets in order.
func Flatten(buckets []Bucket) []RawRecord {
	total := 0
	for _, b := range buckets {
		total += len(b.Rows)
	}

	out := make([]RawRecord, 0, total)
	for _, b := range buckets {
		out = append(out, b.Rows...)
	}
	return out
}

// Normalize converts raw rows into records sorted ascending by date.
// rows is not modified.
func Normalize(rows []RawRecord) []engine.EmployeeRecord {
	names := make(map[string]string)
	for _, r := range rows {
		id := formatID(r.Employee)
		if _, seen := names[id]; !seen {
			names[id] = r.FullName()
		}
	}

	out := make([]engine.EmployeeRecord, 0, len(rows))
	for _, r := range rows {
		supervisor := formatID(r.SupervisorNumber)
		if name, ok := names[supervisor]; ok {
			supervisor = name
		}

		out = append(out, engine.EmployeeRecord{
			Employee:   r.FullName(),
			Office:     r.OfficeName,
			Account:    r.AccountName,
			Store:      r.StoreName,
			Supervisor: supervisor,
			Date:       datePart(r.DateOfInv),
			Pieces:     r.PiecesPerHr,
			Dollars:    r.DollarPerHr,
			Skus:       r.SkusPerHr,
			AvgDelta:   r.AvgDelta,
			Gap5Count:  r.Gap5Count,
			Gap10Count: r.Gap10Count,
			Gap15Count: r.Gap15Count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Parse decodes, flattens and normalizes an export payload.
func Parse(payload []byte) ([]engine.EmployeeRecord, error) {
	buckets, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return Normalize(Flatten(buckets)), nil
}

// formatID renders a numeric id the way it prints in the export (42, not 42.0).
func formatID(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}

// datePart keeps everything before the first space ("2024-03-15 00:00:00").
func datePart(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
