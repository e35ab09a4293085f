package dataset

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/export.json")
	require.NoError(t, err)
	return data
}

func TestParseExport(t *testing.T) {
	records, err := Parse(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, records, 4)

	// sorted by date; week2 comes first in the document so Ann precedes
	// Pat on the shared date
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Date + " " + r.Employee
	}
	assert.Equal(t, []string{
		"2024-03-01 Bob Jones",
		"2024-03-15 Ann Smith",
		"2024-03-15 Pat Lee",
		"2024-03-20 Patricia Lee",
	}, got)

	ann := records[1]
	assert.Equal(t, engine.EmployeeRecord{
		Employee:   "Ann Smith",
		Office:     "Milwaukee",
		Account:    "Kroger",
		Store:      "K-101",
		Supervisor: "Pat Lee",
		Date:       "2024-03-15",
		Pieces:     120.5,
		Dollars:    240,
		Skus:       12,
		AvgDelta:   1.5,
		Gap5Count:  2,
		Gap10Count: 1,
	}, ann)
}

func TestNormalizeSupervisorFallsBackToID(t *testing.T) {
	records, err := Parse(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "404", records[0].Supervisor)
	assert.Equal(t, "Ann Smith", records[2].Supervisor)
	// id 9 is Pat before Patricia; the first name wins
	assert.Equal(t, "Pat Lee", records[1].Supervisor)
}

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	buckets, err := Decode([]byte(`{"zeta": [{"Employee": 1}], "alpha": [{"Employee": 2}], "mid": []}`))
	require.NoError(t, err)

	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	rows := Flatten(buckets)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Employee)
	assert.Equal(t, 2.0, rows[1].Employee)
}

func TestDocumentOrderDecidesNamesAndTies(t *testing.T) {
	payload := `{
		"z": [{"Employee": 5, "FirstName": "Zed", "LastName": "Z", "DateOfInv": "2024-01-01", "SupervisorNumber": 5}],
		"a": [{"Employee": 5, "FirstName": "Abe", "LastName": "A", "DateOfInv": "2024-01-01", "SupervisorNumber": 5}]
	}`
	records, err := Parse([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Zed Z", records[0].Employee)
	assert.Equal(t, "Abe A", records[1].Employee)
	assert.Equal(t, "Zed Z", records[1].Supervisor)
}

func TestDecodeRepeatedKey(t *testing.T) {
	buckets, err := Decode([]byte(`{"a": [{"Employee": 1}], "b": [], "a": [{"Employee": 3}]}`))
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "a", buckets[0].Key)
	require.Len(t, buckets[0].Rows, 1)
	assert.Equal(t, 3.0, buckets[0].Rows[0].Employee)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"a": []} {"b": []}`))
	assert.Error(t, err)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	rows := []RawRecord{
		{Employee: 1, FirstName: "B", LastName: "B", DateOfInv: "2024-02-01"},
		{Employee: 2, FirstName: "A", LastName: "A", DateOfInv: "2024-01-01"},
	}
	out := Normalize(rows)

	assert.Equal(t, "2024-01-01", out[0].Date)
	assert.Equal(t, "2024-02-01", rows[0].DateOfInv)
}

func TestDecodeRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		bucket  string
	}{
		{"top-level array", `[{"Employee": 1}]`, ""},
		{"top-level null", `null`, ""},
		{"bucket is object", `{"a": {"Employee": 1}}`, "a"},
		{"bucket is null", `{"a": []  , "b": null}`, "b"},
		{"row has wrong type", `{"a": [{"Employee": "seven"}]}`, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			var fe *DataFormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.bucket, fe.Bucket)
		})
	}
}

func TestParseEmptyObject(t *testing.T) {
	records, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadWrapsFormatErrors(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.json"
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o600))

	_, err := Load(context.Background(), FileSource{Path: path})

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "decode", le.Op)
	assert.Equal(t, path, le.Source)

	var fe *DataFormatError
	assert.True(t, errors.As(err, &fe))
}
