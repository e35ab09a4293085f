package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortStateSelect(t *testing.T) {
	s := DefaultAnomalySort()
	assert.Equal(t, SortState{Key: "date", Order: Descending}, s)

	s = s.Select("date")
	assert.Equal(t, Ascending, s.Order)
	s = s.Select("date")
	assert.Equal(t, Descending, s.Order)

	s = s.Select("employee")
	assert.Equal(t, SortState{Key: "employee", Order: Ascending}, s)
}

func TestSortRecords(t *testing.T) {
	records := []EmployeeRecord{
		rec("b", "2024-01-10", 5),
		rec("A", "2023-12-31", 50),
		rec("C", "2024-01-02", 1),
	}

	byDate := SortRecords(records, DefaultRecordSort())
	assert.Equal(t, []string{"2024-01-10", "2024-01-02", "2023-12-31"}, dates(byDate))

	byName := SortRecords(records, SortState{Key: "employee", Order: Ascending})
	assert.Equal(t, "A", byName[0].Employee)
	assert.Equal(t, "b", byName[1].Employee)

	byPieces := SortRecords(records, SortState{Key: "pieces", Order: Descending})
	assert.Equal(t, 50.0, byPieces[0].Pieces)
	assert.Equal(t, 1.0, byPieces[2].Pieces)
}

func TestSortRecordsMixesUnparseableDatesConsistently(t *testing.T) {
	want := []string{"2023-12-31", "2024-01-10", "2024-13-45", "bad"}
	inputs := [][]string{
		{"bad", "2024-01-10", "2024-13-45", "2023-12-31"},
		{"2024-13-45", "2023-12-31", "bad", "2024-01-10"},
		{"2024-01-10", "bad", "2023-12-31", "2024-13-45"},
	}
	for _, in := range inputs {
		records := make([]EmployeeRecord, len(in))
		for i, d := range in {
			records[i] = rec("Ann Smith", d, 1)
		}
		got := SortRecords(records, SortState{Key: "date", Order: Ascending})
		assert.Equal(t, want, dates(got), "input %v", in)
	}
}

func TestSortGroupsAndEmployees(t *testing.T) {
	groups := SortGroups(GroupAverages(sampleRecords(), DimStore, nil), SortState{Key: "pieces", Order: Descending})
	require.Len(t, groups, 4)
	assert.Equal(t, "K-101", groups[0].Key)
	assert.Equal(t, "F-1", groups[3].Key)

	byName := SortGroups(groups, SortState{Key: "groupName", Order: Ascending})
	assert.Equal(t, "F-1", byName[0].Key)

	rows := SortEmployeeSummaries(EmployeeAverages(sampleRecords(), MetricPieces), SortState{Key: "consistency", Order: Descending})
	require.Len(t, rows, 3)
	assert.Equal(t, "Cy Young", rows[0].Employee)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	page, p := Paginate(items, 3, 10)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, page)
	assert.Equal(t, Pagination{Page: 3, PageSize: 10, TotalPages: 3, TotalRows: 25}, p)

	page, p = Paginate(items, 9, 10)
	assert.Equal(t, 3, p.Page)
	assert.Len(t, page, 5)

	page, p = Paginate(items, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, page)

	page, p = Paginate([]int{}, 1, 10)
	assert.Empty(t, page)
	assert.Zero(t, p.TotalPages)
}
