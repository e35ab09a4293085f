package engine

import "time"

// rec builds a record with only the fields a test cares about.
func rec(employee, date string, pieces float64) EmployeeRecord {
	return EmployeeRecord{
		Employee:   employee,
		Office:     "Milwaukee",
		Account:    "Kroger",
		Store:      "Store 1",
		Supervisor: "Pat Lee",
		Date:       date,
		Pieces:     pieces,
	}
}

func fixedClock(date string) func() time.Time {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func sampleRecords() []EmployeeRecord {
	return []EmployeeRecord{
		{Employee: "Ann Smith", Office: "Milwaukee", Account: "Kroger", Store: "K-101", Supervisor: "Pat Lee", Date: "2024-01-05", Pieces: 100, Dollars: 200, Skus: 10},
		{Employee: "Bob Jones", Office: "Milwaukee", Account: "Mariano's", Store: "M-7", Supervisor: "Pat Lee", Date: "2024-01-06", Pieces: 50, Dollars: 90, Skus: 5},
		{Employee: "Ann Smith", Office: "Milwaukee", Account: "Kroger", Store: "K-102", Supervisor: "Pat Lee", Date: "2024-02-10", Pieces: 100, Dollars: 210, Skus: 11},
		{Employee: "Cy Young", Office: "Madison", Account: "Fuel On", Store: "F-1", Supervisor: "42", Date: "2024-02-11", Pieces: 10, Dollars: 20, Skus: 1},
		{Employee: "Ann Smith", Office: "Milwaukee", Account: "Kroger", Store: "K-101", Supervisor: "Pat Lee", Date: "2024-03-15", Pieces: 100, Dollars: 190, Skus: 9},
		{Employee: "Bob Jones", Office: "Milwaukee", Account: "Mariano's", Store: "M-7", Supervisor: "Pat Lee", Date: "2024-03-15", Pieces: 70, Dollars: 100, Skus: 6},
		{Employee: "Ann Smith", Office: "Milwaukee", Account: "Kroger", Store: "K-101", Supervisor: "Pat Lee", Date: "2024-03-20", Pieces: 200, Dollars: 400, Skus: 20},
	}
}
