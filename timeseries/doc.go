// Package timeseries provides monthly time series data structures and utilities.
//
// This package includes the dense Series type, the Sparse type for series whose
// slots may be empty, and Table, which lines several category series up on a
// common monthly index.
//
// # Creating a Series
//
//	levels := timeseries.NewMonthly("All Items", start, []float64{100, 101, 102})
//
// Series carry explicit timestamps. Monthly operations match observations by
// calendar month, so the day of month is irrelevant.
//
// # Year-over-Year Change
//
//	yoy, err := levels.YoY()          // (v[t] - v[t-12]) / v[t-12] * 100
//	qoq, err := levels.PctChange(3)   // any lag in months
//
// Fewer than 13 observations return ErrInsufficientData. A zero base value is not
// special-cased: the division yields ±Inf or NaN and the value is kept.
//
// # Aligning Categories
//
//	table, err := timeseries.Align(food, energy, housing)
//	yoy, err := table.YoY()
//	complete := yoy.DropIncomplete()
//
// Align outer-joins on month. Months a series does not observe are absent slots,
// never zeros. Series with duplicate months, decreasing dates or non-monthly
// spacing return ErrAlignmentMismatch.
//
// # CSV
//
//	series, err := timeseries.LoadCSV("cpi.csv", &timeseries.CSVOptions{IDColumn: "unique_id", IDFilter: "CPIAUCSL", ValueColumn: "y"})
//	table, err := timeseries.LoadTableCSV(reader, nil)
//	err = timeseries.SaveTableCSV(yoy, "yoy_categories.csv")
package timeseries
