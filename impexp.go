package restock

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// this file contains functions to handle the spreadsheet import format.

// csv column layout of a transactions sheet export.
const (
	colDate = iota
	colTicker
	colType
	colName
	colShares
	colPrice
	numCols
)

// ImportTransactions reads transactions from 'r' in the spreadsheet export
// format: a CSV with columns date, ticker, type, name, shares, price and an
// optional header row.
//
// Each imported transaction is assigned a fresh unique ID. Malformed rows are
// reported individually as *ValidationError with their 1-based row number and
// excluded; the valid remainder is returned. The error return is reserved for
// failures of the reader itself.
func ImportTransactions(r io.Reader, currency string) ([]Transaction, []error, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width is validated per record below
	cr.TrimLeadingSpace = true

	var txs []Transaction
	var issues []error

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, issues, fmt.Errorf("error reading transactions: %w", err)
		}
		row++

		// Skip the header row of a sheet export.
		if row == 1 && strings.EqualFold(strings.TrimSpace(record[colDate]), "date") {
			continue
		}
		if isBlank(record) {
			continue
		}

		tx, err := parseRecord(record, currency)
		if err != nil {
			issues = append(issues, &ValidationError{Row: row, Reason: err.Error()})
			continue
		}
		txs = append(txs, tx)
	}
	return txs, issues, nil
}

func parseRecord(record []string, currency string) (Transaction, error) {
	if len(record) < numCols {
		return Transaction{}, fmt.Errorf("want %d columns, got %d", numCols, len(record))
	}

	day, err := ParseDate(record[colDate])
	if err != nil {
		return Transaction{}, err
	}
	action, err := ParseAction(record[colType])
	if err != nil {
		return Transaction{}, err
	}
	shares, err := decimal.NewFromString(strings.TrimSpace(record[colShares]))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid shares %q", record[colShares])
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[colPrice]))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid price %q", record[colPrice])
	}

	tx := Transaction{
		ID:       uuid.NewString(),
		Date:     day,
		Action:   action,
		Security: record[colTicker],
		Name:     strings.TrimSpace(record[colName]),
		Quantity: Q(shares),
		Price:    M(price, currency),
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
