package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/nickyhof/TemporalDB/op"
	"github.com/nickyhof/TemporalDB/sql"
)

// addedAtColumn is recognized in CSV headers and places each row on the
// timeline instead of importing it at the current instant.
const addedAtColumn = "added_at"

// ImportCSV loads a CSV file into a table as one bulk batch: one sequence
// allocation, one commit. The header row names the columns; a value in the
// primary key column targets that entity (insert-or-replace), an empty or
// missing one auto-assigns. Returns the number of rows staged.
func ImportCSV(m *op.Mutator, url string) (int, op.BulkResult, error) {
	return ImportCSVWithConfig(m, url, nil)
}

func ImportCSVWithConfig(m *op.Mutator, url string, cfg *S3Config) (int, op.BulkResult, error) {
	reader, err := openReader(url, cfg)
	if err != nil {
		return 0, op.BulkResult{}, err
	}
	defer reader.Close()

	records := csv.NewReader(reader)

	header, err := records.Read()
	if err != nil {
		return 0, op.BulkResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	pk := m.Log.Table.EntityColumn()

	bulk := m.Begin()
	rows := 0

	for {
		record, err := records.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			bulk.Rollback()
			return 0, op.BulkResult{}, fmt.Errorf("failed to read CSV row %d: %w", rows+1, err)
		}

		payload := make(map[string]string, len(header))
		var at *time.Time

		for i, column := range header {
			if i >= len(record) {
				break
			}
			if column == addedAtColumn {
				parsed, err := sql.ParseTimestamp(record[i])
				if err != nil {
					bulk.Rollback()
					return 0, op.BulkResult{}, fmt.Errorf("row %d: %w", rows+1, err)
				}
				at = &parsed
				continue
			}
			payload[column] = record[i]
		}

		entity, err := entityFromPayload(pk, payload)
		if err != nil {
			bulk.Rollback()
			return 0, op.BulkResult{}, fmt.Errorf("row %d: %w", rows+1, err)
		}

		bulk.Insert(entity, payload, at)
		rows++
	}

	result, err := bulk.Commit()
	if err != nil {
		return 0, op.BulkResult{}, err
	}

	return rows, result, nil
}
