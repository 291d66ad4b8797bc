package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"prospectflow/internal/model"
)

// ImportResult summarizes a CSV import operation.
type ImportResult struct {
	Created int
	Skipped int
	Errors  []string
}

var importColumns = map[string]string{
	"companyname":  "companyName",
	"company name": "companyName",
	"company":      "companyName",
	"name":         "companyName",
	"industry":     "industry",
	"companyinfo":  "companyInfo",
	"company info": "companyInfo",
	"painpoints":   "painPoints",
	"pain points":  "painPoints",
	"impact":       "impact",
}

// ImportAccountsCSV ingests accounts from a CSV reader with a header row.
// Rows without a company name are skipped and reported. The document is
// persisted once, after all rows are read.
func (r *Repository) ImportAccountsCSV(ctx context.Context, src io.Reader) (ImportResult, error) {
	result := ImportResult{}
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := importColumns[key]; ok {
			if _, seen := index[field]; !seen {
				index[field] = i
			}
		}
	}
	if _, ok := index["companyName"]; !ok {
		return result, fmt.Errorf("csv missing 'companyName' column")
	}

	value := func(record []string, field string) string {
		idx, ok := index[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			result.Skipped++
			continue
		}
		fields := model.AccountFields{
			CompanyName: value(record, "companyName"),
			Industry:    value(record, "industry"),
			CompanyInfo: value(record, "companyInfo"),
			PainPoints:  value(record, "painPoints"),
			Impact:      value(record, "impact"),
		}
		if missing := fields.Missing(); len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s required", row, strings.ToLower(missing[0])))
			result.Skipped++
			continue
		}
		account := model.Account{ID: r.newID(), Prospects: []model.Prospect{}}
		fields.Apply(&account)
		r.doc.Accounts = append(r.doc.Accounts, account)
		result.Created++
	}

	if result.Created > 0 {
		r.persist(ctx)
	}
	r.logger.Info("Imported accounts",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	return result, nil
}
