// Package csvio handles the delimited-text side of the import/export
// gateway: parsing UTF-8 (optionally BOM-prefixed) comma-separated files
// into header-keyed rows, normalizing free-form column values into the
// closed enums, and writing the flat export format.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// Row is one data record keyed by normalized header name.
type Row map[string]string

// ReadTable parses CSV content into header-keyed rows. The byte-order
// mark and surrounding whitespace are stripped from headers so files from
// spreadsheet exports match the saved mapping.
func ReadTable(r io.Reader) ([]string, []Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// ParseAmount parses a decimal amount, tolerating thousands separators.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric amount %q", s)
	}
	return v, nil
}

// NormalizeCategory maps a free-form category cell onto the closed
// category set. Unknown values land in "other".
func NormalizeCategory(s string) models.PurchaseCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed_cost", "fixed-cost", "fixed cost", "fixed", "固定費":
		return models.CategoryFixedCost
	case "travel", "travel_cost", "travel cost", "旅費":
		return models.CategoryTravel
	default:
		return models.CategoryOther
	}
}

// NormalizeStatus maps a free-form status cell onto the closed status
// set. Unknown values default to drafted, the entry state.
func NormalizeStatus(s string) models.PurchaseStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drafted", "draft", "written", "proposal", "書いただけ", "提案":
		return models.StatusDrafted
	case "estimated", "estimate", "見積済み", "見積済":
		return models.StatusEstimated
	case "shopping", "shop", "in_progress", "買い物中", "買い物":
		return models.StatusShopping
	case "purchased", "done", "complete", "購入済み", "購入済":
		return models.StatusPurchased
	case "declined", "skip", "cancel", "not purchasing", "not_purchasing", "購入しない":
		return models.StatusDeclined
	default:
		return models.StatusDrafted
	}
}

// NormalizePriority maps a priority cell (digit or word) onto 1–5,
// defaulting to 3.
func NormalizePriority(s string) int {
	v := strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 {
			return 1
		}
		if n > 5 {
			return 5
		}
		return n
	}
	switch v {
	case "highest", "最高", "最優先":
		return 5
	case "high", "高":
		return 4
	case "medium", "normal", "中":
		return 3
	case "low", "低":
		return 2
	case "lowest", "最低":
		return 1
	default:
		return 3
	}
}
