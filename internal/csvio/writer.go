package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// ExportHeader is the column order of the purchase export format.
var ExportHeader = []string{
	"member_name", "category", "item_name", "amount", "unit",
	"status", "priority", "note", "budget_id", "allocation_amount",
}

// WritePurchases serializes purchases to the flat export format: a UTF-8
// byte-order mark, a header row, then one row per purchase×allocation
// pair. A purchase without allocations emits a single row with empty
// budget and allocation columns — the format is flat, a purchase is not.
func WritePurchases(w io.Writer, purchases []models.Purchase) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return err
	}

	for _, p := range purchases {
		base := []string{
			p.MemberName,
			string(p.Category),
			p.ItemName,
			formatAmount(p.Amount),
			p.Unit,
			string(p.Status),
			strconv.Itoa(p.Priority),
			p.Note,
		}
		if len(p.Allocations) == 0 {
			if err := writer.Write(append(base, "", "")); err != nil {
				return err
			}
			continue
		}
		for _, a := range p.Allocations {
			row := make([]string, 0, len(base)+2)
			row = append(row, base...)
			row = append(row, a.BudgetID, formatAmount(a.Amount))
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
