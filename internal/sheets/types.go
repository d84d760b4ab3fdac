package sheets

import (
	"time"

	"github.com/Veraticus/autobill/internal/model"
)

// Header is the first row of the ledger sheet.
var Header = []any{"时间", "收支", "金额", "分类", "图标", "备注", "来源应用", "记录方式", "ID"}

// Row is one ledger line.
type Row struct {
	Time        string
	Direction   string
	Amount      string
	Category    string
	Icon        string
	Note        string
	SourceAppID string
	Origin      string
	ID          string
}

// NewRow formats txn for the sheet, rendering its timestamp in loc.
func NewRow(txn model.FinalizedTransaction, loc *time.Location) Row {
	if loc == nil {
		loc = time.UTC
	}

	direction := "支出"
	if txn.Direction == model.DirectionIncome {
		direction = "收入"
	}

	return Row{
		Time:        txn.Timestamp.In(loc).Format("2006-01-02 15:04:05"),
		Direction:   direction,
		Amount:      txn.Amount.StringFixed(2),
		Category:    txn.Category,
		Icon:        txn.Icon,
		Note:        txn.Note,
		SourceAppID: txn.SourceAppID,
		Origin:      txn.OriginSource,
		ID:          txn.ID,
	}
}

// Values returns the row in Header column order.
func (r Row) Values() []any {
	return []any{r.Time, r.Direction, r.Amount, r.Category, r.Icon, r.Note, r.SourceAppID, r.Origin, r.ID}
}
