package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/autobill/internal/model"
)

// FormatAmount renders an amount with its sign and color, e.g. "-¥20.00".
func FormatAmount(txnDirection model.Direction, amount string) string {
	if txnDirection == model.DirectionIncome {
		return IncomeStyle.Render("+¥" + amount)
	}
	return ExpenseStyle.Render("-¥" + amount)
}

// RenderCandidate shows what the parsers and redactor made of a screen.
func RenderCandidate(bill model.CandidateBill, evidence model.RedactedEvidence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Amount:   "), FormatAmount(bill.Direction, bill.Amount.StringFixed(2)))
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Direction:"), bill.Direction)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Scene:    "), bill.Scene)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("App:      "), bill.SourceAppID)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Sent:     "), SubtleStyle.Render(evidence.Text))
	fmt.Fprintf(&b, "%s %s", BoldStyle.Render("Hash:     "), SubtleStyle.Render(string(bill.Fingerprint())[:12]))
	return RenderBox(BillIcon+" Recognized bill", b.String())
}

// RenderTransactions renders a table of transactions.
func RenderTransactions(txns []model.FinalizedTransaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions recorded yet.")
	}

	headers := []string{"Time", "Amount", "Category", "Note", "App"}
	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.Timestamp.Local().Format("01-02 15:04"),
			FormatAmount(txn.Direction, txn.Amount.StringFixed(2)),
			strings.TrimSpace(txn.Icon + " " + txn.Category),
			txn.Note,
			txn.SourceAppID,
		})
	}
	return renderTable(headers, rows)
}

// RenderCategories renders the category whitelist.
func RenderCategories(categories []model.Category) string {
	if len(categories) == 0 {
		return SubtleStyle.Render("No categories. Run `autobill categories seed` to install defaults.")
	}

	headers := []string{"", "Name", "Type"}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Icon, c.Name, string(c.Type)})
	}
	return renderTable(headers, rows)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, line(headers, TableHeaderStyle))
	for _, row := range rows {
		out = append(out, line(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
