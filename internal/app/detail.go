package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/questioncategorizer/categorizer"
)

var detailHeader = [2]string{"Question", "Confidence"}

// newDetailTable lists the questions of one category with their confidence.
func newDetailTable(rows []categorizer.DetailRow) *widget.Table {
	tbl := widget.NewTable(
		func() (int, int) { return len(rows) + 1, len(detailHeader) },
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Truncation = fyne.TextTruncateEllipsis
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(detailHeader[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			row := rows[id.Row-1]
			if id.Col == 0 {
				lbl.SetText(row.Question)
				return
			}
			lbl.SetText(row.ConfidenceLabel())
		},
	)
	tbl.SetColumnWidth(0, 440)
	tbl.SetColumnWidth(1, 110)
	return tbl
}

// newDetailDialog builds the drill-down dialog. onClosed runs however the dialog is dismissed.
func newDetailDialog(win fyne.Window, category string, rows []categorizer.DetailRow, onClosed func()) dialog.Dialog {
	var content fyne.CanvasObject = newDetailTable(rows)
	if len(rows) == 0 {
		content = widget.NewLabel("No questions in this category.")
	}
	d := dialog.NewCustom(categorizer.DetailTitle(category), "Close", content, win)
	d.SetOnClosed(onClosed)
	d.Resize(fyne.NewSize(600, 420))
	return d
}
