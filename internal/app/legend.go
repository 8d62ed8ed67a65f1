package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/questioncategorizer/categorizer"
)

// legend lists one button per segment; tapping an entry selects that category.
type legend struct {
	box      *fyne.Container
	onSelect func(string)
	buttons  []*widget.Button
}

func newLegend(onSelect func(string)) *legend {
	return &legend{box: container.NewVBox(), onSelect: onSelect}
}

func (l *legend) update(segs []categorizer.Segment) {
	l.box.RemoveAll()
	l.buttons = l.buttons[:0]
	for _, seg := range segs {
		name := seg.Name
		swatch := canvas.NewRectangle(seg.Color)
		swatch.SetMinSize(fyne.NewSize(14, 14))
		btn := widget.NewButton(seg.Label(), func() {
			if l.onSelect != nil {
				l.onSelect(name)
			}
		})
		btn.Alignment = widget.ButtonAlignLeading
		btn.Importance = widget.LowImportance
		l.buttons = append(l.buttons, btn)
		l.box.Add(container.NewBorder(nil, nil, container.NewCenter(swatch), nil, btn))
	}
	l.box.Refresh()
}
