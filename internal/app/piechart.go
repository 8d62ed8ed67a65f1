package app

import (
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/questioncategorizer/categorizer"
)

// pieFill is the pie radius as a fraction of half the shorter side.
const pieFill = 0.9

var (
	_ fyne.Tappable     = (*PieChart)(nil)
	_ desktop.Hoverable = (*PieChart)(nil)
)

// PieChart draws category segments and reports taps on them.
type PieChart struct {
	widget.BaseWidget

	mu       sync.RWMutex
	segments []categorizer.Segment

	// OnSelected receives the category name of a tapped segment.
	OnSelected func(name string)
	// OnHover receives the label under the pointer, or "" when it leaves the pie.
	OnHover func(label string)

	raster  *canvas.Raster
	hovered string
}

// NewPieChart creates an empty chart.
func NewPieChart(onSelected func(string)) *PieChart {
	p := &PieChart{OnSelected: onSelected}
	p.raster = canvas.NewRasterWithPixels(p.pixel)
	p.raster.SetMinSize(fyne.NewSize(320, 320))
	p.ExtendBaseWidget(p)
	return p
}

// SetSegments replaces the drawn segments.
func (p *PieChart) SetSegments(segs []categorizer.Segment) {
	p.mu.Lock()
	p.segments = segs
	p.hovered = ""
	p.mu.Unlock()
	p.Refresh()
}

// Segments returns the drawn segments.
func (p *PieChart) Segments() []categorizer.Segment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.segments
}

func (p *PieChart) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.raster)
}

// Tapped selects the segment under the tap. Taps outside the pie are ignored.
func (p *PieChart) Tapped(ev *fyne.PointEvent) {
	seg, ok := p.segmentAt(ev.Position, p.Size())
	if !ok || p.OnSelected == nil {
		return
	}
	p.OnSelected(seg.Name)
}

func (p *PieChart) MouseIn(ev *desktop.MouseEvent) {
	p.MouseMoved(ev)
}

func (p *PieChart) MouseMoved(ev *desktop.MouseEvent) {
	seg, ok := p.segmentAt(ev.Position, p.Size())
	label := ""
	if ok {
		label = seg.Label()
	}
	p.mu.Lock()
	changed := label != p.hovered
	p.hovered = label
	p.mu.Unlock()
	if changed && p.OnHover != nil {
		p.OnHover(label)
	}
}

func (p *PieChart) MouseOut() {
	p.mu.Lock()
	p.hovered = ""
	p.mu.Unlock()
	if p.OnHover != nil {
		p.OnHover("")
	}
}

func (p *PieChart) segmentAt(pos fyne.Position, size fyne.Size) (categorizer.Segment, bool) {
	return hitSegment(p.Segments(), float64(pos.X), float64(pos.Y), float64(size.Width), float64(size.Height))
}

func (p *PieChart) pixel(x, y, w, h int) color.Color {
	seg, ok := hitSegment(p.Segments(), float64(x)+0.5, float64(y)+0.5, float64(w), float64(h))
	if !ok {
		return color.Transparent
	}
	return seg.Color
}

// hitSegment finds the segment under (x, y) for a pie centred in a w by h box.
func hitSegment(segs []categorizer.Segment, x, y, w, h float64) (categorizer.Segment, bool) {
	cx, cy := w/2, h/2
	radius := math.Min(cx, cy) * pieFill
	dx, dy := x-cx, y-cy
	if radius <= 0 || dx*dx+dy*dy > radius*radius {
		return categorizer.Segment{}, false
	}
	idx := categorizer.SegmentAt(segs, categorizer.AngleOf(dx, dy))
	if idx < 0 {
		return categorizer.Segment{}, false
	}
	return segs[idx], true
}
