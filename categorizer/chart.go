package categorizer

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// Palette is the colour cycle used for chart segments.
var Palette = []color.NRGBA{
	{R: 0x88, G: 0x84, B: 0xd8, A: 0xff},
	{R: 0x82, G: 0xca, B: 0x9d, A: 0xff},
	{R: 0xff, G: 0xc6, B: 0x58, A: 0xff},
	{R: 0xff, G: 0x80, B: 0x42, A: 0xff},
	{R: 0xff, G: 0xbb, B: 0x28, A: 0xff},
}

// Segment is one slice of the category pie. Angles are degrees clockwise from 12 o'clock.
type Segment struct {
	Name       string
	Count      int
	Share      float64
	StartAngle float64
	EndAngle   float64
	Color      color.NRGBA
}

// Percent returns the share as a rounded whole percentage.
func (s Segment) Percent() int {
	return int(math.Round(s.Share * 100))
}

// Label returns "<name> NN%".
func (s Segment) Label() string {
	return fmt.Sprintf("%s %d%%", s.Name, s.Percent())
}

// Segments lays out one segment per aggregated category.
func Segments(agg Aggregation) []Segment {
	if agg.Total <= 0 || len(agg.Categories) == 0 {
		return nil
	}
	segs := make([]Segment, 0, len(agg.Categories))
	start := 0.0
	for i, c := range agg.Categories {
		share := float64(c.Count) / float64(agg.Total)
		end := start + share*360
		if i == len(agg.Categories)-1 {
			end = 360
		}
		segs = append(segs, Segment{
			Name:       c.Name,
			Count:      c.Count,
			Share:      share,
			StartAngle: start,
			EndAngle:   end,
			Color:      Palette[i%len(Palette)],
		})
		start = end
	}
	return segs
}

// SegmentAt returns the index of the segment covering angle, or -1.
func SegmentAt(segs []Segment, angle float64) int {
	if len(segs) == 0 || math.IsNaN(angle) {
		return -1
	}
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	for i, s := range segs {
		if angle >= s.StartAngle && angle < s.EndAngle {
			return i
		}
	}
	return -1
}

// AngleOf returns the clockwise angle from 12 o'clock of the point (dx, dy) relative to the
// centre, with y growing downwards.
func AngleOf(dx, dy float64) float64 {
	deg := math.Atan2(dx, -dy) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// DetailRow is one line of the category drill-down.
type DetailRow struct {
	Question      string
	Confidence    float64
	HasConfidence bool
}

// ConfidenceLabel renders the confidence as a percentage, blank when the result had no match.
func (d DetailRow) ConfidenceLabel() string {
	if !d.HasConfidence {
		return ""
	}
	return strconv.FormatFloat(d.Confidence, 'f', -1, 64) + "%"
}

// DetailRows lists the questions assigned to category with their top-match confidence.
func DetailRows(results []Result, category string) []DetailRow {
	matched := QuestionsIn(results, category)
	rows := make([]DetailRow, 0, len(matched))
	for _, r := range matched {
		row := DetailRow{Question: r.Question}
		if top, ok := TopMatch(r); ok {
			row.Confidence = top.Confidence
			row.HasConfidence = true
		}
		rows = append(rows, row)
	}
	return rows
}

// DetailTitle is the heading of the drill-down view.
func DetailTitle(category string) string {
	return category + " - Questions"
}
