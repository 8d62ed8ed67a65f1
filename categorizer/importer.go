package categorizer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for files that are neither workbooks nor delimited text.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

type fileFormat int

const (
	formatWorkbook fileFormat = iota
	formatCSV
	formatTSV
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Importer reads question and category spreadsheets.
type Importer struct {
	columns ColumnCandidates
}

// NewImporter constructs an importer using the given header names. Empty lists fall back to
// the built-in Question/Category headers.
func NewImporter(columns ColumnCandidates) *Importer {
	return &Importer{columns: columns.withDefaults()}
}

// ImportFile opens path and imports it. An empty path is a no-op and returns nil, nil.
func (im *Importer) ImportFile(path string, kind Kind) (*ImportResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return im.Import(filepath.Base(path), f, kind)
}

// Import parses the first worksheet of r. name is only used to pick the format and for error
// messages. A nil reader is a no-op and returns nil, nil.
func (im *Importer) Import(name string, r io.Reader, kind Kind) (*ImportResult, error) {
	if r == nil {
		return nil, nil
	}
	if kind != KindQuestions && kind != KindCategories {
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	format, err := detectFormat(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sheet := name
	var rows [][]string
	switch format {
	case formatWorkbook:
		sheet, rows, err = readWorkbook(data)
	case formatTSV:
		rows, err = readDelimited(data, '\t')
	default:
		rows, err = readDelimited(data, ',')
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	header, preview := rowsToMappings(usedRange(rows))
	res := &ImportResult{
		Kind:       kind,
		Source:     name,
		Sheet:      sheet,
		Columns:    header,
		Preview:    preview,
		Questions:  []Question{},
		Categories: []Category{},
	}
	key, found := findColumn(header, im.columns.forKind(kind))
	for _, row := range preview {
		var value string
		if found {
			value = FixEncoding(row[key])
		}
		if kind == KindCategories {
			res.Categories = append(res.Categories, Category{Name: value})
		} else {
			res.Questions = append(res.Questions, Question{Text: value})
		}
	}
	return res, nil
}

func detectFormat(name string, data []byte) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return formatWorkbook, nil
	case ".csv":
		return formatCSV, nil
	case ".tsv", ".tab":
		return formatTSV, nil
	case ".xls":
		return 0, ErrUnsupportedFormat
	}
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return formatWorkbook, nil
	case bytes.HasPrefix(data, oleMagic):
		return 0, ErrUnsupportedFormat
	}
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 && bytes.IndexByte(firstLine, ',') < 0 {
		return formatTSV, nil
	}
	return formatCSV, nil
}

func readWorkbook(data []byte) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return sheets[0], nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return sheets[0], rows, nil
}

func readDelimited(data []byte, comma rune) ([][]string, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode text: %w", err)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// usedRange drops the blank rows and columns in front of the first non-blank cell, so the
// header is the first row that holds anything.
func usedRange(rows [][]string) [][]string {
	firstRow := -1
	firstCol := -1
	for i, row := range rows {
		for j, cell := range row {
			if cleanCell(cell) == "" {
				continue
			}
			if firstRow < 0 {
				firstRow = i
			}
			if firstCol < 0 || j < firstCol {
				firstCol = j
			}
			break
		}
	}
	if firstRow < 0 {
		return nil
	}
	out := make([][]string, 0, len(rows)-firstRow)
	for _, row := range rows[firstRow:] {
		if firstCol >= len(row) {
			out = append(out, nil)
			continue
		}
		out = append(out, row[firstCol:])
	}
	return out
}

// rowsToMappings turns the first row into header keys and every later non-blank row into a
// RawRow. Blank headers become __EMPTY, __EMPTY_1, ... and repeated headers get the first free
// _1, _2 suffix.
func rowsToMappings(rows [][]string) ([]string, []RawRow) {
	if len(rows) == 0 {
		return nil, []RawRow{}
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var name string
		if i < len(rows[0]) {
			name = cleanCell(rows[0][i])
		}
		if name == "" {
			name = "__EMPTY"
		}
		base := name
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s_%d", base, suffix[base])
		}
		used[name] = true
		header[i] = name
	}

	preview := make([]RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		mapping := make(RawRow, len(row))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			mapping[header[j]] = cell
		}
		if len(mapping) == 0 {
			continue
		}
		preview = append(preview, mapping)
	}
	return header, preview
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
