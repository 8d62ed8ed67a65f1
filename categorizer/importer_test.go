package categorizer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows to the first sheet and, when extra is set, a second sheet.
func buildWorkbook(t *testing.T, rows [][]any, extra [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	writeRows(t, f, "Sheet1", rows)
	if extra != nil {
		_, err := f.NewSheet("Other")
		require.NoError(t, err)
		writeRows(t, f, "Other", extra)
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
}

func TestImportQuestionsWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Question", "Notes"},
		{"What is love?", "first"},
		{"Who wrote Genesis?"},
	}, [][]any{
		{"Question"},
		{"Ignored"},
	})

	res, err := NewImporter(ColumnCandidates{}).Import("questions.xlsx", bytes.NewReader(data), KindQuestions)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, KindQuestions, res.Kind)
	assert.Equal(t, "Sheet1", res.Sheet)
	assert.Equal(t, []string{"Question", "Notes"}, res.Columns)
	assert.Equal(t, []Question{{Text: "What is love?"}, {Text: "Who wrote Genesis?"}}, res.Questions)
	assert.Empty(t, res.Categories)
	require.Len(t, res.Preview, 2)
	assert.Equal(t, RawRow{"Question": "What is love?", "Notes": "first"}, res.Preview[0])
	assert.Equal(t, RawRow{"Question": "Who wrote Genesis?"}, res.Preview[1])
	assert.Equal(t, 2, res.Len())
}

func TestImportCategoriesWorkbookSniffed(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"category"},
		{"Theology"},
		{"Authorship"},
	}, nil)

	res, err := NewImporter(ColumnCandidates{}).Import("upload", bytes.NewReader(data), KindCategories)
	require.NoError(t, err)
	assert.Equal(t, []Category{{Name: "Theology"}, {Name: "Authorship"}}, res.Categories)
}

func TestImportSkipsBlankRows(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Question"},
		{"one"},
		{""},
		{"two"},
		{"three"},
	}, nil)

	res, err := NewImporter(ColumnCandidates{}).Import("q.xlsx", bytes.NewReader(data), KindQuestions)
	require.NoError(t, err)
	assert.Len(t, res.Questions, 3)
	assert.Len(t, res.Preview, 3)
}

func TestImportMissingColumnKeepsRows(t *testing.T) {
	csvData := "Prompt,Other\nWhat is love?,x\nWho wrote Genesis?,y\n"

	res, err := NewImporter(ColumnCandidates{}).Import("q.csv", strings.NewReader(csvData), KindQuestions)
	require.NoError(t, err)
	require.Len(t, res.Questions, 2)
	for _, q := range res.Questions {
		assert.Empty(t, q.Text)
	}
	assert.Equal(t, "What is love?", res.Preview[0]["Prompt"])
}

func TestImportRepairsEncodingButKeepsRawPreview(t *testing.T) {
	csvData := "Category\nThÃ©ologie\n"

	res, err := NewImporter(ColumnCandidates{}).Import("c.csv", strings.NewReader(csvData), KindCategories)
	require.NoError(t, err)
	assert.Equal(t, []Category{{Name: "Théologie"}}, res.Categories)
	assert.Equal(t, "ThÃ©ologie", res.Preview[0]["Category"])
}

func TestImportDecodesWindows1252Text(t *testing.T) {
	csvData := []byte("Category\nTh\xe9ologie\n")

	res, err := NewImporter(ColumnCandidates{}).Import("c.csv", bytes.NewReader(csvData), KindCategories)
	require.NoError(t, err)
	assert.Equal(t, []Category{{Name: "Théologie"}}, res.Categories)
}

func TestImportTSVWithBOM(t *testing.T) {
	tsv := "\ufeffQuestion\tTag\nWhat is love?\tt1\n"

	res, err := NewImporter(ColumnCandidates{}).Import("q.tsv", strings.NewReader(tsv), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Question", "Tag"}, res.Columns)
	assert.Equal(t, []Question{{Text: "What is love?"}}, res.Questions)
}

func TestImportHeaderNaming(t *testing.T) {
	csvData := "Question,Question,,\na,b,c,d\n"

	res, err := NewImporter(ColumnCandidates{}).Import("q.csv", strings.NewReader(csvData), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Question", "Question_1", "__EMPTY", "__EMPTY_1"}, res.Columns)
	assert.Equal(t, RawRow{"Question": "a", "Question_1": "b", "__EMPTY": "c", "__EMPTY_1": "d"}, res.Preview[0])
	assert.Equal(t, []Question{{Text: "a"}}, res.Questions)
}

func TestImportCustomColumns(t *testing.T) {
	csvData := "Frage\nWas ist Liebe?\n"

	im := NewImporter(ColumnCandidates{Question: []string{"Prompt", "Frage"}})
	res, err := im.Import("q.csv", strings.NewReader(csvData), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []Question{{Text: "Was ist Liebe?"}}, res.Questions)
}

func TestImportNoFileIsNoop(t *testing.T) {
	im := NewImporter(ColumnCandidates{})

	res, err := im.Import("q.xlsx", nil, KindQuestions)
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = im.ImportFile("  ", KindQuestions)
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, res.Len())
}

func TestImportErrors(t *testing.T) {
	im := NewImporter(ColumnCandidates{})

	_, err := im.Import("legacy.xls", strings.NewReader("whatever"), KindQuestions)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = im.Import("ole", bytes.NewReader([]byte{0xD0, 0xCF, 0x11, 0xE0, 0x00}), KindQuestions)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = im.Import("broken.xlsx", strings.NewReader("not a zip"), KindQuestions)
	assert.Error(t, err)

	_, err = im.Import("q.csv", strings.NewReader("Question\na\n"), Kind("answers"))
	assert.Error(t, err)

	_, err = im.ImportFile(filepath.Join(t.TempDir(), "missing.xlsx"), KindQuestions)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.xlsx")
	require.NoError(t, os.WriteFile(path, buildWorkbook(t, [][]any{
		{"Category"},
		{"Theology"},
	}, nil), 0o644))

	res, err := NewImporter(ColumnCandidates{}).ImportFile(path, KindCategories)
	require.NoError(t, err)
	assert.Equal(t, "categories.xlsx", res.Source)
	assert.Equal(t, []Category{{Name: "Theology"}}, res.Categories)
}

func TestImportEmptySheet(t *testing.T) {
	im := NewImporter(ColumnCandidates{})

	res, err := im.Import("q.xlsx", bytes.NewReader(buildWorkbook(t, nil, nil)), KindQuestions)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Sheet1", res.Sheet)
	assert.NotNil(t, res.Questions)
	assert.Empty(t, res.Questions)
	assert.Empty(t, res.Preview)
	assert.Equal(t, 0, res.Len())

	res, err = im.Import("c.csv", strings.NewReader(""), KindCategories)
	require.NoError(t, err)
	assert.NotNil(t, res.Categories)
	assert.Empty(t, res.Categories)

	res, err = im.Import("q.csv", strings.NewReader("Question\n"), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Question"}, res.Columns)
	assert.Empty(t, res.Questions)
}

func TestImportStartsAtUsedRange(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{},
		{},
		{"Question"},
		{"What is love?"},
	}, nil)

	res, err := NewImporter(ColumnCandidates{}).Import("q.xlsx", bytes.NewReader(data), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Question"}, res.Columns)
	assert.Equal(t, []Question{{Text: "What is love?"}}, res.Questions)

	csvData := ",,\n,Question,Note\n,Who wrote Genesis?,x\n"
	res, err = NewImporter(ColumnCandidates{}).Import("q.csv", strings.NewReader(csvData), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"Question", "Note"}, res.Columns)
	assert.Equal(t, RawRow{"Question": "Who wrote Genesis?", "Note": "x"}, res.Preview[0])
	assert.Equal(t, []Question{{Text: "Who wrote Genesis?"}}, res.Questions)
}

func TestImportHeaderNamesStayUnique(t *testing.T) {
	csvData := "A,A_1,A,__EMPTY,\n1,2,3,4,5\n"

	res, err := NewImporter(ColumnCandidates{}).Import("q.csv", strings.NewReader(csvData), KindQuestions)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A_1", "A_2", "__EMPTY", "__EMPTY_1"}, res.Columns)
	assert.Equal(t, RawRow{"A": "1", "A_1": "2", "A_2": "3", "__EMPTY": "4", "__EMPTY_1": "5"}, res.Preview[0])
}
