package docx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testValues = Replacements{
	FieldDate:      "10月19日（土）",
	FieldStartTime: "14:30",
	FieldEndTime:   "15:30",
	FieldName:      "Tower A",
}

// replaceTestParagraph runs substitution on the only paragraph of the given
// body and returns the patched part bytes plus the re-parsed paragraph.
func replaceTestParagraph(t *testing.T, body string, values Replacements) ([]byte, *Paragraph, bool) {
	t.Helper()
	data := part(body)
	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)

	edits, centered := replaceParagraph(data, paragraphs[0], DefaultPlaceholders, values)
	patched := applyEdits(data, edits)

	reparsed, err := parseParagraphs(patched)
	require.NoError(t, err)
	require.Len(t, reparsed, 1)
	return patched, reparsed[0], centered
}

func TestReplaceParagraph_NoTokenLeavesBytesUntouched(t *testing.T) {
	data := part(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>no tokens here</w:t></w:r></w:p>`)
	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)

	edits, centered := replaceParagraph(data, paragraphs[0], DefaultPlaceholders, testValues)
	assert.Empty(t, edits)
	assert.False(t, centered)
	assert.Equal(t, part(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>no tokens here</w:t></w:r></w:p>`), applyEdits(data, edits))
}

func TestReplaceParagraph_InRunPreservesFormattingAndCenters(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:b/><w:sz w:val="28"/><w:color w:val="FF0000"/></w:rPr>` +
		`<w:t>開始 ［10:00］ から</w:t></w:r></w:p>`

	patched, para, centered := replaceTestParagraph(t, body, testValues)

	assert.True(t, centered)
	assert.Equal(t, "開始 14:30 から", para.Text(patched))
	assert.Equal(t, "center", para.Alignment(patched))

	props, err := para.Runs[0].DecodeProperties(patched)
	require.NoError(t, err)
	assert.Equal(t, RunProperties{Bold: true, Size: "28", Color: "FF0000"}, props)
}

func TestReplaceParagraph_NameNeverCenters(t *testing.T) {
	patched, para, centered := replaceTestParagraph(t,
		`<w:p><w:r><w:t>物件：［物件名］</w:t></w:r></w:p>`, testValues)

	assert.False(t, centered)
	assert.Equal(t, "物件：Tower A", para.Text(patched))
	assert.Empty(t, para.Alignment(patched))
}

func TestReplaceParagraph_CrossRunSplit(t *testing.T) {
	// the start-time token split exactly at the run boundary
	body := `<w:p><w:r><w:t>［10:</w:t></w:r><w:r><w:t>00］</w:t></w:r></w:p>`

	patched, para, centered := replaceTestParagraph(t, body, testValues)

	assert.True(t, centered)
	require.Len(t, para.Runs, 2)
	assert.Equal(t, "14:30", para.Runs[0].GetText(patched))
	assert.Empty(t, para.Runs[1].GetText(patched))
	assert.Equal(t, "center", para.Alignment(patched))
}

func TestReplaceParagraph_RepeatedTokenReplacedInOnePass(t *testing.T) {
	patched, para, _ := replaceTestParagraph(t,
		`<w:p><w:r><w:t>［物件名］と［物件名］</w:t></w:r></w:p>`, testValues)

	assert.Equal(t, "Tower AとTower A", para.Text(patched))
}

func TestReplaceParagraph_UnmatchedKeyKeepsToken(t *testing.T) {
	// a replacement set missing a key leaves the literal token in place
	values := Replacements{FieldName: "Tower A"}
	patched, para, _ := replaceTestParagraph(t,
		`<w:p><w:r><w:t>［10:00］ ［物件名］</w:t></w:r></w:p>`, values)

	assert.Equal(t, "［10:00］ Tower A", para.Text(patched))
}

func TestReplaceParagraph_ValueIsEscaped(t *testing.T) {
	values := Replacements{FieldName: `A&B <"C">`}
	patched, para, _ := replaceTestParagraph(t,
		`<w:p><w:r><w:t>［物件名］</w:t></w:r></w:p>`, values)

	assert.Equal(t, `A&amp;B &lt;&quot;C&quot;&gt;`, para.Runs[0].GetText(patched))
	_, err := parseParagraphs(patched)
	assert.NoError(t, err)
}

func TestReplaceParagraph_ExistingAlignmentRewritten(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>［11:00］</w:t></w:r></w:p>`

	patched, para, centered := replaceTestParagraph(t, body, testValues)

	assert.True(t, centered)
	assert.Equal(t, "center", para.Alignment(patched))
	assert.Equal(t, "15:30", para.Text(patched))
	// only one jc element must remain
	assert.Equal(t, 1, strings.Count(string(patched), "<w:jc"))
}

func TestReplaceParagraph_AlreadyCenteredStaysValid(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>［11:00］</w:t></w:r></w:p>`

	patched, para, _ := replaceTestParagraph(t, body, testValues)

	assert.Equal(t, "center", para.Alignment(patched))
	assert.Equal(t, 1, strings.Count(string(patched), "<w:jc"))
}

func TestReplaceParagraph_PropertiesWithoutAlignmentGainJc(t *testing.T) {
	body := `<w:p><w:pPr><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>［10:00］</w:t></w:r></w:p>`

	patched, para, _ := replaceTestParagraph(t, body, testValues)

	assert.Equal(t, "center", para.Alignment(patched))
	// w:jc must precede the paragraph-mark rPr
	pPr := string(para.PropertyBytes(patched))
	assert.Less(t, strings.Index(pPr, "<w:jc"), strings.Index(pPr, "<w:rPr"))
}

func TestReplaceParagraph_MultipleTokensAcrossRuns(t *testing.T) {
	body := `<w:p><w:r><w:t>［10月　19日（水）］ ［10:00］〜［11:00］ ［物件名］</w:t></w:r></w:p>`

	patched, para, centered := replaceTestParagraph(t, body, testValues)

	assert.True(t, centered)
	assert.Equal(t, "10月19日（土） 14:30〜15:30 Tower A", para.Text(patched))
}
