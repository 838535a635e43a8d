package docx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// part wraps body XML into a minimal document part.
func part(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + body + `</w:body></w:document>`)
}

func TestParseParagraphs_BodyAndTable(t *testing.T) {
	data := part(
		`<w:p><w:r><w:t>first</w:t></w:r><w:r><w:t> second</w:t></w:r></w:p>` +
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
			`<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:rPr><w:b/></w:rPr><w:t>third</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 3)

	assert.Equal(t, "first second", paragraphs[0].Text(data))
	assert.Len(t, paragraphs[0].Runs, 2)
	assert.False(t, paragraphs[0].HasProperties)

	// the table-cell paragraph is found by the same scan, in document order
	assert.Equal(t, "cell", paragraphs[1].Text(data))

	assert.Equal(t, "third", paragraphs[2].Text(data))
	assert.True(t, paragraphs[2].HasProperties)
	assert.Equal(t, "left", paragraphs[2].Alignment(data))
	require.Len(t, paragraphs[2].Runs, 1)
	assert.True(t, paragraphs[2].Runs[0].HasProperties)
}

func TestParseParagraphs_SelfClosingElements(t *testing.T) {
	data := part(`<w:p/><w:p><w:r><w:t/></w:r><w:r/><w:r><w:t>x</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)

	assert.Empty(t, paragraphs[0].Runs)

	require.Len(t, paragraphs[1].Runs, 3)
	// an empty <w:t/> carries no assignable text
	assert.False(t, paragraphs[1].Runs[0].HasText)
	assert.False(t, paragraphs[1].Runs[1].HasText)
	assert.Equal(t, "x", paragraphs[1].Runs[2].GetText(data))
}

func TestParseParagraphs_ParagraphMarkPropertiesIgnored(t *testing.T) {
	// the w:rPr inside w:pPr belongs to the paragraph mark, not to any run
	data := part(`<w:p><w:pPr><w:rPr><w:b/></w:rPr></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	require.Len(t, paragraphs[0].Runs, 1)
	assert.True(t, paragraphs[0].HasProperties)
	assert.False(t, paragraphs[0].Runs[0].HasProperties)
}

func TestParseParagraphs_SkipsDrawingSubtree(t *testing.T) {
	// DrawingML reuses p/r/t local names; those must not surface as paragraphs
	data := part(`<w:p><w:r><w:drawing><a:p xmlns:a="a"><a:r><a:t>shape</a:t></a:r></a:p></w:drawing></w:r>` +
		`<w:r><w:t>visible</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	assert.Equal(t, "visible", paragraphs[0].Text(data))
}

func TestParseParagraphs_TagsWithAttributes(t *testing.T) {
	data := part(`<w:p w14:paraId="3F29" xmlns:w14="w14"><w:r><w:t xml:space="preserve"> padded </w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs, 1)
	assert.Equal(t, " padded ", paragraphs[0].Text(data))
}

func TestRun_DecodeProperties(t *testing.T) {
	data := part(`<w:p><w:r><w:rPr><w:b/><w:i/><w:sz w:val="28"/><w:u w:val="single"/><w:color w:val="FF0000"/></w:rPr><w:t>x</w:t></w:r>` +
		`<w:r><w:t>plain</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)
	require.Len(t, paragraphs[0].Runs, 2)

	props, err := paragraphs[0].Runs[0].DecodeProperties(data)
	require.NoError(t, err)
	assert.Equal(t, RunProperties{
		Bold:      true,
		Italic:    true,
		Size:      "28",
		Underline: "single",
		Color:     "FF0000",
	}, props)

	// unset attributes stay zero-valued
	plain, err := paragraphs[0].Runs[1].DecodeProperties(data)
	require.NoError(t, err)
	assert.Equal(t, RunProperties{}, plain)
}

func TestRun_DecodeProperties_ExplicitToggleOff(t *testing.T) {
	data := part(`<w:p><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>x</w:t></w:r></w:p>`)

	paragraphs, err := parseParagraphs(data)
	require.NoError(t, err)

	props, err := paragraphs[0].Runs[0].DecodeProperties(data)
	require.NoError(t, err)
	assert.False(t, props.Bold)
}
