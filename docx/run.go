package docx

import (
	"encoding/xml"
	"fmt"
)

// Position is a byte-offset range within a document part.
type Position struct {
	Start int64
	End   int64
}

// Valid returns true if the position describes a usable, non-negative range.
func (p Position) Valid() bool {
	return p.Start >= 0 && p.End >= p.Start
}

// TextRange marks the w:t element of a run. The literal text sits between
// OpenTag.End and CloseTag.Start.
type TextRange struct {
	OpenTag  Position
	CloseTag Position
}

// Run is a non-block region of text with one set of formatting properties,
// the w:r element. It is a view into the bytes of its document part.
type Run struct {
	OpenTag  Position
	CloseTag Position

	// Properties is the range of the w:rPr element, if present.
	Properties    Position
	HasProperties bool

	Text    TextRange
	HasText bool
}

// GetText returns the raw inner text of the run's w:t element.
// The text is returned as it appears in the XML, entities included.
// Runs without a text element yield the empty string.
func (r *Run) GetText(data []byte) string {
	if !r.HasText {
		return ""
	}
	start, end := r.Text.OpenTag.End, r.Text.CloseTag.Start
	if start > int64(len(data)) || end > int64(len(data)) || start > end {
		return ""
	}
	return string(data[start:end])
}

// PropertyBytes returns the raw w:rPr element of the run, or nil when unset.
func (r *Run) PropertyBytes(data []byte) []byte {
	if !r.HasProperties {
		return nil
	}
	return data[r.Properties.Start:r.Properties.End]
}

// RunProperties are the formatting attributes of a run which the notice template
// relies on. Attributes which are not set in the run's w:rPr stay zero-valued.
type RunProperties struct {
	Bold      bool
	Italic    bool
	Size      string // w:sz val, half-points
	Underline string // w:u val
	Color     string // w:color val
}

type rprToggle struct {
	Val *string `xml:"val,attr"`
}

func (t *rprToggle) on() bool {
	if t == nil {
		return false
	}
	return t.Val == nil || (*t.Val != "0" && *t.Val != "false")
}

type rprValue struct {
	Val string `xml:"val,attr"`
}

type rprXML struct {
	Bold      *rprToggle `xml:"b"`
	Italic    *rprToggle `xml:"i"`
	Size      *rprValue  `xml:"sz"`
	Underline *rprValue  `xml:"u"`
	Color     *rprValue  `xml:"color"`
}

// DecodeProperties decodes the run's w:rPr element into typed attributes.
// A run without properties decodes to the zero value.
func (r *Run) DecodeProperties(data []byte) (RunProperties, error) {
	var props RunProperties
	raw := r.PropertyBytes(data)
	if raw == nil {
		return props, nil
	}
	var decoded rprXML
	if err := xml.Unmarshal(raw, &decoded); err != nil {
		return props, fmt.Errorf("decoding run properties: %w", err)
	}
	props.Bold = decoded.Bold.on()
	props.Italic = decoded.Italic.on()
	if decoded.Size != nil {
		props.Size = decoded.Size.Val
	}
	if decoded.Underline != nil {
		props.Underline = decoded.Underline.Val
	}
	if decoded.Color != nil {
		props.Color = decoded.Color.Val
	}
	return props, nil
}
