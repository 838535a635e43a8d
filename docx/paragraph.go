package docx

import "regexp"

// Paragraph is the w:p element: an ordered list of runs whose concatenated text
// is the paragraph's visible text. Like Run it is a positional view into the
// bytes of its document part; mutations are expressed as byte edits.
type Paragraph struct {
	OpenTag  Position
	CloseTag Position

	// Properties is the range of the w:pPr element, if present.
	Properties    Position
	HasProperties bool

	Runs []*Run
}

var jcValRegex = regexp.MustCompile(`<w:jc [^>]*w:val="([^"]*)"`)

// Text returns the paragraph's full visible text, the in-order concatenation of
// all run texts. The text is raw XML text, entities included.
func (p *Paragraph) Text(data []byte) string {
	var text string
	for _, run := range p.Runs {
		text += run.GetText(data)
	}
	return text
}

// PropertyBytes returns the raw w:pPr element of the paragraph, or nil when unset.
func (p *Paragraph) PropertyBytes(data []byte) []byte {
	if !p.HasProperties {
		return nil
	}
	return data[p.Properties.Start:p.Properties.End]
}

// Alignment returns the w:jc value of the paragraph, or the empty string when no
// explicit alignment is set.
func (p *Paragraph) Alignment(data []byte) string {
	raw := p.PropertyBytes(data)
	if raw == nil {
		return ""
	}
	match := jcValRegex.FindSubmatch(raw)
	if match == nil {
		return ""
	}
	return string(match[1])
}
