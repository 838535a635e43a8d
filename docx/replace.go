package docx

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// FieldKey is the symbolic key of a placeholder token.
type FieldKey string

const (
	FieldDate      FieldKey = "DATE"
	FieldStartTime FieldKey = "START_TIME"
	FieldEndTime   FieldKey = "END_TIME"
	FieldName      FieldKey = "NAME"
)

// centered reports whether a field carries a date or time value. Paragraphs
// receiving such a value are center-aligned.
func (k FieldKey) centered() bool {
	return k == FieldDate || k == FieldStartTime || k == FieldEndTime
}

// Placeholder binds one literal token, as it appears in the notice template, to
// its symbolic field key.
type Placeholder struct {
	Token string
	Key   FieldKey
}

// DefaultPlaceholders is the fixed placeholder table of the notice template.
// Iteration order is the declaration order. The table is read-only and shared by
// all generation runs.
var DefaultPlaceholders = []Placeholder{
	{Token: "［10月　19日（水）］", Key: FieldDate},
	{Token: "［10:00］", Key: FieldStartTime},
	{Token: "［11:00］", Key: FieldEndTime},
	{Token: "［物件名］", Key: FieldName},
}

// Replacements maps field keys to the literal values substituted into one
// document instance. A key missing from the map leaves the corresponding token
// in place; that is a recoverable divergence, not an error.
type Replacements map[FieldKey]string

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// edit is a single byte splice within a document part: the range pos is replaced
// by value. An insertion is an edit with an empty range.
type edit struct {
	pos   Position
	value []byte
}

// replaceParagraph substitutes every placeholder token present in the
// paragraph's visible text and reports the edits to apply plus whether the
// paragraph must be center-aligned.
//
// For each token of the table, in declaration order:
//   - the first run whose own text contains the token receives an in-run
//     replacement of all its occurrences; the run's w:rPr is untouched by the
//     splice, so its formatting survives as-is;
//   - if the token still occurs in the recomputed full text it was split across
//     run boundaries: all run texts are merged, every occurrence replaced, the
//     result assigned to the first text-bearing run and every later run cleared.
//     The replaced span collapses to the first run's formatting.
//
// Substitution is not idempotent: a replacement value containing a literal token
// is picked up again by a later pass.
func replaceParagraph(data []byte, p *Paragraph, table []Placeholder, values Replacements) ([]edit, bool) {
	original := make([]string, len(p.Runs))
	for i, run := range p.Runs {
		original[i] = run.GetText(data)
	}
	texts := append([]string(nil), original...)

	center := false
	for _, ph := range table {
		full := strings.Join(texts, "")
		if !strings.Contains(full, ph.Token) {
			continue
		}
		if ph.Key.centered() {
			center = true
		}
		value, ok := values[ph.Key]
		if !ok {
			continue
		}
		escaped := xmlEscaper.Replace(value)

		// in-run attempt: only the first run containing the whole token
		for i := range texts {
			if strings.Contains(texts[i], ph.Token) {
				texts[i] = strings.ReplaceAll(texts[i], ph.Token, escaped)
				break
			}
		}

		// cross-run fallback: the token was split over run boundaries
		full = strings.Join(texts, "")
		if strings.Contains(full, ph.Token) {
			merged := strings.ReplaceAll(full, ph.Token, escaped)
			assigned := false
			for i, run := range p.Runs {
				if !run.HasText {
					continue
				}
				if !assigned {
					texts[i] = merged
					assigned = true
					continue
				}
				texts[i] = ""
			}
		}
	}

	var edits []edit
	for i, run := range p.Runs {
		if texts[i] == original[i] {
			continue
		}
		edits = append(edits, edit{
			pos:   Position{Start: run.Text.OpenTag.End, End: run.Text.CloseTag.Start},
			value: []byte(texts[i]),
		})
	}
	if center {
		if e, ok := centerEdit(data, p); ok {
			edits = append(edits, e)
		}
	}
	return edits, center
}

const centerJc = `<w:jc w:val="center"/>`

// centerEdit yields the edit which sets the paragraph alignment to centered.
// The second return is false when the paragraph is already centered.
func centerEdit(data []byte, p *Paragraph) (edit, bool) {
	if !p.HasProperties {
		// no w:pPr yet, create one right after the paragraph open tag
		return edit{
			pos:   Position{Start: p.OpenTag.End, End: p.OpenTag.End},
			value: []byte("<w:pPr>" + centerJc + "</w:pPr>"),
		}, true
	}

	pPr := p.PropertyBytes(data)
	base := p.Properties.Start

	if idx := bytes.Index(pPr, []byte("<w:jc")); idx >= 0 {
		end := jcEnd(pPr, idx)
		if string(pPr[idx:end]) == centerJc {
			return edit{}, false
		}
		return edit{
			pos:   Position{Start: base + int64(idx), End: base + int64(end)},
			value: []byte(centerJc),
		}, true
	}

	if bytes.HasSuffix(pPr, []byte("/>")) {
		// self-closing <w:pPr/>, rewrite the whole element
		return edit{
			pos:   p.Properties,
			value: []byte("<w:pPr>" + centerJc + "</w:pPr>"),
		}, true
	}

	// w:jc must precede the paragraph-mark run properties inside w:pPr
	at := len(pPr) - len("</w:pPr>")
	if idx := bytes.Index(pPr, []byte("<w:rPr")); idx >= 0 {
		at = idx
	}
	return edit{
		pos:   Position{Start: base + int64(at), End: base + int64(at)},
		value: []byte(centerJc),
	}, true
}

// jcEnd returns the offset just past the w:jc element starting at idx.
func jcEnd(pPr []byte, idx int) int {
	gt := bytes.IndexByte(pPr[idx:], '>')
	if gt < 0 {
		return len(pPr)
	}
	end := idx + gt + 1
	if pPr[end-2] == '/' {
		return end
	}
	off := bytes.Index(pPr[end:], []byte("</w:jc>"))
	if off < 0 {
		return end
	}
	return end + off + len("</w:jc>")
}

// applyEdits splices all edits into data. Edits are applied in descending start
// order so earlier offsets never go stale; the ranges are guaranteed disjoint by
// construction (one per run text, at most one per paragraph alignment).
func applyEdits(data []byte, edits []edit) []byte {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].pos.Start > edits[j].pos.Start
	})
	for _, e := range edits {
		patched := make([]byte, 0, int64(len(data))+int64(len(e.value))-(e.pos.End-e.pos.Start))
		patched = append(patched, data[:e.pos.Start]...)
		patched = append(patched, e.value...)
		patched = append(patched, data[e.pos.End:]...)
		data = patched
	}
	return data
}

// ReplaceAll applies run-aware substitution to every paragraph of every
// modifiable part: the body (including table cells) first, then headers, then
// footers. Parts whose bytes change are re-parsed so the paragraph views stay
// consistent for further calls.
func (d *Document) ReplaceAll(table []Placeholder, values Replacements) error {
	for _, name := range d.partNames {
		data := d.parts[name]

		var edits []edit
		for _, para := range d.paragraphs[name] {
			paraEdits, _ := replaceParagraph(data, para, table, values)
			edits = append(edits, paraEdits...)
		}
		if len(edits) == 0 {
			continue
		}

		d.parts[name] = applyEdits(data, edits)
		paragraphs, err := parseParagraphs(d.parts[name])
		if err != nil {
			return fmt.Errorf("re-parsing %s after replacement: %w", name, err)
		}
		d.paragraphs[name] = paragraphs
	}
	return nil
}

// ContainsTokens reports whether any token of the table occurs in the visible
// text of any modifiable part. Used to warn about templates which would produce
// unchanged notices.
func (d *Document) ContainsTokens(table []Placeholder) bool {
	for _, name := range d.partNames {
		plain := Plaintext(d.parts[name])
		for _, ph := range table {
			if strings.Contains(plain, ph.Token) {
				return true
			}
		}
	}
	return false
}
