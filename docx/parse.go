package docx

import (
	"encoding/xml"
	"fmt"
	"io"
)

// parseParagraphs scans one document part and returns its paragraph tree.
//
// The scan walks the XML token stream over a byte-exact reader, so every tag can
// be pinned to its byte range inside the part. Start tags are located by walking
// backwards from the decoder position to the opening '<', which stays correct for
// tags carrying attributes ('<' cannot appear inside attribute values).
//
// Paragraphs inside table cells are ordinary w:p elements and are picked up by
// the same scan, in document order. DrawingML subtrees are skipped because they
// reuse the local names p, r and t for their own elements.
func parseParagraphs(data []byte) ([]*Paragraph, error) {
	reader := newPosReader(string(data))
	decoder := xml.NewDecoder(reader)

	var (
		paragraphs []*Paragraph
		para       *Paragraph
		run        *Run
		inPPr      bool
		pPrStart   int64
		rPrStart   int64
		inRPr      bool
		inText     bool
		drawing    int
	)

	// self-closing tags emit a synthetic EndElement at the same position; the
	// open handler deals with both ends at once, so the synthetic event is dropped
	skipEnd := make(map[string]int)

	tagStart := func(end int64) int64 {
		i := end - 1
		for i >= 0 && data[i] != '<' {
			i--
		}
		return i
	}

	for {
		tok, err := decoder.Token()
		if tok == nil || err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading token: %w", err)
		}

		switch elem := tok.(type) {
		case xml.StartElement:
			name := elem.Name.Local
			end := reader.Pos()
			pos := Position{Start: tagStart(end), End: end}
			self := end >= 2 && data[end-2] == '/'

			if name == "drawing" || name == "AlternateContent" {
				drawing++
				continue
			}
			if drawing > 0 {
				continue
			}

			switch name {
			case "p":
				para = &Paragraph{OpenTag: pos}
				if self {
					para.CloseTag = pos
					paragraphs = append(paragraphs, para)
					para = nil
					skipEnd[name]++
				}
			case "pPr":
				if para == nil || run != nil {
					continue
				}
				if self {
					para.Properties = pos
					para.HasProperties = true
					skipEnd[name]++
					continue
				}
				inPPr = true
				pPrStart = pos.Start
			case "r":
				if para == nil || inPPr {
					continue
				}
				run = &Run{OpenTag: pos}
				if self {
					run.CloseTag = pos
					para.Runs = append(para.Runs, run)
					run = nil
					skipEnd[name]++
				}
			case "rPr":
				if run == nil || inPPr {
					continue
				}
				if self {
					run.Properties = pos
					run.HasProperties = true
					skipEnd[name]++
					continue
				}
				inRPr = true
				rPrStart = pos.Start
			case "t":
				// only the first w:t of a run is tracked; additional text
				// children stay untouched by replacement
				if run == nil || inPPr || run.HasText {
					if self {
						skipEnd[name]++
					}
					continue
				}
				if self {
					// an empty <w:t/> carries no text and cannot receive one
					skipEnd[name]++
					continue
				}
				run.HasText = true
				run.Text.OpenTag = pos
				inText = true
			}

		case xml.EndElement:
			name := elem.Name.Local
			if skipEnd[name] > 0 {
				skipEnd[name]--
				continue
			}
			end := reader.Pos()
			pos := Position{Start: tagStart(end), End: end}

			if name == "drawing" || name == "AlternateContent" {
				if drawing > 0 {
					drawing--
				}
				continue
			}
			if drawing > 0 {
				continue
			}

			switch name {
			case "p":
				if para == nil {
					continue
				}
				para.CloseTag = pos
				paragraphs = append(paragraphs, para)
				para = nil
			case "pPr":
				if para == nil || !inPPr {
					continue
				}
				para.Properties = Position{Start: pPrStart, End: pos.End}
				para.HasProperties = true
				inPPr = false
			case "r":
				if para == nil || run == nil {
					continue
				}
				run.CloseTag = pos
				para.Runs = append(para.Runs, run)
				run = nil
			case "rPr":
				if run == nil || !inRPr {
					continue
				}
				run.Properties = Position{Start: rPrStart, End: pos.End}
				run.HasProperties = true
				inRPr = false
			case "t":
				if run == nil || !inText {
					continue
				}
				run.Text.CloseTag = pos
				inText = false
			}
		}
	}

	return paragraphs, nil
}
