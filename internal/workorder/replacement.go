package workorder

import (
	"fmt"
	"time"

	"github.com/knakagawa/harigami/docx"
)

// weekdayGlyphs maps weekdays to the single-character glyphs used in the notice
// date line. The mapping is fixed; the date format is not locale-configurable.
var weekdayGlyphs = map[time.Weekday]string{
	time.Monday:    "月",
	time.Tuesday:   "火",
	time.Wednesday: "水",
	time.Thursday:  "木",
	time.Friday:    "金",
	time.Saturday:  "土",
	time.Sunday:    "日",
}

// Replacements derives the substitution values for one valid record:
// the date as "{month}月{day}日（{weekday}）", start and end as zero-padded
// 24-hour "HH:MM", and the trimmed property name.
func (r Record) Replacements() docx.Replacements {
	return docx.Replacements{
		docx.FieldDate: fmt.Sprintf("%d月%d日（%s）",
			int(r.Start.Month()), r.Start.Day(), weekdayGlyphs[r.Start.Weekday()]),
		docx.FieldStartTime: r.Start.Format("15:04"),
		docx.FieldEndTime:   r.End.Format("15:04"),
		docx.FieldName:      r.Name,
	}
}
