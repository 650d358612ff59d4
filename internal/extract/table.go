package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/invoscan/invoscan/internal/recognize"
)

// rowBucketHeight is the coarse vertical bucket used to group blocks into
// pseudo-rows; blocks whose tops fall in the same bucket are treated as one
// table row.
const rowBucketHeight = 50.0

// extractFromTable groups text blocks into pseudo-rows by vertical position
// and records a quantity field when a row of three or more numeric columns
// is found.
func extractFromTable(blocks []recognize.Block, fields map[string]Field) {
	rows := make(map[int][]recognize.Block)
	for _, b := range blocks {
		if b.Box == nil {
			continue
		}
		bucket := int(b.Box.Top / rowBucketHeight)
		rows[bucket] = append(rows[bucket], b)
	}

	buckets := make([]int, 0, len(rows))
	for k := range rows {
		buckets = append(buckets, k)
	}
	sort.Ints(buckets)

	for _, bucket := range buckets {
		row := rows[bucket]
		if len(row) < 2 {
			continue
		}
		sort.Slice(row, func(i, j int) bool { return row[i].Box.Left < row[j].Box.Left })

		if len(row) < 3 || !allNumeric(row) {
			continue
		}

		name := string(FieldQuantity)
		if _, ok := fields[name]; ok {
			return
		}
		value := strings.TrimSpace(row[0].Text)
		box := *row[0].Box
		fields[name] = Field{
			Type:         FieldQuantity,
			RawValue:     value,
			Value:        value,
			Confidence:   confTableRow,
			Box:          &box,
			SourceBlocks: []string{row[0].ID},
		}
		return
	}
}

func allNumeric(row []recognize.Block) bool {
	for _, b := range row {
		s := strings.ReplaceAll(strings.TrimSpace(b.Text), ",", "")
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
	}
	return true
}
