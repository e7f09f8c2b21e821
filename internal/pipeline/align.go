package pipeline

// AlignColumns repairs drift caused by an optional field missing from the
// source rows. The first row is the sample: the first cell past DriftMinIndex
// that starts like a year (19/20 followed by two digits) gets an empty column
// inserted before it, in every row. The trailing year tag is never a sample.
func AlignColumns(t Table) Table {
	if len(t.Rows) == 0 {
		return t.Clone()
	}
	if i := driftIndex(t.Rows[0]); i >= 0 {
		return t.InsertColumn(i)
	}
	return t.Clone()
}

func driftIndex(row []string) int {
	for i := DriftMinIndex + 1; i < len(row)-1; i++ {
		if yearLikeStart(row[i]) {
			return i
		}
	}
	return -1
}

func yearLikeStart(s string) bool {
	if len(s) < 4 {
		return false
	}
	if s[:2] != "19" && s[:2] != "20" {
		return false
	}
	return isDigit(s[2]) && isDigit(s[3])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
