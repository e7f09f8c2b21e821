package pipeline

import "raceresults/internal/rules"

// CorrectNames runs the rule set over the identity column. Other columns are
// copied unchanged.
func CorrectNames(t Table, rs *rules.Set) Table {
	out := t.Clone()
	for _, row := range out.Rows {
		if len(row) > 0 {
			row[0] = rs.Apply(row[0])
		}
	}
	return out
}
