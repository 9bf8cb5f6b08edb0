package match

// CandidateRow is one row of the external directory's search results table,
// reduced to the columns the scoring rule inspects.
type CandidateRow struct {
	// Row is the zero-based position of this row in the source table.
	// The grid renders spacer rows the driver drops, so this is the only
	// index safe to click by.
	Row      int
	Name     string
	DOB      string
	Sex      string
	Phone    string
	Address  string
	Provider string
}

// Decision is the terminal outcome of one search attempt.
type Decision struct {
	Matched bool
	// RowIndex is the accepted candidate's position in the source table,
	// or -1 when nothing matched.
	RowIndex int
	// Strategy records which cascade step confirmed the match.
	Strategy string
}
