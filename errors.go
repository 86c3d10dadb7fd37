package restock

import "fmt"

// ValidationError reports a single malformed transaction record. Records are
// validated at ingestion: each offending row is reported individually and
// skipped, and the valid remainder of the ledger is still processed.
type ValidationError struct {
	Row    int    // 1-based row or line number in the source document
	Reason string // human readable reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// OverrollError reports a sell that exceeds the held quantity of a security.
// It is fatal to that security's consolidation: clamping the quantity or
// inverting the sign would corrupt the realized gain, so the engine stops
// folding that security and leaves its position as it was before the
// offending transaction. Other securities are unaffected.
type OverrollError struct {
	Security  string
	Date      Date
	Requested Quantity
	Held      Quantity
}

func (e *OverrollError) Error() string {
	return fmt.Sprintf("on %s, cannot sell %s of %s, position is only %s",
		e.Date, e.Requested, e.Security, e.Held)
}
