package types

// ReductionMetrics describes the size change produced by a transformation.
// Percentages may be zero or negative; a transformation that grows the
// document reports a negative reduction.
type ReductionMetrics struct {
	OriginalLines        int     `json:"original_lines"`
	ResultLines          int     `json:"result_lines"`
	OriginalBytes        int     `json:"original_bytes"`
	ResultBytes          int     `json:"result_bytes"`
	PercentLineReduction float64 `json:"percent_line_reduction"`
	PercentByteReduction float64 `json:"percent_byte_reduction"`
}
