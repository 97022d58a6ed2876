// Package metrics computes and prints size reduction statistics.
package metrics

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/dshills/cfnslim/pkg/types"
)

// Report computes reduction metrics between two documents
func Report(before, after *types.Document) types.ReductionMetrics {
	return Compute(before.LineCount(), after.LineCount(), before.ByteCount(), after.ByteCount())
}

// ReportMany computes metrics for a source split into several documents.
// The result side is the sum over all outputs.
func ReportMany(before *types.Document, after []*types.Document) types.ReductionMetrics {
	lines, bytes := 0, 0
	for _, doc := range after {
		lines += doc.LineCount()
		bytes += doc.ByteCount()
	}
	return Compute(before.LineCount(), lines, before.ByteCount(), bytes)
}

// Compute derives percentages from raw counts. Line and byte percentages are
// independent; negative values mean the result grew.
func Compute(originalLines, resultLines, originalBytes, resultBytes int) types.ReductionMetrics {
	return types.ReductionMetrics{
		OriginalLines:        originalLines,
		ResultLines:          resultLines,
		OriginalBytes:        originalBytes,
		ResultBytes:          resultBytes,
		PercentLineReduction: percent(originalLines, resultLines),
		PercentByteReduction: percent(originalBytes, resultBytes),
	}
}

func percent(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}

// Write prints a human-readable summary of m under label
func Write(w io.Writer, label string, m types.ReductionMetrics) error {
	_, err := fmt.Fprintf(w,
		"%s:\n  Lines: %s → %s (%.1f%% reduction)\n  Size: %s → %s bytes (%.1f%% reduction)\n",
		label,
		humanize.Comma(int64(m.OriginalLines)), humanize.Comma(int64(m.ResultLines)), m.PercentLineReduction,
		humanize.Comma(int64(m.OriginalBytes)), humanize.Comma(int64(m.ResultBytes)), m.PercentByteReduction,
	)
	return err
}

// WriteFeasibility prints the advisory line threshold verdict
func WriteFeasibility(w io.Writer, lines, threshold, bytes int) error {
	verdict := "below"
	if lines >= threshold {
		verdict = "at or above"
	}
	_, err := fmt.Fprintf(w, "  Feasibility: %s lines (%s) is %s the %s line threshold\n",
		humanize.Comma(int64(lines)), humanize.Bytes(uint64(bytes)), verdict, humanize.Comma(int64(threshold)))
	return err
}
