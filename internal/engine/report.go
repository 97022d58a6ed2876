package engine

import (
	"fmt"
	"io"

	"github.com/dshills/cfnslim/internal/metrics"
	"github.com/dshills/cfnslim/pkg/types"
)

// WriteSummary prints the human-readable run report
func WriteSummary(w io.Writer, stats *Statistics) error {
	if stats.Split != nil {
		if err := writeSplit(w, stats); err != nil {
			return err
		}
	}

	if stats.Optimized != nil {
		if err := metrics.Write(w, "Optimization Results", *stats.OptimizeMetrics); err != nil {
			return err
		}
		if err := metrics.WriteFeasibility(w, stats.Optimized.LineCount(),
			stats.Optimized.LineThreshold, stats.Optimized.ByteCount()); err != nil {
			return err
		}
		fmt.Fprintf(w, "  Removed: %d comment lines, %d dividers, %d inline comments, %d blank lines\n",
			stats.Optimized.CommentLinesDropped, stats.Optimized.DividersDropped,
			stats.Optimized.InlineCommentsStripped, stats.Optimized.BlankLinesCollapsed)
		if !stats.DryRun {
			fmt.Fprintf(w, "  Wrote %s\n", stats.OptimizedPath)
		}
	}

	return nil
}

func writeSplit(w io.Writer, stats *Statistics) error {
	result := stats.Split

	fmt.Fprintf(w, "Split Results: %d of %d sections\n",
		len(result.Documents), len(result.Documents)+len(result.Skipped))
	for i, d := range result.Documents {
		dest := d.Filename
		if i < len(stats.SplitPaths) {
			dest = stats.SplitPaths[i]
		}
		lines := types.NewDocument(dest, d.Content).LineCount()
		fmt.Fprintf(w, "  %s (%d lines)\n", dest, lines)
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "  Warning: skipped %s: %v\n", s.Name, s.Err)
	}
	for _, m := range result.Malformed {
		fmt.Fprintf(w, "  Warning: %s is not well-formed: %v\n", m.Name, m.Err)
	}
	if result.Coverage != nil {
		fmt.Fprintf(w, "  Coverage: %d gaps, %d overlaps\n",
			len(result.Coverage.Gaps), len(result.Coverage.Overlaps))
	}

	return metrics.Write(w, "Split Size", *stats.SplitMetrics)
}
