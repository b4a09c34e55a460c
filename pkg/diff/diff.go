// Package diff 基于 diff-match-patch 计算文本变更摘要
package diff

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summarize computes a short human readable summary of the change
// between two versions of a text.
// Summarize 计算两个文本版本之间变更的简短摘要
func Summarize(before, after string) string {
	if before == after {
		return "no changes"
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)

	var inserted, deleted int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			deleted += len([]rune(d.Text))
		}
	}

	switch {
	case inserted > 0 && deleted > 0:
		return fmt.Sprintf("changed: +%d -%d chars", inserted, deleted)
	case inserted > 0:
		return fmt.Sprintf("added %d chars", inserted)
	default:
		return fmt.Sprintf("removed %d chars", deleted)
	}
}
