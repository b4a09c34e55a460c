package diff

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{"identical", "hello", "hello", "no changes"},
		{"pure insert", "hello", "hello world", "added 6 chars"},
		{"pure delete", "hello world", "hello", "removed 6 chars"},
		{"replace", "hello world", "hello there", "changed: +4 -4 chars"},
		{"from empty", "", "abc", "added 3 chars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.before, tt.after); got != tt.want {
				t.Errorf("Summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

// 任何不相等的输入都必须产生非空且非 "no changes" 的摘要
func TestSummarize_NeverEmptyForChanges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("changed text yields a real summary", prop.ForAll(
		func(base, extra string) bool {
			if extra == "" {
				return true
			}
			after := base + extra
			s := Summarize(base, after)
			return s != "" && s != "no changes" && strings.Contains(s, "chars")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
