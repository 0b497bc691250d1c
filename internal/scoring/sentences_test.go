package scoring

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_Split(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single without terminal", cloudResume, []string{cloudResume}},
		{"two sentences", "Built APIs in Go. Enjoys hiking.", []string{"Built APIs in Go.", "Enjoys hiking."}},
		{"question and exclamation", "Ready? Yes! Go.", []string{"Ready?", "Yes!", "Go."}},
		{"abbreviation", "Worked with Dr. Smith on ML. Shipped it.", []string{"Worked with Dr. Smith on ML.", "Shipped it."}},
		{"decimal", "Improved latency 2.5x overall. Done.", []string{"Improved latency 2.5x overall.", "Done."}},
		{"blank line breaks", "Summary line\n\nExperience line", []string{"Summary line", "Experience line"}},
		{"single newline joins", "first part\nsecond part", []string{"first part second part"}},
		{"whitespace only", "  \n\t ", nil},
	}
	s := NewSplitter()
	require.NoError(t, s.load())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Split(tt.in))
		})
	}
}

func TestSplitter_SharedAcrossGoroutines(t *testing.T) {
	s := NewSplitter()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, s.Split("Built APIs in Go. Enjoys hiking."), 2)
		}()
	}
	wg.Wait()
}
