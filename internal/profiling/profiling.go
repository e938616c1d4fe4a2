// Package profiling accumulates wall-clock time per named section of a render
// pass so the slowest sections can be logged after each rebuild.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	counts = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("renderer.Draw")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		counts[name]++
		mu.Unlock()
	}
}

// Reset clears all recorded sections.
func Reset() {
	mu.Lock()
	clear(totals)
	clear(counts)
	mu.Unlock()
}

// Section is one tracked name with its accumulated time.
type Section struct {
	Name  string
	Total time.Duration
	Calls int
}

// Sections returns the recorded sections, slowest first.
func Sections() []Section {
	mu.Lock()
	out := make([]Section, 0, len(totals))
	for name, d := range totals {
		out = append(out, Section{Name: name, Total: d, Calls: counts[name]})
	}
	mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Name < out[j].Name
		}
		return out[i].Total > out[j].Total
	})
	return out
}

// SumWithPrefix totals every section whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for name, d := range totals {
		if strings.HasPrefix(name, prefix) {
			sum += d
		}
	}
	return sum
}

// TopN formats the n slowest sections, e.g.
// "scene.Assemble:4.2ms(1), renderer.markers:0.3ms(2)".
func TopN(n int) string {
	sections := Sections()
	if n > len(sections) {
		n = len(sections)
	}
	parts := make([]string, 0, n)
	for _, s := range sections[:n] {
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", s.Name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
