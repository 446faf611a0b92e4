// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"
	"strings"

	"github.com/comalice/hsmx"
)

// Tick is the event every generated chart reacts to.
const Tick hsmx.EventKind = "tick"

// GenFlat creates a machine with n sibling leaves cycling via Tick.
func GenFlat(n int) (*hsmx.Machine, error) {
	if n < 1 {
		n = 1
	}
	b := hsmx.NewBuilder(fmt.Sprintf("flat_%d", n))
	b.Root().Initial("s0")
	for i := 0; i < n; i++ {
		b.State(fmt.Sprintf("s%d", i)).Transition(Tick, fmt.Sprintf("s%d", (i+1)%n))
	}
	return b.Build()
}

// GenDeep creates two chains of the given depth under the root. Tick flips between their
// leaves, so every transition exits and enters depth states.
func GenDeep(depth int) (*hsmx.Machine, error) {
	if depth < 1 {
		depth = 1
	}
	b := hsmx.NewBuilder(fmt.Sprintf("deep_%d", depth))
	left := chain("a", depth)
	right := chain("b", depth)
	b.State(left).Transition(Tick, right)
	b.State(right).Transition(Tick, left)

	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return m, m.TransitionTo(context.Background(), m.Find(left))
}

// GenBubbling creates a chain of the given depth whose leaf is active and whose root
// alone handles Tick, so every dispatch walks the full active path.
func GenBubbling(depth int) (*hsmx.Machine, error) {
	if depth < 1 {
		depth = 1
	}
	b := hsmx.NewBuilder(fmt.Sprintf("bubble_%d", depth))
	leaf := chain("c", depth)
	b.State(leaf)
	b.Root().Handle(Tick, func(_ context.Context, _ *hsmx.Machine, _ *hsmx.State, _ hsmx.Event) (bool, error) {
		return true, nil
	})
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	return m, m.TransitionTo(context.Background(), m.Find(leaf))
}

func chain(prefix string, depth int) string {
	segments := make([]string, depth)
	for i := range segments {
		segments[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(segments, ".")
}
