package fingerprint

import (
	"testing"

	"github.com/byRen2002/decomment/internal/language"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commented = `// Package queue implements a bounded FIFO.
package queue

/* Queue holds items
   in insertion order. */
type Queue struct {
	items []int // backing store
	limit int
}

// Push appends v unless the queue is full.
func (q *Queue) Push(v int) bool {
	if len(q.items) >= q.limit { // full
		return false
	}
	q.items = append(q.items, v)
	return true
}

// Pop removes the oldest item.
func (q *Queue) Pop() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}
`

const bare = `package queue
type Queue struct {
    items []int
    limit int
}
func (q *Queue) Push(v int) bool {
    if len(q.items) >= q.limit {
        return false
    }
    q.items = append(q.items, v)
    return true
}
func (q *Queue) Pop() (int, bool) {
    if len(q.items) == 0 {
        return 0, false
    }
    v := q.items[0]
    q.items = q.items[1:]
    return v, true
}
`

const unrelated = `package render

import "strings"

func Banner(title string, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", width))
	b.WriteString("\n")
	pad := (width - len(title)) / 2
	b.WriteString(strings.Repeat(" ", pad) + strings.ToUpper(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", width))
	return b.String()
}
`

func goSpec(t *testing.T) *language.Spec {
	t.Helper()
	spec, err := language.Default().Get("go")
	require.NoError(t, err)
	return spec
}

func TestNormalize(t *testing.T) {
	got := Normalize("a := 1 // one\n\n\t/* two */ b  :=   2\n", goSpec(t))
	assert.Equal(t, "a := 1\nb := 2", got)

	// a removed comment still separates tokens
	assert.Equal(t, "a b", Normalize("a/*x*/b", goSpec(t)))
}

func TestCompute_IgnoresComments(t *testing.T) {
	spec := goSpec(t)

	f1, err := Compute(commented, spec)
	require.NoError(t, err)
	f2, err := Compute(bare, spec)
	require.NoError(t, err)

	assert.Equal(t, f1.String(), f2.String())
	assert.Equal(t, f1.Length, f2.Length)

	dist, err := f1.Distance(f2)
	require.NoError(t, err)
	assert.Equal(t, 0, dist)
}

func TestCompute_Different(t *testing.T) {
	spec := goSpec(t)

	f1, err := Compute(commented, spec)
	require.NoError(t, err)
	f2, err := Compute(unrelated, spec)
	require.NoError(t, err)

	assert.NotEqual(t, f1.String(), f2.String())
}

func TestCompute_TooSmall(t *testing.T) {
	_, err := Compute("// only a comment\npackage p\n", goSpec(t))
	require.ErrorIs(t, err, ErrTooSmall)
}

func TestDistance_Nil(t *testing.T) {
	f, err := Compute(bare, goSpec(t))
	require.NoError(t, err)

	_, err = f.Distance(nil)
	require.ErrorIs(t, err, ErrNilFingerprint)
}
