package stripper

import (
	"strings"
	"testing"

	"github.com/byRen2002/decomment/internal/language"
	"github.com/byRen2002/decomment/internal/scanner"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = map[string]string{
	"rust": `//! crate docs
/// Adds numbers.
fn add(a: i32, b: i32) -> i32 {
    a + b // sum
}
/* block
   comment */
`,
	"python": `"""Module docstring."""
import os  # stdlib

def f():
    '''doc'''
    return 1
`,
	"javascript": `/** JSDoc */
const x = 1; // one
/* unterminated`,
	"typescript": `/// <reference path="a.ts" />
let y: number = 2; /* two */
`,
	"java": `/** Javadoc */
class A { int x; // field
}
`,
	"c": `/* header */
int main(void) { return 0; } // done
`,
	"cpp": `/// brief
int f(); /* decl */
`,
	"go": `// Package p does things.
package p

/* block */ var x = 1 // trailing
`,
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		lang   string
		src    string
		policy Policy
		want   string
	}{
		{
			name:   "remove line comment",
			lang:   "go",
			src:    "a := 1 // one\nb := 2\n",
			policy: Remove,
			want:   "a := 1 \nb := 2\n",
		},
		{
			name:   "space keeps tokens apart",
			lang:   "c",
			src:    "a/*x*/b",
			policy: Space,
			want:   "a b",
		},
		{
			name:   "blank preserves line count",
			lang:   "c",
			src:    "a\n/* x\ny\n*/\nb",
			policy: Blank,
			want:   "a\n\n\n\nb",
		},
		{
			name:   "blank removes single-line comment content",
			lang:   "go",
			src:    "x // c\ny",
			policy: Blank,
			want:   "x \ny",
		},
		{
			name:   "unterminated comment runs to end",
			lang:   "javascript",
			src:    "let a; /* open\nstill open",
			policy: Remove,
			want:   "let a; ",
		},
		{
			name:   "nested markers end at first close",
			lang:   "c",
			src:    "/* a /* b */ c",
			policy: Remove,
			want:   " c",
		},
		{
			name:   "no comments is unchanged",
			lang:   "python",
			src:    "x = 1\n",
			policy: Remove,
			want:   "x = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strip(tt.src, tt.lang, tt.policy)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Strip() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStrip_UnknownLanguage(t *testing.T) {
	_, err := Strip("x", "cobol", Remove)
	require.ErrorIs(t, err, language.ErrUnknownLanguage)
}

func TestStrip_Idempotent(t *testing.T) {
	for _, policy := range []Policy{Remove, Space, Blank} {
		for lang, src := range samples {
			t.Run(policy.String()+"/"+lang, func(t *testing.T) {
				once, err := Strip(src, lang, policy)
				require.NoError(t, err)
				twice, err := Strip(once, lang, policy)
				require.NoError(t, err)
				if diff := cmp.Diff(once, twice); diff != "" {
					t.Errorf("second strip changed output (-once +twice):\n%s", diff)
				}

				spans, err := scanner.Scan(once, lang)
				require.NoError(t, err)
				assert.Empty(t, spans)
			})
		}
	}
}

func TestStrip_BlankKeepsLineNumbers(t *testing.T) {
	for lang, src := range samples {
		t.Run(lang, func(t *testing.T) {
			got, err := Strip(src, lang, Blank)
			require.NoError(t, err)
			assert.Equal(t, strings.Count(src, "\n"), strings.Count(got, "\n"))
		})
	}
}

func TestStripSpec_JoinedMarker(t *testing.T) {
	reg, err := language.Parse([]byte(`
ml:
  name: ML
  extensions: [ml]
  single_line:
    - pattern: "--"
  multi_line:
    - start: "(*"
      end: "*)"
`))
	require.NoError(t, err)
	spec, err := reg.Get("ml")
	require.NoError(t, err)

	src := "x -(* c *)- y\nz"
	assert.Equal(t, "x -- y\nz", Apply(src, scanner.All(src, spec), Remove))

	got := StripSpec(src, spec, Options{Policy: Remove})
	assert.Equal(t, "x \nz", got)
	assert.Equal(t, got, StripSpec(got, spec, Options{Policy: Remove}))
}

func TestStripSpec_StandaloneOnly(t *testing.T) {
	spec, err := language.Default().Get("go")
	require.NoError(t, err)

	src := "// head\nx := 1 // trailing\n  /* block */\n"
	got := StripSpec(src, spec, Options{Policy: Remove, StandaloneOnly: true})
	if diff := cmp.Diff("\nx := 1 // trailing\n  \n", got); diff != "" {
		t.Errorf("StripSpec() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_Subset(t *testing.T) {
	spec, err := language.Default().Get("go")
	require.NoError(t, err)

	src := "a // one\nb // two\n"
	spans := scanner.All(src, spec)
	require.Len(t, spans, 2)

	assert.Equal(t, "a // one\nb \n", Apply(src, spans[1:], Remove))
	assert.Equal(t, src, Apply(src, nil, Remove))
}

func TestStandalone(t *testing.T) {
	src := "  // a\nx // b"
	spec, err := language.Default().Get("go")
	require.NoError(t, err)

	spans := scanner.All(src, spec)
	require.Len(t, spans, 2)
	assert.True(t, Standalone(src, spans[0]))
	assert.False(t, Standalone(src, spans[1]))
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "remove", want: Remove},
		{in: "", want: Remove},
		{in: "Space", want: Space},
		{in: " blank ", want: Blank},
		{in: "erase", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, name string) Policy {
	t.Helper()
	p, err := ParsePolicy(name)
	require.NoError(t, err)
	return p
}
