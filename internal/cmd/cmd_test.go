package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `// Package demo is a demo.
package demo

/* Answer returns the answer. */
func Answer() int {
	return 42 // always
}

func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
`

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(t *testing.T, c *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t, rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanCommand(t *testing.T) {
	path := writeSample(t, "demo.go", sample)

	out, err := execute(t, "scan", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "// Package demo is a demo.")
	assert.Contains(t, out, "/* Answer returns the answer. */")
	assert.Contains(t, out, "3 comment(s)")
}

func TestRemoveCommand(t *testing.T) {
	path := writeSample(t, "demo.go", sample)

	out, err := execute(t, "remove", "--auto", "--force", "--policy", "blank", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully removed comments from")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "//")
	assert.NotContains(t, string(data), "/*")
	assert.Equal(t, strings.Count(sample, "\n"), strings.Count(string(data), "\n"))
	assert.NoFileExists(t, path+".bak")
}

func TestFingerprintCommand(t *testing.T) {
	commented := writeSample(t, "a.go", sample)
	bare := writeSample(t, "b.go", `package demo

func Answer() int {
	return 42
}

func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
`)

	out, err := execute(t, "fingerprint", commented, bare)
	require.NoError(t, err)
	assert.Contains(t, out, "Distance: 0")
}

func TestLanguagesCommand(t *testing.T) {
	out, err := execute(t, "languages")
	require.NoError(t, err)

	for _, name := range []string{"rust", "python", "javascript", "typescript", "java", "c", "cpp", "go"} {
		assert.Contains(t, out, "["+name+"]")
	}
	assert.Less(t, strings.Index(out, "[rust]"), strings.Index(out, "[go]"))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "/* a b */", snippet("/* a\n   b */"))
	long := strings.Repeat("x", 100)
	assert.Len(t, snippet(long), snippetLength)
}

func TestRemoveCommand_UnknownLanguage(t *testing.T) {
	path := writeSample(t, "demo.go", sample)

	_, err := execute(t, "remove", "--auto", "--lang", "cobol", path)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}

func TestRemoveCommand_FlagsDoNotLeak(t *testing.T) {
	first := writeSample(t, "first.go", sample)
	_, err := execute(t, "remove", "--auto", "--force", "--dry-run", "--policy", "space", first)
	require.NoError(t, err)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))

	second := writeSample(t, "second.go", sample)
	out, err := execute(t, "remove", "--auto", second)
	require.NoError(t, err)
	assert.Contains(t, out, "Created backup file")

	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "//")
	assert.True(t, strings.HasPrefix(string(data), "\npackage demo"))
	assert.Contains(t, string(data), "\treturn 42 \n")
	assert.FileExists(t, second+".bak")
}

func TestShowComment(t *testing.T) {
	var out bytes.Buffer
	showComment(&out, "main.go", "// note")

	assert.Contains(t, out.String(), "Found comment in main.go:")
	assert.Contains(t, out.String(), "// note")
}
