package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ir.cpp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// lineLengths returns the byte length of every line, terminators included.
func lineLengths(s string) []int {
	var out []int
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, len(s))
			break
		}
		out = append(out, i+1)
		s = s[i+1:]
	}
	return out
}

func TestIncludesRewritesQuotedBlock(t *testing.T) {
	in := "#include <iostream>\n" +
		"#include \"root/jule/pkg/x.h\"\n" +
		"#include \"root/jule/api/jule.hpp\"\n" +
		"\n" +
		"int main() { return 0; }\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	out := readBack(t, path)

	assert.Len(t, out, len(in), "total file length must be preserved")
	assert.Equal(t, lineLengths(in), lineLengths(out), "every line keeps its byte length")
	lines := strings.Split(out, "\n")
	assert.Equal(t, "#include <iostream>", lines[0])
	assert.Equal(t, "#include \"pkg/x.h\"", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "#include \"api/jule.hpp\"", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "int main() { return 0; }", lines[4])
}

func TestIncludesPadsToOriginalLength(t *testing.T) {
	in := "#include \"root/jule/pkg/x.h\"\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))

	want := "#include \"pkg/x.h\"" + strings.Repeat(" ", len(in)-1-len("#include \"pkg/x.h\"")) + "\n"
	assert.Equal(t, want, readBack(t, path))
}

func TestIncludesNoQuotedBlockIsNoOp(t *testing.T) {
	in := "#include <cstdint>\n#include <vector>\n\nnamespace jule {}\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	assert.Equal(t, in, readBack(t, path), "file must be byte-identical")
}

func TestIncludesStopsAfterBlock(t *testing.T) {
	// A quoted-include-looking line after the block ends must stay untouched.
	in := "#include \"root/jule/a.h\"\n" +
		"typedef int i32;\n" +
		"#include \"root/jule/late.h\"\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	out := readBack(t, path)

	assert.Equal(t, "#include \"a.h\"", strings.TrimRight(strings.Split(out, "\n")[0], " "))
	assert.Contains(t, out, "#include \"root/jule/late.h\"\n")
}

func TestIncludesBlankLinesInsideBlock(t *testing.T) {
	in := "#include \"root/jule/a.h\"\n" +
		"\n" +
		"#include \"root/jule/b.h\"\n" +
		"code\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	out := readBack(t, path)

	assert.Equal(t, "#include \"b.h\"", strings.TrimRight(strings.Split(out, "\n")[2], " "))
}

func TestIncludesMissingMarkerIsError(t *testing.T) {
	path := writeFixture(t, "#include \"somewhere/else.h\"\n")

	err := Includes(path, "jule/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without marker")
}

func TestIncludesPreservesCRLF(t *testing.T) {
	in := "#include \"root/jule/pkg/x.h\"\r\ncode\r\n"
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	out := readBack(t, path)

	assert.Len(t, out, len(in))
	assert.True(t, strings.HasPrefix(out, "#include \"pkg/x.h\""))
	assert.Contains(t, out, " \r\ncode\r\n")
}

func TestIncludesEmptyFile(t *testing.T) {
	path := writeFixture(t, "")
	require.NoError(t, Includes(path, "jule/"))
	assert.Equal(t, "", readBack(t, path))
}

func TestIncludesFinalLineWithoutNewline(t *testing.T) {
	in := "#include \"root/jule/x.h\""
	path := writeFixture(t, in)

	require.NoError(t, Includes(path, "jule/"))
	out := readBack(t, path)

	assert.Len(t, out, len(in))
	assert.Equal(t, "#include \"x.h\"", strings.TrimRight(out, " "))
}

const stampDoc = "# julec-ir\n" +
	"\n" +
	"IR version: [0000000000](https://github.com/julelang/jule/tree/0000000000000000000000000000000000000000)\n" +
	"Other line.\n"

func TestStampRewritesFirstMatchOnly(t *testing.T) {
	commit := "abcdef0123456789abcdef0123456789abcdef01"
	doc := stampDoc + "IR version: [decoy](x)\n"
	path := writeFixture(t, doc)

	require.NoError(t, Stamp(path, "IR version: [", commit, "https://github.com/julelang/jule/tree"))
	out := readBack(t, path)

	assert.Len(t, out, len(doc))
	assert.Contains(t, out, "IR version: [abcdef0123](https://github.com/julelang/jule/tree/"+commit+")")
	assert.Contains(t, out, "IR version: [decoy](x)\n", "later matches stay untouched")

	// All other lines are byte-identical.
	inLines := strings.Split(doc, "\n")
	outLines := strings.Split(out, "\n")
	require.Len(t, outLines, len(inLines))
	for i := range inLines {
		if i == 2 {
			continue
		}
		assert.Equal(t, inLines[i], outLines[i], "line %d", i)
	}
}

func TestStampMissingPrefixIsError(t *testing.T) {
	path := writeFixture(t, "# readme\nno stamp here\n")

	err := Stamp(path, "IR version: [", strings.Repeat("a", 40), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stamp prefix")
}

func TestStampReplacementMustFit(t *testing.T) {
	path := writeFixture(t, "IR version: [x](y)\n")

	err := Stamp(path, "IR version: [", strings.Repeat("a", 40), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longer than original")
}

func TestStampShortCommitIsError(t *testing.T) {
	path := writeFixture(t, stampDoc)
	assert.Error(t, Stamp(path, "IR version: [", "abc", "https://example.com"))
}
