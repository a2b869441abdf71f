// Package rewrite performs length-preserving in-place line edits on
// generated files. Every edit replaces one line with a shorter body padded
// with trailing spaces to the original byte length, so no other byte offset
// in the file moves.
package rewrite

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const includeQuoted = `#include "`
const includeSystem = "#include <"

// Includes normalizes the contiguous block of quoted include directives at
// the head of a generated file: each `#include "<buildroot>/<marker><rest>"`
// becomes `#include "<rest>"`, padded to the original line length. System
// includes (`#include <...>`) and blank lines are skipped; the first other
// line after the quoted block ends the scan. A file without quoted includes
// is left untouched.
//
// A quoted include that does not contain marker is an error: publishing it
// would leak the internal build-root path, which is the exact defect this
// rewrite removes.
func Includes(path, marker string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		r       = bufio.NewReader(f)
		offset  int64
		inBlock bool
	)
	for {
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read %s: %w", path, err)
		}

		body, term := splitLine(line)
		switch {
		case strings.HasPrefix(body, includeSystem):
			// System includes are never rewritten.
		case strings.HasPrefix(body, includeQuoted):
			inBlock = true
			idx := strings.Index(body, marker)
			if idx < 0 {
				return fmt.Errorf("%s: quoted include without marker %q: %s", path, marker, body)
			}
			replacement := includeQuoted + body[idx+len(marker):]
			if err := writeLineAt(f, offset, replacement, len(body), term); err != nil {
				return fmt.Errorf("rewrite %s: %w", path, err)
			}
		case strings.TrimSpace(body) == "":
			// Blank lines do not end the block.
		default:
			if inBlock {
				return nil
			}
		}

		offset += int64(len(line))
		if err == io.EOF {
			return nil
		}
	}
}

// Stamp rewrites the first line of the docs file starting with prefix as
// `<prefix><commit[:10]>](<urlBase>/<commit>)`, padded to the original line
// length. Exactly one line is touched; a docs file without the stamp line is
// an error.
func Stamp(path, prefix, commit, urlBase string) error {
	if len(commit) < 10 {
		return fmt.Errorf("commit hash %q too short to stamp", commit)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		r      = bufio.NewReader(f)
		offset int64
	)
	for {
		line, err := r.ReadString('\n')
		if line == "" && err != nil {
			if err == io.EOF {
				return fmt.Errorf("%s: no line with stamp prefix %q", path, prefix)
			}
			return fmt.Errorf("read %s: %w", path, err)
		}

		body, term := splitLine(line)
		if strings.HasPrefix(body, prefix) {
			replacement := fmt.Sprintf("%s%s](%s/%s)", prefix, commit[:10], urlBase, commit)
			if err := writeLineAt(f, offset, replacement, len(body), term); err != nil {
				return fmt.Errorf("stamp %s: %w", path, err)
			}
			return nil
		}

		offset += int64(len(line))
		if err == io.EOF {
			return fmt.Errorf("%s: no line with stamp prefix %q", path, prefix)
		}
	}
}

// splitLine separates a raw line into its body and line terminator so edits
// can preserve the terminator byte-for-byte.
func splitLine(line string) (body, term string) {
	body = line
	if strings.HasSuffix(body, "\n") {
		body = body[:len(body)-1]
		term = "\n"
	}
	if strings.HasSuffix(body, "\r") {
		body = body[:len(body)-1]
		term = "\r" + term
	}
	return body, term
}

// writeLineAt writes replacement at offset, right-padded with spaces to
// width, followed by the original line terminator. The replacement must fit:
// growing a line would shift every byte after it.
func writeLineAt(f *os.File, offset int64, replacement string, width int, term string) error {
	if len(replacement) > width {
		return fmt.Errorf("replacement %q longer than original line (%d > %d)", replacement, len(replacement), width)
	}
	padded := replacement + strings.Repeat(" ", width-len(replacement)) + term
	if _, err := f.WriteAt([]byte(padded), offset); err != nil {
		return fmt.Errorf("write at offset %d: %w", offset, err)
	}
	return nil
}
