package workfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parse reads a workfile from r. Sections are separated by blank lines;
// lines starting with '#' are comments; any other line is a dated entry of
// the form "YYYY-MM-DD hours rate" with an optional trailing "#comment".
func Parse(r io.Reader) (*Workfile, error) {
	wf := &Workfile{}
	sec := &Section{}
	lineno := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if line == "" {
			if len(sec.Entries) > 0 {
				wf.Append(sec)
				sec = &Section{}
			}
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		sec.Append(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workfile: %w", err)
	}
	if len(sec.Entries) > 0 {
		wf.Append(sec)
	}

	return wf, nil
}

// ParseString parses a workfile held in a string.
func ParseString(s string) (*Workfile, error) {
	return Parse(strings.NewReader(s))
}

func parseLine(line string) (Entry, error) {
	if strings.HasPrefix(line, "#") {
		return &CommentEntry{Text: line[1:]}, nil
	}

	fields := strings.SplitN(line, " ", 4)
	if len(fields) < 3 {
		return nil, fmt.Errorf("malformed entry %q", line)
	}

	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", fields[0], err)
	}
	hours, err := decimal.NewFromString(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid hours %q: %w", fields[1], err)
	}
	rate, err := decimal.NewFromString(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", fields[2], err)
	}

	entry := &DatedEntry{Date: date, Hours: hours, Rate: rate, Prespaces: 1}
	if len(fields) == 4 {
		rest := fields[3]
		idx := strings.Index(rest, "#")
		if idx < 0 {
			return nil, fmt.Errorf("entry %q has trailing text without a comment marker", line)
		}
		entry.HasComment = true
		entry.Comment = rest[idx+1:]
		entry.Prespaces = strings.Count(rest[:idx], " ") + 1
	}

	return entry, nil
}
