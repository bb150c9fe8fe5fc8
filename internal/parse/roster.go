package parse

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"interview-scheduler-backend/internal/schedule"
)

// Column layout of a roster export. Column 0 holds the form's submission
// timestamp and is ignored.
const (
	colID = iota + 1
	colName
	colSibling
	colRequested

	minColumns = colRequested + 1
)

var (
	// ErrMalformedRow is matched by every MalformedRowError.
	ErrMalformedRow = errors.New("malformed import row")
	// ErrEmptyRoster is returned for a file without even a header row.
	ErrEmptyRoster = errors.New("roster file is empty")
)

// MalformedRowError describes the first row that could not be read.
type MalformedRowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// Options controls how requested times are read.
type Options struct {
	TimeLayout string
	Location   *time.Location
}

// ParseRoster reads a roster CSV. The first row is a header. Any bad row
// fails the whole file.
func ParseRoster(r io.Reader, opts Options) ([]schedule.Student, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var students []schedule.Student
	seen := make(map[int64]int)
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			if row == 0 {
				return nil, ErrEmptyRoster
			}
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &MalformedRowError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return nil, fmt.Errorf("failed to read roster: %w", err)
		}
		if row == 0 {
			continue
		}

		line, _ := reader.FieldPos(0)
		student, err := parseRow(record, line, opts)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[student.ID]; dup {
			return nil, &MalformedRowError{
				Line:   line,
				Column: "id",
				Value:  record[colID],
				Err:    fmt.Errorf("duplicate of line %d", first),
			}
		}
		seen[student.ID] = line
		students = append(students, student)
	}
	return students, nil
}

func parseRow(record []string, line int, opts Options) (schedule.Student, error) {
	if len(record) < minColumns {
		return schedule.Student{}, &MalformedRowError{
			Line: line,
			Err:  fmt.Errorf("expected at least %d columns, got %d", minColumns, len(record)),
		}
	}

	rawID := strings.TrimSpace(record[colID])
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return schedule.Student{}, &MalformedRowError{Line: line, Column: "id", Value: rawID, Err: err}
	}

	name := NormalizeName(record[colName])
	if name == "" {
		return schedule.Student{}, &MalformedRowError{Line: line, Column: "name", Err: errors.New("name is empty")}
	}

	siblings := schedule.NoSiblings()
	if strings.TrimSpace(record[colSibling]) != "" {
		siblings = schedule.SiblingPending()
	}

	requested, err := ParseTimes(record[colRequested], opts)
	if err != nil {
		return schedule.Student{}, &MalformedRowError{Line: line, Column: "requested", Value: record[colRequested], Err: err}
	}

	return schedule.Student{
		ID:        id,
		Name:      name,
		Requested: requested,
		Siblings:  siblings,
	}, nil
}

// ParseTimes splits a comma or semicolon separated list of timestamps.
func ParseTimes(raw string, opts Options) ([]time.Time, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })

	var out []time.Time
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := time.ParseInLocation(opts.TimeLayout, part, opts.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", part, err)
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.New("no requested times")
	}
	return out, nil
}
