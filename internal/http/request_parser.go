package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"memorizer/internal/core"
)

var (
	ErrUnknownEntryKind = errors.New("unknown entry type")
	ErrInvalidID        = errors.New("invalid id")
)

// maxBodyBytes bounds every request body the server reads.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput trims and drops control characters except tab, newline and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// QuickEntry is the parsed quick-entry form: exactly one of Shift or Song is meaningful.
type QuickEntry struct {
	Kind  core.EntryKind
	Shift core.Shift
	Song  core.Song
}

// Today is the local calendar day of now.
func Today(now time.Time) core.Date {
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseQuickEntry builds an entry from "date" and "type". An empty date means today.
// Optional fields override the quick-entry defaults.
func ParseQuickEntry(p *RequestBodyParser, today core.Date) (QuickEntry, error) {
	kind := core.EntryKind(p.Get("type"))
	if !kind.Valid() {
		return QuickEntry{}, fmt.Errorf("%w: %q", ErrUnknownEntryKind, kind)
	}

	d := today
	if raw := p.Get("date"); raw != "" {
		parsed, err := core.ParseDate(raw)
		if err != nil {
			return QuickEntry{}, err
		}
		d = parsed
	}

	entry := QuickEntry{Kind: kind}
	switch kind {
	case core.KindShift:
		entry.Shift = core.QuickShift(d)
		if v := p.Get("workerName"); v != "" {
			entry.Shift.WorkerName = v
		}
		for field, dst := range map[string]*core.Clock{
			"startTime": &entry.Shift.StartTime,
			"endTime":   &entry.Shift.EndTime,
		} {
			v := p.Get(field)
			if v == "" {
				continue
			}
			c, err := core.ParseClock(v)
			if err != nil {
				return QuickEntry{}, fmt.Errorf("%s: %w", field, err)
			}
			*dst = c
		}
	case core.KindSong:
		entry.Song = core.QuickSong(d)
		if v := p.Get("title"); v != "" {
			entry.Song.Title = v
		}
		if v := p.Get("artist"); v != "" {
			entry.Song.Artist = v
		}
		if v := p.Get("addedBy"); v != "" {
			entry.Song.AddedBy = v
		}
	}
	return entry, nil
}

// ParseID parses a positive entry id from a path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
