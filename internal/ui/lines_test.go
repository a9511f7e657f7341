package ui

import (
	"reflect"
	"testing"

	"github.com/imsjrhowa/LogViewer/internal/filter"
	"github.com/imsjrhowa/LogViewer/internal/tail"
)

func fileInfo(path string) tail.Info {
	return tail.Info{Path: path, Open: true, Offset: 2048, Size: 4096, Encoding: "utf-8", Source: tail.SourceDefault}
}

func TestSplitSpans(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		spans []filter.Span
		want  []segment
	}{
		{
			name: "no spans",
			line: "plain",
			want: []segment{{text: "plain"}},
		},
		{
			name:  "middle",
			line:  "an error here",
			spans: []filter.Span{{Start: 3, End: 8}},
			want:  []segment{{text: "an "}, {text: "error", match: true}, {text: " here"}},
		},
		{
			name:  "whole line",
			line:  "WARN",
			spans: []filter.Span{{Start: 0, End: 4}},
			want:  []segment{{text: "WARN", match: true}},
		},
		{
			name:  "several with adjacent",
			line:  "abab",
			spans: []filter.Span{{Start: 0, End: 2}, {Start: 2, End: 4}},
			want:  []segment{{text: "ab", match: true}, {text: "ab", match: true}},
		},
		{
			name:  "multibyte",
			line:  "größe fehler",
			spans: []filter.Span{{Start: 8, End: 14}},
			want:  []segment{{text: "größe "}, {text: "fehler", match: true}},
		},
		{
			name:  "clamped past end",
			line:  "short",
			spans: []filter.Span{{Start: 3, End: 99}},
			want:  []segment{{text: "sho"}, {text: "rt", match: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSpans(tt.line, tt.spans)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("splitSpans(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLevelRe(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"2024-01-01 12:00:00 ERROR disk full", "ERROR"},
		{"[WARNING] low memory", "WARNING"},
		{"level=INFO msg=ok", "INFO"},
		{"INFORMATION only", ""},
		{"no level", ""},
	}
	for _, tt := range tests {
		got := ""
		if loc := levelRe.FindStringSubmatch(tt.line); loc != nil {
			got = loc[1]
		}
		if got != tt.want {
			t.Fatalf("level in %q = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestEncodingLabel(t *testing.T) {
	tests := []struct {
		info tail.Info
		want string
	}{
		{tail.Info{}, ""},
		{tail.Info{DetectionPending: true}, "detecting"},
		{tail.Info{Encoding: "utf-16le", Source: tail.SourceBOM}, "utf-16le (bom)"},
		{tail.Info{Encoding: "windows-1252"}, "windows-1252"},
	}
	for _, tt := range tests {
		if got := encodingLabel(tt.info); got != tt.want {
			t.Fatalf("encodingLabel(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short.log", 20, "short.log"},
		{"/var/log/very/deep/tree/app.log", 20, "/var/log/ve…/app.log"},
		{"abcdefghij", 5, "ab…ij"},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateMiddle(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncateMiddle(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestExpandTabs(t *testing.T) {
	if got := expandTabs("a\tb"); got != "a    b" {
		t.Fatalf("expandTabs = %q, want %q", got, "a    b")
	}
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  string
	}{
		{"", 10, ""},
		{"short", 10, "short"},
		{"aaaa bbbb", 4, "aaaa\nbbbb"},
		{"abcdefghij", 4, "abcd\nefgh\nij"},
		{"no width", 0, "no width"},
	}
	for _, tt := range tests {
		if got := wrapLine(tt.line, tt.width); got != tt.want {
			t.Fatalf("wrapLine(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
		}
	}
}
