package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty line",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "panic: something broke",
			expected: "panic: something broke",
		},
		{
			name:     "broken json",
			input:    `{"level":"info"`,
			expected: `{"level":"info"`,
		},
		{
			name:     "info with fields",
			input:    `{"level":"info","url":"/?p=2","page":2,"time":"2025-10-08T21:01:05Z","message":"page appended"}`,
			expected: "21:01:05 INF page appended page=2 url=/?p=2",
		},
		{
			name:     "error without time",
			input:    `{"level":"error","error":"HTTP 500","message":"poll failed"}`,
			expected: "ERR poll failed error=HTTP 500",
		},
		{
			name:     "float and bool fields",
			input:    `{"level":"debug","ratio":0.5,"ended":true,"message":"threshold"}`,
			expected: "DBG threshold ended=true ratio=0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.input); got != tt.expected {
				t.Errorf("FormatLine() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParse_LevelTags(t *testing.T) {
	for level, want := range map[string]string{"warn": "WRN", "fatal": "FTL", "custom": "CUSTOM"} {
		rec, ok := Parse(`{"level":"` + level + `"}`)
		if !ok {
			t.Fatalf("Parse(%s) not ok", level)
		}
		if rec.Level != want {
			t.Errorf("Parse(%s).Level = %q, want %q", level, rec.Level, want)
		}
	}
}

func TestFormatLines(t *testing.T) {
	got := FormatLines([]string{`{"level":"info","message":"a"}`, "raw"})
	want := []string{"INF a", "raw"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FormatLines() = %v, want %v", got, want)
	}
}
