package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	if err != nil {
		t.Fatalf("GetSimpleText error: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("want %q, got %q", "hello world", got)
	}
	if !strings.Contains(out.String(), "Say something") {
		t.Fatalf("prompt not printed: %q", out.String())
	}
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("partial"))

	got, err := GetSimpleText(reader, "p", &out)
	if err != nil {
		t.Fatalf("GetSimpleText error: %v", err)
	}
	if got != "partial" {
		t.Fatalf("want %q, got %q", "partial", got)
	}
}

func TestGetPassword_Stubbed(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	got, err := GetPassword(&out)
	if err != nil {
		t.Fatalf("GetPassword error: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("want %q, got %q", "s3cret", got)
	}
	if strings.Contains(out.String(), "s3cret") {
		t.Fatalf("password must not be echoed: %q", out.String())
	}
}

func TestGetMultiline(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n\n"))

	got, err := GetMultiline(reader, "Content", &out)
	if err != nil {
		t.Fatalf("GetMultiline error: %v", err)
	}
	if got != "line one\nline two" {
		t.Fatalf("unexpected multiline result: %q", got)
	}
}

func TestSplitTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{" , ,", []string{}},
	}

	for _, tc := range cases {
		got := splitTags(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("splitTags(%q): want %v, got %v", tc.in, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("splitTags(%q): want %v, got %v", tc.in, tc.want, got)
			}
		}
	}
}
