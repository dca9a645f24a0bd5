package utils

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestExtractors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	content := `
[profile]
lengths = [1, 2, 3]
mixed = [1, "two"]
cap = 300
separator = "#"
drop = true

[classify]
margin = 0.25
whole = 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	data, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatalf("ParseTOMLWithRecovery: %v", err)
	}

	profile, ok := ExtractSection(data, "profile")
	if !ok {
		t.Fatal("missing profile section")
	}
	if got, ok := ExtractIntSlice(profile, "lengths"); !ok || !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("lengths = %v, %v", got, ok)
	}
	if _, ok := ExtractIntSlice(profile, "mixed"); ok {
		t.Error("mixed array should be rejected")
	}
	if got, ok := ExtractInt64(profile, "cap"); !ok || got != 300 {
		t.Errorf("cap = %d, %v", got, ok)
	}
	if got, ok := ExtractString(profile, "separator"); !ok || got != "#" {
		t.Errorf("separator = %q, %v", got, ok)
	}
	if got, ok := ExtractBool(profile, "drop"); !ok || !got {
		t.Errorf("drop = %v, %v", got, ok)
	}
	if _, ok := ExtractInt64(profile, "separator"); ok {
		t.Error("string should not extract as int")
	}

	classify, _ := ExtractSection(data, "classify")
	if got, ok := ExtractFloat(classify, "margin"); !ok || got != 0.25 {
		t.Errorf("margin = %v, %v", got, ok)
	}
	if got, ok := ExtractFloat(classify, "whole"); !ok || got != 2 {
		t.Errorf("whole = %v, %v", got, ok)
	}
	if _, ok := ExtractSection(data, "server"); ok {
		t.Error("unexpected server section")
	}
}

func TestTruncateUTF8(t *testing.T) {
	testCases := []struct {
		input string
		max   int
		want  string
		cut   bool
	}{
		{"hello", 10, "hello", false},
		{"hello", 0, "hello", false},
		{"hello", 3, "hel", true},
		{"héllo", 2, "h", true},
		{"héllo", 3, "hé", true},
		{"日本語", 4, "日", true},
	}
	for _, tc := range testCases {
		got, cut := TruncateUTF8(tc.input, tc.max)
		if got != tc.want || cut != tc.cut {
			t.Errorf("TruncateUTF8(%q, %d) = %q, %v; want %q, %v", tc.input, tc.max, got, cut, tc.want, tc.cut)
		}
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	if !res.Exists || !res.Writable || res.Error != nil {
		t.Errorf("CheckDirStatus = %+v", res)
	}
	if FileExists(filepath.Join(dir, ".write_test")) {
		t.Error("write test file left behind")
	}
}

func TestFormatWithCommas(t *testing.T) {
	for n, want := range map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		61803:   "61,803",
		1234567: "1,234,567",
		-4200:   "-4,200",
	} {
		if got := FormatWithCommas(n); got != want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", n, got, want)
		}
	}
}
