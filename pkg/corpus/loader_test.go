package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "en.sample", "the quick brown fox")
	writeFile(t, dir, "en.news.txt", "stocks rallied today")
	writeFile(t, dir, "fr.sample", "le renard brun rapide")
	writeFile(t, dir, "de.html", "<html><head><style>p{}</style><script>var x = 1;</script></head><body><p>der schnelle</p><p>braune fuchs</p></body></html>")
	writeFile(t, dir, "notes.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "es.sample"), 0755); err != nil {
		t.Fatal(err)
	}

	corpus, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if len(corpus) != 3 {
		t.Fatalf("got %d labels, want 3: %+v", len(corpus), corpus)
	}
	wantLabels := []string{"de", "en", "fr"}
	for i, want := range wantLabels {
		if corpus[i].Label != want {
			t.Errorf("corpus[%d].Label = %q, want %q", i, corpus[i].Label, want)
		}
	}

	en := corpus[1]
	if len(en.Texts) != 2 {
		t.Fatalf("en has %d texts, want 2", len(en.Texts))
	}
	// os.ReadDir sorts by name: en.news.txt before en.sample
	if en.Texts[0] != "stocks rallied today" || en.Texts[1] != "the quick brown fox" {
		t.Errorf("en texts = %q", en.Texts)
	}

	de := corpus[0].Texts[0]
	if de != "der schnelle braune fuchs" {
		t.Errorf("html text = %q, want %q", de, "der schnelle braune fuchs")
	}
}

func TestLoadDirErrors(t *testing.T) {
	if _, err := LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing dir should fail")
	}

	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "nothing to learn")
	if _, err := LoadDir(dir); !errors.Is(err, ErrNoSamples) {
		t.Errorf("err = %v, want ErrNoSamples", err)
	}
}

func TestLabel(t *testing.T) {
	testCases := map[string]string{
		"en.sample":         "en",
		"en.news.txt":       "en",
		"/tmp/x/pt.html":    "pt",
		".hidden.sample":    "",
		"spanish.Sample":    "spanish",
		"zh-hant.part1.txt": "zh-hant",
	}
	for name, want := range testCases {
		if got := Label(name); got != want {
			t.Errorf("Label(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestIsSampleFile(t *testing.T) {
	for name, want := range map[string]bool{
		"en.sample": true,
		"en.TXT":    true,
		"en.htm":    true,
		"en.json":   false,
		"sample":    false,
	} {
		if got := IsSampleFile(name); got != want {
			t.Errorf("IsSampleFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestReadSampleRepairsUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.sample", "ok \xff\xfe done")
	text, err := ReadSample(filepath.Join(dir, "x.sample"))
	if err != nil {
		t.Fatalf("ReadSample: %v", err)
	}
	if !strings.HasPrefix(text, "ok ") || !strings.HasSuffix(text, " done") || strings.Contains(text, "\xff") {
		t.Errorf("text = %q", text)
	}
}
