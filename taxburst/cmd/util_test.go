package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.tsv.gz")
	content := "id\tTax\nseq1\tTax=9606\n"

	w, err := createOutput(path)
	if err != nil {
		t.Fatalf("create output: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := openInput(path)
	if err != nil {
		t.Fatalf("open input: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}
	if string(data) != content {
		t.Fatalf("expected %q, got %q", content, string(data))
	}
}

func TestOpenInputPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tsv")
	if err := os.WriteFile(path, []byte("id\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := openInput(path)
	if err != nil {
		t.Fatalf("open input: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_ = r.Close()
	if string(data) != "id\n" {
		t.Fatalf("expected plain passthrough, got %q", string(data))
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" superkingdom, phylum ,order,,")
	want := []string{"superkingdom", "phylum", "order"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if out := splitList(""); out != nil {
		t.Fatalf("expected nil for empty spec, got %v", out)
	}
}
