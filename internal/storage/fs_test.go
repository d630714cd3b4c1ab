package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return f, dir
}

func TestNewFS_MissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWriteReadDelete(t *testing.T) {
	f, _ := testFS(t)

	if err := f.Write("sub/doc.md", []byte("#math\n\n[Q]q?\n[A]a\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := f.Read("sub/doc.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(string(data), "[Q]q?") {
		t.Errorf("data = %q", data)
	}

	if err := f.Delete("sub/doc.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.Read("sub/doc.md"); err == nil {
		t.Error("read after delete succeeded")
	}
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	f, dir := testFS(t)
	if err := f.Write("doc.md", []byte("content")); err != nil {
		t.Fatal(err)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".quizium-tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestList_OnlyMarkdown(t *testing.T) {
	f, dir := testFS(t)
	_ = f.Write("a.md", []byte("a"))
	_ = f.Write("nested/b.md", []byte("b"))
	_ = os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0o644)

	metas, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len = %d, want 2", len(metas))
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("%s: empty checksum", m.Path)
		}
		if filepath.IsAbs(m.Path) {
			t.Errorf("%s: path not relative", m.Path)
		}
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	f, _ := testFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("traversal path accepted")
	}
	if err := f.Write("/etc/absolute.md", []byte("x")); err == nil {
		t.Error("absolute path accepted")
	}
}
