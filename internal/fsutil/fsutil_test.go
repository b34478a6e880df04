package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "ytranscript.yaml")

	if err := WriteFileAtomic(dest, []byte("v1"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(dest, []byte("v2"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic (overwrite): %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Fatalf("content = %q; want v2", got)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("perm = %v; want 0600", info.Mode().Perm())
		}
	}

	// aucun fichier temporaire ne doit subsister
	leftovers, _ := filepath.Glob(filepath.Join(dir, "nested", ".*.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteFileAtomic_MissingDirIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// le parent est un fichier : MkdirAll échoue
	if err := WriteFileAtomic(filepath.Join(blocker, "x.yaml"), []byte("x"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic: want error when parent is a file")
	}
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	backup, err := Backup(path, now)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if want := path + ".bak.20260102T030405"; backup != want {
		t.Errorf("backup = %q; want %q", backup, want)
	}

	if err := os.WriteFile(path, []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Restore(backup, path); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "original" {
		t.Errorf("restored = %q; want original", got)
	}

	if _, err := Backup(filepath.Join(dir, "absent"), now); err == nil {
		t.Error("Backup of missing file: want error")
	}
}
