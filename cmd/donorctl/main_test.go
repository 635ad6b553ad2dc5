package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setMemoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SESSION_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("ADMIN_USERNAME", "templeadmin")
	t.Setenv("ADMIN_PASSWORD", "Kovil@2024")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNextReceipt(t *testing.T) {
	setMemoryEnv(t)
	out, err := run(t, "next-receipt", "--year", "2025")
	if err != nil {
		t.Fatalf("next-receipt: %v", err)
	}
	if strings.TrimSpace(out) != "2025 1" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAdminList(t *testing.T) {
	setMemoryEnv(t)
	out, err := run(t, "admin", "list")
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if !strings.Contains(out, "templeadmin") || !strings.Contains(out, "superadmin") {
		t.Fatalf("seeded admin missing from %q", out)
	}
}

func TestAdminSetPasswordRejectsWeakPassword(t *testing.T) {
	setMemoryEnv(t)
	_, err := run(t, "admin", "set-password", "clerk", "--password", "short")
	if err == nil || !strings.Contains(err.Error(), "weak password") {
		t.Fatalf("expected weak password error, got %v", err)
	}

	out, err := run(t, "admin", "set-password", "clerk", "--password", "Clerk#123")
	if err != nil {
		t.Fatalf("set-password: %v", err)
	}
	if !strings.Contains(out, "clerk (admin) updated") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExportArchive(t *testing.T) {
	setMemoryEnv(t)
	dir := t.TempDir()
	out, err := run(t, "export", "--preset", "all", "--archive", "--archive-dir", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "archived "+dir) {
		t.Fatalf("unexpected output %q", out)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "exports", "*", "*", "donations-*.csv"))
	if len(matches) != 1 {
		t.Fatalf("expected one archived file, got %v", matches)
	}
	body, err := os.ReadFile(matches[0])
	if err != nil || !strings.HasPrefix(string(body), "S.No,Receipt No") {
		t.Fatalf("archived body %q %v", body, err)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	setMemoryEnv(t)
	if _, err := run(t, "export", "--format", "pdf"); err == nil {
		t.Fatal("expected format error")
	}
}
