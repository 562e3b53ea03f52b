package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type captureFatal struct{ msg string }

func (c *captureFatal) Fatalf(format string, _ ...any) { c.msg = format }

func writeGoFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeGoFile(t, dir, "a.go", "package x\n\nimport (\n\t\"fmt\"\n\t\"farmboard/internal/seed\"\n)\n\nvar _ = fmt.Sprint\n")
	writeGoFile(t, dir, "a_test.go", "package x\n\nimport \"farmboard/internal/report\"\n")

	viols, err := directImportViolations(dir, InfraImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.HasPrefix(viols[0], "farmboard/internal/seed") {
		t.Fatalf("unexpected violations: %v", viols)
	}
}

func TestFailIfDirectViolations(t *testing.T) {
	var c captureFatal
	failIfDirectViolations(&c, "reason", nil)
	if c.msg != "" {
		t.Fatalf("unexpected failure for no violations")
	}
	failIfDirectViolations(&c, "reason", []string{"farmboard/internal/blob"})
	if c.msg == "" {
		t.Fatalf("expected failure")
	}
}

func TestPredicates(t *testing.T) {
	if !InternalImportForbidden("farmboard/internal/core") || InternalImportForbidden("farmboard/pkg/domain") {
		t.Fatalf("internal predicate wrong")
	}
	if !InfraImportForbidden("farmboard/internal/infra/blob/s3") || InfraImportForbidden("farmboard/internal/core") {
		t.Fatalf("infra predicate wrong")
	}
}

func TestTypeAliases(t *testing.T) {
	dir := t.TempDir()
	writeGoFile(t, dir, "a.go", "package x\n\ntype ID = int\n\ntype Name string\n")
	writeGoFile(t, dir, "b_test.go", "package x\n\ntype T = string\n")

	got, err := typeAliases(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 1 || got[0] != "a.go:3 type ID" {
		t.Fatalf("unexpected aliases: %v", got)
	}
}
