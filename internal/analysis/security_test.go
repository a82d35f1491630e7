package analysis

import (
	"errors"
	"testing"
)

func TestScanSecurityScoresAndIDs(t *testing.T) {
	snap := snapWith(map[string]string{
		"app.py":    "PASSWORD = \"supersecretvalue\"\n",                       // critical
		"query.py":  "for r in rows:\n    db.query(r)\n",                       // high
		"README.md": "PASSWORD = \"supersecretvalue\"\n",                       // not code, skipped
		"util.py":   "def add(a, b):\n    return a + b\n",
	}, "")
	snap.Files = []string{"app.py", "query.py", "README.md", "util.py"}

	report, err := ScanSecurity(snap)
	if err != nil {
		t.Fatalf("ScanSecurity: %v", err)
	}
	if report.CriticalCount != 1 || report.HighCount != 1 {
		t.Fatalf("counts = %d critical, %d high", report.CriticalCount, report.HighCount)
	}
	if report.Score != 60 {
		t.Fatalf("Score = %d, want 60", report.Score)
	}
	if len(report.Vulnerabilities) != 2 {
		t.Fatalf("vulnerabilities = %d", len(report.Vulnerabilities))
	}
	if report.Vulnerabilities[0].ID != "SEC-001" || report.Vulnerabilities[1].ID != "SEC-002" {
		t.Fatalf("IDs = %s, %s", report.Vulnerabilities[0].ID, report.Vulnerabilities[1].ID)
	}
	if report.Vulnerabilities[0].File != "app.py" {
		t.Fatalf("File = %s", report.Vulnerabilities[0].File)
	}
	for _, f := range report.ScannedFiles {
		if f == "README.md" {
			t.Fatal("non-code file was scanned")
		}
	}
}

func TestScanSecurityScoreFloor(t *testing.T) {
	files := map[string]string{}
	order := []string{}
	// Six criticals push the raw score below zero.
	names := []string{"a.py", "b.py", "c.py", "d.py", "e.py", "f.py"}
	for _, n := range names {
		files[n] = "TOKEN = \"abcdefghijklmnop\"\n"
		order = append(order, n)
	}
	snap := snapWith(files, "")
	snap.Files = order

	report, err := ScanSecurity(snap)
	if err != nil {
		t.Fatalf("ScanSecurity: %v", err)
	}
	if report.Score != 0 {
		t.Fatalf("Score = %d, want 0", report.Score)
	}
}

func TestScanSecurityCleanRepo(t *testing.T) {
	snap := snapWith(map[string]string{"util.py": "def add(a, b):\n    return a + b\n"}, "")

	report, err := ScanSecurity(snap)
	if err != nil {
		t.Fatalf("ScanSecurity: %v", err)
	}
	if report.Score != 100 || len(report.Vulnerabilities) != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestScanSecurityNothingLoaded(t *testing.T) {
	if _, err := ScanSecurity(nil); !errors.Is(err, ErrNothingLoaded) {
		t.Fatalf("err = %v, want ErrNothingLoaded", err)
	}
}
