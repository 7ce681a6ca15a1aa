package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sankara-chandas/internal/models"
	"sankara-chandas/internal/store"
)

const anushtup = "धर्मक्षेत्रे कुरुक्षेत्रे समवेता युयुत्सवः ।\nमामकाः पाण्डवाश्चैव किमकुर्वत सञ्जय ॥"

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	argv := append([]string{"chandas", "--config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	if err := app.Run(argv); err != nil {
		t.Fatalf("run %v: %v\nstderr: %s", args, err, errOut.String())
	}
	return out.String()
}

func TestResolveCommand(t *testing.T) {
	out := run(t, "resolve", "श्रीगणेशाय नमः\n"+anushtup)
	if !strings.HasPrefix(out, "Anushtup\t2 attempts, 1 lines dropped") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestResolveCommandArgumentsAreLines(t *testing.T) {
	lines := strings.Split(anushtup, "\n")
	out := run(t, "resolve", lines[0], lines[1])
	if !strings.HasPrefix(out, "Anushtup\t1 attempts, 0 lines dropped") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAnnotateAndStatsCommands(t *testing.T) {
	root := t.TempDir()
	s := store.New(root)
	loc := models.Location{Folder: "devotional", Filename: "gita"}
	doc := &models.VerseGroupDocument{Name: "गीता", Filename: "gita", URL: "https://example.org/gita", Body: []string{anushtup, "गद्यम्"}}
	if err := s.Save(loc, doc); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "devotional", "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(t.TempDir(), "runs.ndjson")

	out := run(t, "--root", root, "--report", report, "annotate")
	if !strings.Contains(out, "1 documents, 2 verses, 1 resolved, 1 failed") || !strings.Contains(out, "failed devotional/broken") {
		t.Fatalf("unexpected annotate output:\n%s", out)
	}

	got, err := s.Load(loc)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ChandasList) != 2 || got.ChandasList[0] != "Anushtup" || got.ChandasList[1] != "" {
		t.Fatalf("unexpected chandasList %q", got.ChandasList)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	var rep models.Report
	if err := json.Unmarshal(bytes.TrimSpace(data), &rep); err != nil || rep.Kind != "annotate" || len(rep.Failures) != 1 {
		t.Fatalf("unexpected report %s (%v)", data, err)
	}

	out = run(t, "--root", root, "stats", "--json")
	var st struct {
		Documents int            `json:"documents"`
		Meters    map[string]int `json:"meters"`
	}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, out)
	}
	if st.Documents != 1 || st.Meters["Anushtup"] != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
