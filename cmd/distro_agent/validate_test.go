package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/distro-catalog/internal/fetch"
)

func TestValidateCatalog_AllValid(t *testing.T) {
	useCatalog(t, fixtureDir(t))

	out, err := execute(t, runValidateCatalog)
	require.NoError(t, err)
	assert.Contains(t, out, "3 RECORDS VALID")
}

func TestValidateCatalog_ReportsProblems(t *testing.T) {
	dir := fixtureDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"id": "broken"`), 0644))
	dup := fixtureRecords()[0]
	data, err := json.Marshal(dup)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zz-ubuntu.json"), data, 0644))

	useCatalog(t, dir)
	validateReport = filepath.Join(t.TempDir(), "out", "verification-report.json")

	out, err := execute(t, runValidateCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s)")
	assert.Contains(t, out, "CATALOG PROBLEMS")
	assert.Contains(t, out, "3 valid, 2 rejected")

	content, err := os.ReadFile(validateReport)
	require.NoError(t, err)
	var report VerificationReport
	require.NoError(t, json.Unmarshal(content, &report))

	assert.Equal(t, dir, report.Directory)
	assert.Equal(t, ReportSummary{Total: 5, Successful: 3, Errors: 2}, report.Summary)

	files := map[string]ReportEntry{}
	for _, e := range report.Results {
		files[e.File] = e
	}
	assert.Equal(t, statusSuccess, files["mint.json"].Status)
	assert.Equal(t, statusError, files["broken.json"].Status)
	assert.Equal(t, statusError, files["zz-ubuntu.json"].Status)
	assert.Equal(t, "ubuntu", files["zz-ubuntu.json"].ID)
	assert.NotEmpty(t, files["zz-ubuntu.json"].Errors)
}

func TestValidateCatalog_BadQuizFile(t *testing.T) {
	cfg := useCatalog(t, fixtureDir(t))
	quiz := filepath.Join(t.TempDir(), "quiz.yaml")
	require.NoError(t, os.WriteFile(quiz, []byte("questions: []\n"), 0644))
	cfg.Catalog.QuizFile = quiz
	jsonOutput = true

	out, err := execute(t, runValidateCatalog)
	require.Error(t, err)

	report := decodeJSON[VerificationReport](t, out)
	assert.Contains(t, report.QuizError, "no questions defined")
	assert.Equal(t, 3, report.Summary.Successful)
}

func TestValidateCatalog_MissingDirectory(t *testing.T) {
	useCatalog(t, filepath.Join(t.TempDir(), "missing"))

	_, err := execute(t, runValidateCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog directory not found")
}

func TestValidateCatalog_CheckLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Docs</title></head></html>"))
	})
	mux.HandleFunc("/iso/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/iso/arch.iso" {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	records := fixtureRecords()
	for _, d := range records {
		d.OfficialDocsURL = srv.URL + "/docs/" + d.ID
		d.ISOFiles[0].URL = srv.URL + "/iso/" + d.ID + ".iso"
	}
	writeRecords(t, dir, records...)

	useCatalog(t, dir)
	validateCheckLinks = true
	validateLinkTimeout = fetch.DefaultTimeout
	jsonOutput = true

	out, err := execute(t, runValidateCatalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s)")

	report := decodeJSON[VerificationReport](t, out)
	assert.Equal(t, 1, report.Summary.BrokenLinks)
	require.Len(t, report.Links, 6)

	for _, l := range report.Links {
		if l.DistroID == "arch" && l.Kind == fetch.LinkISO {
			assert.False(t, l.OK)
			assert.Equal(t, http.StatusNotFound, l.StatusCode)
			continue
		}
		assert.True(t, l.OK, l.URL)
		if l.Kind == fetch.LinkDocs {
			assert.Equal(t, "Docs", l.Title)
		}
	}
}

func TestBuildReport_UnknownErrorType(t *testing.T) {
	report := buildReport("dir", nil, []error{assert.AnError})
	require.Len(t, report.Results, 1)
	assert.Empty(t, report.Results[0].File)
	assert.Equal(t, statusError, report.Results[0].Status)
}
