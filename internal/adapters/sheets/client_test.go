package sheets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"restorank/internal/adapters/sheets"
	"restorank/internal/domain"
)

func TestFetch_CSV(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Nombre,Promedio\nCentral,9.5\nPujol,9.8\n"))
	}))
	defer ts.Close()

	cl := sheets.New(100, 2*time.Second)
	got, err := cl.Fetch(context.Background(), domain.SourceRef(ts.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Headers) != 2 || got.Headers[0] != "Nombre" || got.Headers[1] != "Promedio" {
		t.Fatalf("unexpected headers: %v", got.Headers)
	}
	if len(got.Rows) != 2 || got.Rows[0]["Nombre"] != "Central" || got.Rows[1]["Promedio"] != "9.8" {
		t.Fatalf("unexpected rows: %+v", got.Rows)
	}
}

func TestFetch_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(500)
		default:
			_, _ = w.Write([]byte("Nombre\nCentral\n"))
		}
	}))
	defer ts.Close()

	cl := sheets.New(100, 2*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.Fetch(ctx, domain.SourceRef(ts.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("unexpected rows: %+v", got.Rows)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestFetch_RewritesEditURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spreadsheets/d/abc/export" || r.URL.Query().Get("format") != "csv" {
			t.Errorf("edit URL not rewritten, got %s", r.URL.String())
		}
		_, _ = w.Write([]byte("Nombre\nCentral\n"))
	}))
	defer ts.Close()

	cl := sheets.New(100, 2*time.Second)
	_, err := cl.Fetch(context.Background(), domain.SourceRef(ts.URL+"/spreadsheets/d/abc/edit#gid=0"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestFetch_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := sheets.New(100, time.Second)
	_, err := cl.Fetch(context.Background(), domain.SourceRef(ts.URL))
	if err != sheets.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetch_HTMLBodySurvivesDecoding(t *testing.T) {
	// private sheets answer 200 with a login page; the client must hand the
	// rows through so the validator can classify them
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html>\n<html><body>Sign in</body></html>\n"))
	}))
	defer ts.Close()

	cl := sheets.New(100, 2*time.Second)
	got, err := cl.Fetch(context.Background(), domain.SourceRef(ts.URL))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Headers) == 0 {
		t.Fatal("expected the HTML first line to land in the headers")
	}
}

func TestFetch_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.xlsx")
	f := excelize.NewFile()
	if err := f.SetSheetRow("Sheet1", "A1", &[]any{"Nombre", "Promedio"}); err != nil {
		t.Fatalf("seed header: %v", err)
	}
	if err := f.SetSheetRow("Sheet1", "A2", &[]any{"Central", "9.5"}); err != nil {
		t.Fatalf("seed row: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()

	cl := sheets.New(100, time.Second)
	got, err := cl.Fetch(context.Background(), domain.SourceRef(path+"#Sheet1"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0]["Nombre"] != "Central" {
		t.Fatalf("unexpected rows: %+v", got.Rows)
	}
}
