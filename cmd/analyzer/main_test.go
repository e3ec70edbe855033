package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trading-dashboard/internal/series"
	"trading-dashboard/internal/services/analysis"

	"github.com/xuri/excelize/v2"
)

func testGenerator() *series.Generator {
	now := time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)
	return series.NewGenerator(series.WithClock(series.ClockFunc(func() time.Time { return now })))
}

func TestRun_Text(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-symbol", "msft", "-period", "20"}, &out, testGenerator()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"MSFT  Basis-Analyse (21 records, 2024-06-14 .. 2024-07-04)", "current price", "RSI(14)", "ATR(14)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_JSONAndWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsla.xlsx")
	var out bytes.Buffer
	args := []string{"-symbol", "TSLA", "-period", "4", "-method", "price", "-json", "-xlsx", path}
	if err := run(args, &out, testGenerator()); err != nil {
		t.Fatal(err)
	}

	var body struct {
		Symbol string          `json:"symbol"`
		Report analysis.Report `json:"report"`
	}
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if body.Symbol != "TSLA" || body.Report.Method != "price" || len(body.Report.Points) != 5 {
		t.Errorf("unexpected report %+v", body)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("TSLA")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 6 {
		t.Errorf("expected header + 5 rows, got %d", len(rows))
	}
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-period", "-2"}, &out, testGenerator()); !errors.Is(err, series.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if err := run([]string{"-method", "magic"}, &out, testGenerator()); !errors.Is(err, analysis.ErrUnknownMethod) {
		t.Errorf("expected unknown method, got %v", err)
	}
	if err := run([]string{"-nope"}, &out, testGenerator()); err == nil {
		t.Error("expected flag parse error")
	}
}
