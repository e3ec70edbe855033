package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/logging"
	"trading-dashboard/internal/models"
	"trading-dashboard/internal/services/analysis"
	"trading-dashboard/internal/services/export"
	"trading-dashboard/internal/series"

	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), false, os.Stderr)
	if err := run(os.Args[1:], os.Stdout, series.NewGenerator()); err != nil {
		log.Error().Err(err).Msg("analyzer failed")
		os.Exit(1)
	}
}

// run generates one series, analyses it and prints the report. With -xlsx the
// series is also written to a workbook.
func run(args []string, out io.Writer, gen *series.Generator) error {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(out)
	symbol := fs.String("symbol", "AAPL", "ticker symbol")
	period := fs.Int("period", series.DefaultPeriod, "number of past days")
	method := fs.String("method", "basic", "analysis method: price, volume or basic")
	xlsxPath := fs.String("xlsx", "", "write the series to this xlsx file")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sym := catalog.NormalizeSymbol(*symbol)
	s, err := gen.Generate(sym, *period)
	if err != nil {
		return err
	}
	state, err := dashboard.DeriveState(s)
	if err != nil {
		return err
	}
	rep, err := analysis.Analyze(*method, s)
	if err != nil {
		return err
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", *xlsxPath, err)
		}
		if err := export.WriteSeriesXLSX(f, sym, s, state); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("file", *xlsxPath).Int("records", len(s)).Msg("workbook written")
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Symbol string              `json:"symbol"`
			State  models.DerivedState `json:"state"`
			Report analysis.Report     `json:"report"`
		}{sym, state, rep})
	}

	fmt.Fprintf(out, "%s  %s (%d records, %s .. %s)\n", sym, rep.Name, len(s), s.First().Date, s.Last().Date)
	fmt.Fprintln(out, strings.Repeat("-", 48))
	fmt.Fprintf(out, "current price  %.2f\n", state.CurrentPrice)
	fmt.Fprintf(out, "price change   %+.2f\n", state.PriceChange)
	sum := rep.Summary
	fmt.Fprintf(out, "last           %.2f\n", sum.Last)
	fmt.Fprintf(out, "min / max      %.2f / %.2f\n", sum.Min, sum.Max)
	fmt.Fprintf(out, "average        %.2f\n", sum.Average)
	fmt.Fprintf(out, "change         %+.2f%%\n", sum.ChangePercent)
	if sum.RSI14 != nil {
		fmt.Fprintf(out, "RSI(14)        %.2f\n", *sum.RSI14)
	}
	if sum.ATR14 != nil {
		fmt.Fprintf(out, "ATR(14)        %.2f\n", *sum.ATR14)
	}
	return nil
}
