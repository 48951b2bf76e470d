package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/JakeFAU/brightdata-go/pkg/result"
)

// renderResults prints results in the selected format and optionally persists
// them as JSON.
func renderResults(w io.Writer, results []result.Result, mode, file string) error {
	if file != "" {
		if err := saveResults(results, file); err != nil {
			return err
		}
	}

	switch mode {
	case "json":
		return renderJSON(w, results)
	case "pretty":
		renderPretty(w, results)
		return nil
	case "minimal":
		return renderMinimal(w, results)
	default:
		return fmt.Errorf("unknown output format %q", mode)
	}
}

func saveResults(results []result.Result, path string) error {
	if len(results) == 1 {
		return results[0].Save(path)
	}
	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return nil
}

func renderJSON(w io.Writer, results []result.Result) error {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	fmt.Fprintln(w, string(raw))
	return nil
}

func renderPretty(w io.Writer, results []result.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Platform", "Operation", "OK", "Elapsed (ms)", "Polls", "Cost", "Error"})
	for i, r := range results {
		cost := ""
		if r.Cost != nil {
			cost = fmt.Sprintf("%.4f", *r.Cost)
		}
		t.AppendRow(table.Row{
			i + 1, r.Platform, r.Operation, r.Success,
			r.Timing.ElapsedMS, r.Timing.PollCount, cost, r.Error,
		})
	}
	t.Render()
}

func renderMinimal(w io.Writer, results []result.Result) error {
	for _, r := range results {
		if !r.Success {
			fmt.Fprintln(w, "ERROR:", r.Error)
			continue
		}
		switch data := r.Data.(type) {
		case string:
			fmt.Fprintln(w, data)
		default:
			raw, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("marshal data: %w", err)
			}
			fmt.Fprintln(w, string(raw))
		}
	}
	return nil
}
