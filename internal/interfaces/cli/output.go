package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/tinydock/internal/application/campaign"
	"github.com/turtacn/tinydock/internal/domain/docking"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
)

// view is one rendered table of a command result.
type view struct {
	title  string
	header table.Row
	rows   []table.Row
	right  []int // 1-based numeric columns
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputText
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}
	out := cmd.OutOrStdout()

	switch format {
	case OutputJSON:
		return printJSON(out, data)
	case OutputYAML:
		return printYAML(out, data)
	case OutputTable:
		return printViews(out, data, table.StyleLight)
	default:
		style := table.StyleDefault
		style.Options = table.OptionsNoBordersAndSeparators
		return printViews(out, data, style)
	}
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// printViews renders the tabular views of data, falling back to YAML for
// types without one.
func printViews(w io.Writer, data interface{}, style table.Style) error {
	views := viewsOf(data)
	if views == nil {
		return printYAML(w, data)
	}
	printed := 0
	for _, v := range views {
		if len(v.rows) == 0 {
			continue
		}
		tw := table.NewWriter()
		tw.SetStyle(style)
		if v.title != "" {
			tw.SetTitle("%s", v.title)
		}
		tw.AppendHeader(v.header)
		tw.AppendRows(v.rows)
		var cfgs []table.ColumnConfig
		for _, n := range v.right {
			cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight})
		}
		tw.SetColumnConfigs(cfgs)
		if printed > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, tw.Render())
		printed++
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Views per result type
// ─────────────────────────────────────────────────────────────────────────────

func viewsOf(data interface{}) []view {
	switch v := data.(type) {
	case *campaign.PrepareResult:
		return prepareViews(v)
	case *campaign.DockResult:
		return dockViews(v)
	case *campaign.SummarizeResult:
		return []view{summarizeView(v)}
	case *campaign.PrioritizeResult:
		return []view{prioritizeView(v)}
	case *campaign.RunResult:
		out := dockViews(v.Dock)
		out = append(out, summarizeView(v.Summarize), prioritizeView(v.Prioritize))
		return out
	case *campaign.StatsResult:
		return []view{statsView(v)}
	case *campaign.ExportResult:
		return exportViews(v)
	case *minio.PublishReport:
		return publishViews(v)
	case BuildInfo:
		return []view{{
			header: table.Row{"VERSION", "COMMIT", "BUILT"},
			rows:   []table.Row{{v.Version, v.Commit, v.BuildDate}},
		}}
	}
	return nil
}

func prepareViews(r *campaign.PrepareResult) []view {
	return []view{
		{
			title:  "preparation",
			header: table.Row{"TOTAL", "DUPLICATES", "INVALID", "CONVERTED", "SKIPPED", "FAILED", "ELAPSED"},
			rows: []table.Row{{r.Total, r.Duplicates, r.Invalid, r.Converted, r.Skipped, r.Failed,
				r.Elapsed.Round(time.Millisecond)}},
			right: []int{1, 2, 3, 4, 5, 6},
		},
		failureView("failures", r.Failures),
	}
}

func dockViews(r *campaign.DockResult) []view {
	if r == nil {
		return nil
	}
	summary := view{
		title:  "docking",
		header: table.Row{"TARGET", "JOBS", "SUCCEEDED", "FAILED", "CANCELLED", "ELAPSED"},
		right:  []int{2, 3, 4, 5},
	}
	failures := view{title: "failed jobs", header: table.Row{"TARGET", "UUID", "CODE", "REASON"}}
	for _, rep := range r.Reports {
		summary.rows = append(summary.rows, table.Row{rep.Target, rep.Total, rep.Succeeded, rep.Failed,
			rep.Cancelled, rep.Elapsed.Round(time.Millisecond)})
		for _, f := range rep.Failures {
			failures.rows = append(failures.rows, table.Row{rep.Target, f.MoleculeID, f.Code, f.Reason})
		}
	}
	return []view{summary, failures}
}

func summarizeView(r *campaign.SummarizeResult) view {
	v := view{
		title:  "summaries",
		header: table.Row{"TARGET", "ROWS", "LOGS", "EMPTY", "NO POSES", "MALFORMED", "DUPLICATES", "PATH"},
		right:  []int{2, 3, 4, 5, 6, 7},
	}
	if r == nil {
		return v
	}
	for _, t := range r.Targets {
		b := t.Build
		v.rows = append(v.rows, table.Row{t.Target, t.Rows, b.Files, b.Empty, b.NoPoses, b.Malformed, b.Duplicates, t.Path})
	}
	return v
}

func prioritizeView(r *campaign.PrioritizeResult) view {
	v := view{
		header: table.Row{"RANK", "UUID", "ON-TARGET MEAN", "OFF-TARGET MAX", "OBJECTIVE"},
		right:  []int{1, 3, 4, 5},
	}
	if r == nil {
		return v
	}
	v.title = fmt.Sprintf("prioritization: %d molecules, top %d", r.Rows, len(r.Top))
	for i, row := range r.Top {
		v.rows = append(v.rows, table.Row{i + 1, row.ID, formatFloat(row.OnTargetMean),
			formatFloat(row.OffTargetMax), formatFloat(row.Objective)})
	}
	return v
}

func statsView(r *campaign.StatsResult) view {
	v := view{
		title:  "best-pose affinity (kcal/mol)",
		header: table.Row{"TARGET", "ROLE", "N", "MEAN", "MEDIAN", "STD", "MIN", "MAX", "CI95 LOW", "CI95 HIGH"},
		right:  []int{3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, t := range r.Targets {
		s := t.Stats
		v.rows = append(v.rows, table.Row{t.Target, string(t.Role), s.Count,
			formatFloat(s.Mean), formatFloat(s.Median), formatFloat(s.Std),
			formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.CILow), formatFloat(s.CIHigh)})
	}
	return v
}

func exportViews(r *campaign.ExportResult) []view {
	paths := view{title: "exported poses", header: table.Row{"PATH"}}
	for _, p := range r.Paths {
		paths.rows = append(paths.rows, table.Row{p})
	}
	return []view{paths, failureView("failed exports", r.Failures)}
}

func publishViews(r *minio.PublishReport) []view {
	up := view{
		title:  "uploaded",
		header: table.Row{"BUCKET", "KEY", "SIZE", "ETAG"},
		right:  []int{3},
	}
	for _, u := range r.Uploaded {
		up.rows = append(up.rows, table.Row{u.Bucket, u.ObjectKey, u.Size, u.ETag})
	}
	missing := view{title: "missing", header: table.Row{"PATH"}}
	for _, p := range r.Missing {
		missing.rows = append(missing.rows, table.Row{p})
	}
	return []view{up, missing}
}

func failureView(title string, failures []docking.Failure) view {
	v := view{title: title, header: table.Row{"UUID", "CODE", "REASON"}}
	for _, f := range failures {
		v.rows = append(v.rows, table.Row{f.MoleculeID, f.Code, f.Reason})
	}
	return v
}

// formatFloat prints three decimals; NaN prints empty.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 3, 64)
}

//Personal.AI order the ending
