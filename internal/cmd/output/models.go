package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/sheetsync/internal/auth/adc"
	"github.com/agentstation/sheetsync/internal/history"
	"github.com/agentstation/sheetsync/pkg/reconciler"
	"github.com/agentstation/sheetsync/pkg/sync"
	"github.com/agentstation/sheetsync/pkg/table"
)

// Render writes data in format. Table formats use the Data built by
// toTable; other formats encode data itself.
func Render(w io.Writer, format Format, data any, toTable func(wide bool) Data) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatWide, "":
		return formatter.Format(w, toTable(format == FormatWide))
	}
	return formatter.Format(w, data)
}

// ResultData builds the per-pair table for a run result. Wide output adds
// the source and duration-independent detail columns.
func ResultData(result *sync.Result, wide bool) Data {
	headers := []string{"Target", "Status", "Updated", "Added", "Unchanged", "Skipped", "Note"}
	if wide {
		headers = append([]string{"Source"}, headers...)
	}
	rows := make([][]string, 0, len(result.PairResults))
	for _, pr := range result.PairResults {
		row := []string{
			pr.Target,
			string(pr.Status),
			strconv.Itoa(pr.Updated),
			strconv.Itoa(pr.Added),
			strconv.Itoa(pr.Unchanged),
			strconv.Itoa(pr.Skipped),
			pairNote(pr),
		}
		if wide {
			row = append([]string{pr.Source}, row...)
		}
		rows = append(rows, row)
	}

	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}
	if wide {
		align = append([]Align{AlignLeft}, align...)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

func pairNote(pr *sync.PairResult) string {
	switch {
	case pr.Failed():
		return pr.Error
	case pr.Bootstrap:
		return fmt.Sprintf("bootstrap (%d rows)", pr.Appended)
	case pr.BackupPath != "":
		return "backup: " + pr.BackupPath
	}
	return ""
}

// PlanData lists the writes of a plan, in the order they are issued.
// Wide output shows full row contents.
func PlanData(plan *reconciler.Plan, wide bool) Data {
	headers := []string{"Action", "Position", "Key", "Row"}
	var rows [][]string
	for _, u := range plan.Updates {
		rows = append(rows, []string{"update", strconv.Itoa(u.Position), strconv.Itoa(u.Key), rowText(u.Row, wide)})
	}
	for i, row := range plan.Appends {
		action := "append"
		switch {
		case plan.Bootstrap && i == 0:
			action = "header"
		case plan.AuditRow != nil && i == len(plan.Appends)-1:
			action = "audit"
		}
		rows = append(rows, []string{action, "", "", rowText(row, wide)})
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// maxRowText bounds row previews in narrow tables.
const maxRowText = 60

func rowText(row table.Row, wide bool) string {
	text := strings.Join(row, " | ")
	if !wide && len(text) > maxRowText {
		return text[:maxRowText-3] + "..."
	}
	return text
}

// HistoryData lists recorded cycles.
func HistoryData(entries []history.Entry, wide bool) Data {
	headers := []string{"Started", "Run", "Target", "Status", "Updated", "Appended", "Error"}
	if wide {
		headers = append(headers, "Source", "Duration")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		run := e.RunID
		if !wide && len(run) > 8 {
			run = run[:8]
		}
		status := e.Status
		if e.DryRun {
			status += " (dry run)"
		}
		row := []string{
			e.StartedAt.Local().Format(time.DateTime),
			run,
			e.Target,
			status,
			strconv.Itoa(e.Updated),
			strconv.Itoa(e.Appended),
			e.Error,
		}
		if wide {
			row = append(row, e.Source, e.Duration.String())
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// CredentialsData shows credential details as a key-value table.
func CredentialsData(d *adc.Details, _ bool) Data {
	rows := [][]string{{"State", d.State.String()}}
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	add("Type", d.Type)
	add("Account", d.Account)
	add("Project", d.Project)
	add("Project Source", d.ProjectSource)
	add("Path", d.Path)
	add("Found Via", d.Source)
	if !d.LastModified.IsZero() {
		add("Last Modified", d.LastModified.Local().Format(time.DateTime))
	}
	add("Error", d.ErrorMessage)
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}
