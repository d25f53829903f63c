package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nguyentantai21042004/lecture-notes/internal/pipeline"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

var stageOrder = []pipeline.Stage{
	pipeline.StageAudioExtracted,
	pipeline.StageFramesExtracted,
	pipeline.StageOCRDone,
	pipeline.StageTranscribed,
	pipeline.StageNotesGenerated,
	pipeline.StageRendered,
	pipeline.StageUploaded,
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderResult summarizes a run: outcome first, then per-stage timings.
func renderResult(res pipeline.Result) string {
	rows := [][]string{
		{"Status", statusLabel(res)},
		{"Last stage", string(res.Stage)},
	}
	if res.Success {
		rows = append(rows, []string{"PDF", res.ArtifactURL})
		if res.DOCXURL != "" {
			rows = append(rows, []string{"DOCX", res.DOCXURL})
		}
		provider := res.Provider
		if res.Placeholder {
			provider += " (placeholder)"
		}
		rows = append(rows, []string{"Provider", provider})
	} else {
		rows = append(rows, []string{"Error", res.ErrorMessage})
	}
	rows = append(rows, []string{"Duration", formatDuration(res.Duration)})

	summary := renderTable([]string{"Field", "Value"}, rows, nil)

	var timings [][]string
	for _, stage := range stageOrder {
		if d, ok := res.Timings[stage]; ok {
			timings = append(timings, []string{string(stage), formatDuration(d)})
		}
	}
	if len(timings) == 0 {
		return summary
	}
	return summary + "\n" + renderTable([]string{"Stage", "Time"}, timings, []columnAlignment{alignLeft, alignRight})
}

func statusLabel(res pipeline.Result) string {
	if res.Success {
		return "done"
	}
	return "failed"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}
