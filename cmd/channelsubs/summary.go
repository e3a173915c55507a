package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Belphemur/ChannelSubs/internal/models"
)

// renderSummary lays out one row per processed channel followed by the totals.
func renderSummary(summary models.RunSummary) string {
	if len(summary.Channels) == 0 {
		return "No channel processed"
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Run " + summary.RunID)
	tw.AppendHeader(table.Row{"Channel", "Videos", "Captions found", "Captions written", "Videos written", "Skipped", "Failed"})

	var total models.ChannelSummary
	for _, ch := range summary.Channels {
		name := ch.Channel
		if name == "" {
			name = "-"
		}
		tw.AppendRow(table.Row{name, ch.Videos, ch.CaptionsFound, ch.CaptionsWritten, ch.VideosWritten, ch.Skipped, ch.Failed})

		total.Videos += ch.Videos
		total.CaptionsFound += ch.CaptionsFound
		total.CaptionsWritten += ch.CaptionsWritten
		total.VideosWritten += ch.VideosWritten
		total.Skipped += ch.Skipped
		total.Failed += ch.Failed
	}
	tw.AppendFooter(table.Row{"Total", total.Videos, total.CaptionsFound, total.CaptionsWritten, total.VideosWritten, total.Skipped, total.Failed})

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i := 2; i <= 7; i++ {
		configs = append(configs, table.ColumnConfig{Number: i, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
