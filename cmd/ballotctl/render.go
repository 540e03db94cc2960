// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/danielhkuo/ballotbox/models"
)

func renderResults(out io.Writer, r *models.ElectionResults) {
	color.New(color.FgCyan).Fprintf(out, "\n%s (%s)\n", r.ElectionName, r.Status)
	fmt.Fprintf(out, "Total votes cast: %s\n", humanize.Comma(int64(r.TotalVotesCast)))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Rank", "Candidate", "Party", "Votes", "Share"})
	for _, c := range r.Results {
		table.Append([]string{
			strconv.Itoa(c.Rank),
			c.Name,
			c.Party,
			humanize.Comma(int64(c.Votes)),
			fmt.Sprintf("%.2f%%", c.Percentage),
		})
	}
	table.Render()
}

func renderReport(out io.Writer, r *models.IntegrityReport) {
	fmt.Fprintf(out, "Ballots: %s  History rows: %s\n",
		humanize.Comma(int64(r.Ballots)), humanize.Comma(int64(r.VotedFlags)))

	if r.Consistent {
		color.New(color.FgGreen).Fprintln(out, "Ledger consistent")
		return
	}

	color.New(color.FgRed).Fprintln(out, "Ledger inconsistent")
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Problem", "Account", "Election"})
	for _, p := range r.BallotsWithoutFlag {
		table.Append([]string{"ballot without history", p.AccountID, p.ElectionID})
	}
	for _, p := range r.FlagsWithoutBallot {
		table.Append([]string{"history without ballot", p.AccountID, p.ElectionID})
	}
	table.Render()
}
