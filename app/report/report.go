// Package report renders suggestions as plain text tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syohex/go-texttable"

	"github.com/bobylevd/team-balancer/app/balance"
)

// Suggestion renders one suggestion: a title line followed by a table with
// one row per team.
func Suggestion(s balance.Suggestion) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Team", "Players", "Base", "Adjusted", "Bonus", "Total", "Win")

	for _, t := range s.Partition.Teams {
		_ = tbl.AddRow(
			strconv.Itoa(t.Slot+1),
			Members(t),
			strconv.Itoa(t.BaseTotal()),
			strconv.Itoa(t.AdjustedTotal()),
			fmt.Sprintf("%+d", t.Bonus()),
			strconv.Itoa(t.Total()),
			fmt.Sprintf("%d%%", t.WinChance()),
		)
	}

	return fmt.Sprintf("%s, gap %d\n%s", s.Name(), s.Partition.Gap(), tbl.Draw())
}

// Set renders every suggestion of a set.
func Set(suggestions []balance.Suggestion) string {
	parts := make([]string, len(suggestions))
	for i, s := range suggestions {
		parts[i] = Suggestion(s)
	}
	return strings.Join(parts, "\n")
}

// Members lists the team members as "name[ARCHETYPE] adjusted".
func Members(t balance.Team) string {
	names := make([]string, len(t.Members))
	for i, c := range t.Members {
		names[i] = fmt.Sprintf("%s[%s] %d", c.Name, c.Archetype(), c.Adjusted())
	}
	return strings.Join(names, ", ")
}

// Stars renders the star tier of a competitor.
func Stars(c balance.Competitor) string {
	return strings.Repeat("★", c.Tier())
}
