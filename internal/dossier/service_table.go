package dossier

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/dossier-builder/internal/types"
)

// Derived keys of the service table on the base training completion certificate.
const (
	keyServiceTitles  = "service_titles"
	keyServicePeriods = "service_periods"
	keyServicePercent = "service_percents"
	keyServiceMonths  = "service_months"
	keyServiceTotal   = "service_total_months"
	keyPrimaryCare    = "primary_care_titles"
	keyAcuteCare      = "acute_care_titles"
)

// daysPerMonth is the mean Gregorian month length.
const daysPerMonth = 365.25 / 12

type serviceRow struct {
	title   string
	start   time.Time
	end     time.Time
	percent float64
	primary bool
	acute   bool
}

// months is the full-time equivalent length of the row, both dates inclusive,
// rounded to one decimal.
func (r serviceRow) months() float64 {
	days := r.end.Sub(r.start).Hours()/24 + 1
	return round1(days / daysPerMonth * r.percent / 100)
}

// serviceRows collects every rotation with a parseable start and end date,
// ordered by start date. Rotations without a percentage count as full time.
func serviceRows(records []types.TrainingRecord) []serviceRow {
	var rows []serviceRow
	for _, rec := range records {
		r, ok := rec.(*types.RotationRecord)
		if !ok {
			continue
		}
		start, err := parseDate(r.StartDate)
		if err != nil {
			continue
		}
		end, err := parseDate(r.EndDate)
		if err != nil || end.Before(start) {
			continue
		}
		title := strings.TrimSpace(r.Site)
		if title == "" {
			title = strings.TrimSpace(r.Title)
		}
		percent := r.PercentFTE
		if percent <= 0 {
			percent = 100
		}
		rows = append(rows, serviceRow{
			title:   title,
			start:   start,
			end:     end,
			percent: percent,
			primary: r.PrimaryCare,
			acute:   r.AcuteCare,
		})
	}
	slices.SortStableFunc(rows, func(a, b serviceRow) int {
		return a.start.Compare(b.start)
	})
	return rows
}

// serviceTable renders rows as newline-separated columns, one entry per row,
// plus the total of the full-time equivalent months.
func serviceTable(rows []serviceRow) map[string]string {
	if len(rows) == 0 {
		return nil
	}
	var titles, periods, percents, months, primary, acute []string
	total := 0.0
	for _, r := range rows {
		m := r.months()
		total += m
		titles = append(titles, r.title)
		periods = append(periods, r.start.Format(time.DateOnly)+" - "+r.end.Format(time.DateOnly))
		percents = append(percents, formatNumber(r.percent)+"%")
		months = append(months, formatNumber(m))
		if r.primary && r.title != "" {
			primary = append(primary, r.title)
		}
		if r.acute && r.title != "" {
			acute = append(acute, r.title)
		}
	}
	return map[string]string{
		keyServiceTitles:  strings.Join(titles, "\n"),
		keyServicePeriods: strings.Join(periods, "\n"),
		keyServicePercent: strings.Join(percents, "\n"),
		keyServiceMonths:  strings.Join(months, "\n"),
		keyServiceTotal:   formatNumber(round1(total)),
		keyPrimaryCare:    strings.Join(primary, "\n"),
		keyAcuteCare:      strings.Join(acute, "\n"),
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse(time.DateOnly, s)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
