package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/board"
	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	"github.com/charmbracelet/lipgloss"
)

func clock(ts string) string {
	t, ok := flights.ParseTime(ts, time.Local)
	if !ok {
		return "--:--"
	}
	return t.In(time.Local).Format("Jan 02 15:04")
}

func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}

func renderFlights(w io.Writer, records []flights.FlightRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("No flights match."))
		return
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("ID", 6), cell("FLIGHT", 10), cell("AIRLINE", 18), cell("ROUTE", 16),
		cell("DEP", 14), cell("ARR", 14), cell("GATE", 10), "STATUS")
	_, _ = fmt.Fprintln(w, headerStyle.Render(header))

	for _, r := range records {
		status := okStyle.Render(r.Status)
		if r.IsDelayed() {
			status = delayedStyle.Render(r.Status)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			cell(r.ID, 6),
			cell(r.FlightNumber, 10),
			cell(r.AirlineName, 18),
			cell(r.Route(), 16),
			cell(clock(r.Departure()), 14),
			cell(clock(r.Arrival()), 14),
			cell(r.GateLabel(), 10),
			status,
		)
		_, _ = fmt.Fprintln(w, row)
	}
}

func renderView(w io.Writer, v board.View) {
	title := "Arrivals"
	if v.Filter.Board == flights.BoardDepartures {
		title = "Departures"
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render(title))
	if v.Stats != nil {
		renderStats(w, *v.Stats)
	}

	var filters []string
	if s := strings.TrimSpace(v.Filter.Search); s != "" {
		filters = append(filters, fmt.Sprintf("search=%q", s))
	}
	if v.Filter.Date != "" {
		filters = append(filters, "date="+v.Filter.Date)
	}
	if v.Filter.DelayedActive() {
		filters = append(filters, "delayed")
	}
	if v.Filter.Focus == flights.FocusNext60 {
		filters = append(filters, "next 60 min")
	}
	summary := fmt.Sprintf("Showing %d of %d flights, %d in the next 60 min", len(v.Flights), v.Total, v.Next60)
	if len(filters) > 0 {
		summary += " (" + strings.Join(filters, ", ") + ")"
	}
	_, _ = fmt.Fprintln(w, mutedStyle.Render(summary))

	renderFlights(w, v.Flights)

	if v.Err != nil {
		_, _ = fmt.Fprintln(w, errorStyle.Render("Refresh failed: "+v.Err.Error()))
	}
	if !v.UpdatedAt.IsZero() {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("Updated "+v.UpdatedAt.Local().Format("15:04:05")))
	}
}

func renderStats(w io.Writer, s flights.Stats) {
	_, _ = fmt.Fprintf(w, "%s flights today  %s arrivals  %s departures  %s delayed  %s on time  %s next 60 min  %s active gates\n",
		titleStyle.Render(fmt.Sprint(s.FlightsToday())),
		titleStyle.Render(fmt.Sprint(s.ArrivalsToday)),
		titleStyle.Render(fmt.Sprint(s.DeparturesToday)),
		delayedStyle.Render(fmt.Sprint(s.DelayedToday)),
		okStyle.Render(fmt.Sprintf("%d%%", s.OnTimeToday())),
		titleStyle.Render(fmt.Sprint(s.Next60Count)),
		titleStyle.Render(fmt.Sprint(s.ActiveGates)),
	)
}

func renderToasts(w io.Writer, toaster *board.ChannelToaster) {
	for {
		select {
		case t := <-toaster.C():
			line := t.Title
			if t.Message != "" {
				line += ": " + t.Message
			}
			switch t.Kind {
			case board.ToastError:
				line = errorStyle.Render(line)
			case board.ToastSuccess:
				line = okStyle.Render(line)
			default:
				line = mutedStyle.Render(line)
			}
			_, _ = fmt.Fprintln(w, line)
		default:
			return
		}
	}
}
