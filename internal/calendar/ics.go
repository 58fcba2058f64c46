// Package calendar exports listed tournaments as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pfrederiksen/poker-board/internal/board"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

const (
	ProdID = "-//Poker Board//poker-board//JA"

	// DefaultDuration is used when late registration does not close after
	// the start.
	DefaultDuration = 4 * time.Hour

	maxLineOctets = 75
)

// uidNamespace scopes event UIDs so the same tournament keeps its UID
// across reloads of the sheet.
var uidNamespace = uuid.MustParse("5b0c8f0e-4a9d-4f7e-9a55-6f1d3c2b7e10")

// GenerateICS builds a VCALENDAR with one VEVENT per tournament that has a
// start time. stamp is written as DTSTAMP; an empty name omits X-WR-CALNAME.
func GenerateICS(rows []tournament.Tournament, name string, stamp time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+ProdID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(name))
	}

	for i := range rows {
		writeEvent(&ics, &rows[i], stamp)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, t *tournament.Tournament, stamp time.Time) {
	if t.StartAt == nil {
		return
	}
	start := *t.StartAt
	end := start.Add(DefaultDuration)
	if t.LateRegAt != nil && t.LateRegAt.After(start) {
		end = *t.LateRegAt
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, "UID:"+EventUID(t)+"@poker-board")
	writeLine(ics, "DTSTAMP:"+formatICSTime(stamp))
	writeLine(ics, "DTSTART:"+formatICSTime(start))
	writeLine(ics, "DTEND:"+formatICSTime(end))
	writeLine(ics, "SUMMARY:"+escapeICS(summary(t)))
	writeLine(ics, "DESCRIPTION:"+escapeICS(description(t)))
	if loc := location(t); loc != "" {
		writeLine(ics, "LOCATION:"+escapeICS(loc))
	}
	if link := t.Link(); link != "" {
		writeLine(ics, "URL:"+link)
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

// EventUID derives a stable identifier from the title, shop and start.
func EventUID(t *tournament.Tournament) string {
	key := strings.Join([]string{t.Title(), t.ShopName(), t.Raw.Get(tournament.ColStartTime)}, "\x1f")
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}

func summary(t *tournament.Tournament) string {
	title := t.Title()
	if title == "" {
		title = board.UntitledCard
	}
	if shop := t.ShopName(); shop != "" {
		return fmt.Sprintf("%s @ %s", title, shop)
	}
	return title
}

func location(t *tournament.Tournament) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{t.ShopName(), t.Area()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func description(t *tournament.Tournament) string {
	var lines []string
	if t.EntryFee != nil {
		lines = append(lines, "参加費: ¥"+board.FormatNumber(*t.EntryFee))
	}
	if t.AddOn != nil {
		lines = append(lines, "アドオン: ¥"+board.FormatNumber(*t.AddOn))
	}
	if t.TotalPrize != nil && *t.TotalPrize > 0 {
		lines = append(lines, "プライズ総額: ¥"+board.FormatNumber(*t.TotalPrize))
	}
	if m := board.MultiplierLabel(t.Multiplier); m != "" {
		lines = append(lines, "倍率: "+m)
	}
	if t.LateRegAt != nil {
		lines = append(lines, "レイト締切: "+t.LateRegAt.Format("2006-01-02 15:04"))
	}
	if p := t.PrizeText(); p != "" {
		lines = append(lines, p)
	}
	return strings.Join(lines, "\n")
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 section 3.3.11
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine folds content lines longer than 75 octets without splitting a
// UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}
