package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/helvetius/vanaclock/internal/guild"
	"github.com/helvetius/vanaclock/internal/timeparse"
	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

const helpMarkdown = `# Vana'diel Clock

The clock converts Earth time to in-game time. One Earth second is 25 in-game
seconds; the week cycles through eight days.

## Keys

| Key | Action |
| --- | ------ |
| a | add a timer |
| c | calibration |
| p | toggle guild presets |
| [ / ] | preset alert lead -/+ one hour |
| space | enable/disable selected timer |
| d | delete selected timer |
| n | NM died now (re-anchor window) |
| K | lottery placeholder killed now |
| x | clear lottery placeholder |
| s | stop repeating alerts |
| q | quit |

## Timer kinds

- **Vana weekday/time** — fires at an in-game weekday and time, every week.
- **Moon** — fires when the moon reaches a percent while waxing or waning.
- **Earth time** — fires at a local date/time, then daily.
- **NM timed window** — pop checks on an interval inside a respawn window.
- **NM lottery** — window-open alert plus a placeholder respawn clock.

## Calibration

Enter the in-game weekday and time you see right now to align the day clock,
or the local date/time of a new moon start to align the moon. The two anchors
are independent.
`

func kindLabel(k timer.Kind) string {
	switch k {
	case timer.KindVanaWeekdayTime:
		return "vana"
	case timer.KindMoonStep, timer.KindMoonPercent:
		return "moon"
	case timer.KindEarthTime:
		return "earth"
	case timer.KindNmTimedWindow:
		return "nm window"
	case timer.KindNmLottery:
		return "nm lottery"
	}
	return string(k)
}

func (m model) View() string {
	switch m.view {
	case viewHelp:
		return m.help + "\n" + m.styles.Muted.Render("esc to go back")
	case viewAdd:
		return m.viewAddForm()
	case viewCalibration:
		return m.viewCalibrationForm()
	}
	return m.viewClock()
}

func (m model) viewClock() string {
	nowMs := time.Now().UnixMilli()
	now := m.st.Snapshot(nowMs)

	var b strings.Builder
	b.WriteString(m.styles.Panel.Render(m.renderClockFace(now, nowMs)))
	b.WriteString("\n")
	b.WriteString(m.styles.Panel.Render(m.renderTimers(nowMs)))
	if m.showPresets {
		b.WriteString("\n")
		b.WriteString(m.styles.Panel.Render(m.renderPresets(now, nowMs)))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("a add · c calibrate · p presets · space toggle · d delete · n died · K ph kill · x ph clear · s stop · ? help · q quit"))
	return b.String()
}

func (m model) renderClockFace(now vanadiel.VanaNow, nowMs int64) string {
	day := weekdayStyle(now.Weekday).Render(string(now.Weekday))
	clock := fmt.Sprintf("%s:%s", timeparse.Pad2(now.Hour), timeparse.Pad2(now.Minute))

	dir := vanadiel.MoonDirectionFromStep(now.MoonStep)
	moon := moonPhaseStyle(now.MoonPhaseName).Render(
		fmt.Sprintf("%s %d%% %s", moonDirGlyph(dir), now.MoonPercent, now.MoonPhaseName))
	nextStep := m.styles.Muted.Render(
		"next moon step in " + timeparse.FormatCountdown(now.NextMoonStepAtEarthMs-nowMs))

	title := m.styles.Title.Render("Vana'diel Clock")
	return fmt.Sprintf("%s\n%s %s   %s   %s", title, day, clock, moon, nextStep)
}

func (m model) renderTimers(nowMs int64) string {
	if len(m.st.Timers) == 0 {
		return m.styles.Muted.Render("no timers — press a to add one")
	}

	var lines []string
	for i, t := range m.st.Timers {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		state := "●"
		if !t.Enabled {
			state = "○"
		}

		next := "—"
		if at, ok := m.st.NextEventAt(t.ID, nowMs); ok {
			next = fmt.Sprintf("in %s (%s)",
				timeparse.FormatCountdown(at-nowMs),
				time.UnixMilli(at).Local().Format("Mon 15:04:05"))
		}

		extra := ""
		if t.Kind == timer.KindNmLottery && t.PhNextAtMs != nil {
			extra = "  PH armed"
		}

		line := fmt.Sprintf("%s%s %-24s %-10s %s%s", marker, state, clip(t.Label, 24), kindLabel(t.Kind), next, extra)
		switch {
		case i == m.cursor:
			line = m.styles.Selected.Render(line)
		case !t.Enabled:
			line = m.styles.Disabled.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m model) renderPresets(now vanadiel.VanaNow, nowMs int64) string {
	var targets []guild.LabeledTarget
	for _, p := range []guild.Preset{guild.CookingGuild, guild.LeathercraftGuild, guild.ClothcraftGuild, guild.NextDig} {
		targets = append(targets, guild.LabeledTarget{
			Label:  p.Label,
			Target: guild.NextAlertTarget(now, p.Schedule, m.presetOffsetHours),
		})
	}
	targets = append(targets, guild.NextTenshodoTargets(now, m.presetOffsetHours)...)
	targets = guild.MergeTargets(targets)

	header := m.styles.Title.Render(fmt.Sprintf("Guild alerts (lead %dh)", m.presetOffsetHours))
	lines := []string{header}
	for _, tg := range targets {
		at := vanadiel.NextEarthMsForWeekdayTime(nowMs, &m.st.Cal, tg.Weekday, tg.Hour, tg.Minute)
		when := fmt.Sprintf("%s %s:%s",
			weekdayStyle(tg.Weekday).Render(string(tg.Weekday)),
			timeparse.Pad2(tg.Hour), timeparse.Pad2(tg.Minute))
		lines = append(lines, fmt.Sprintf("  %-44s %s  in %s",
			clip(tg.Label, 44), when, timeparse.FormatCountdown(at-nowMs)))
	}
	return strings.Join(lines, "\n")
}

func (m model) viewAddForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Add timer"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("kind: %s %s\n\n",
		m.styles.Key.Render(kindLabel(addKinds[f.kindIdx])),
		m.styles.Muted.Render("(ctrl+k to change)")))

	for i, fld := range f.fields {
		cursor := "  "
		if i == f.fieldIdx {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-32s %s", cursor, fld.name+":", fld.value)
		if i == f.fieldIdx {
			line = m.styles.Selected.Render(line + "▏")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if f.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(f.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter next/submit · tab move · esc cancel"))
	return m.styles.Panel.Render(b.String())
}

func (m model) viewCalibrationForm() string {
	f := m.cal
	now := m.st.Snapshot(time.Now().UnixMilli())

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Calibration"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("clock currently reads %s %s:%s",
		now.Weekday, timeparse.Pad2(now.Hour), timeparse.Pad2(now.Minute))))
	b.WriteString("\n\n")

	for i, fld := range f.fields {
		cursor := "  "
		if i == f.fieldIdx {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-36s %s", cursor, fld.name+":", fld.value)
		if i == f.fieldIdx {
			line = m.styles.Selected.Render(line + "▏")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if f.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Warning.Render(f.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter apply · ctrl+r reset to defaults · esc cancel"))
	return m.styles.Panel.Render(b.String())
}

func clip(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
