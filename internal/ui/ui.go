package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/helvetius/vanaclock/internal/config"
	"github.com/helvetius/vanaclock/internal/engine"
	"github.com/helvetius/vanaclock/internal/notify"
	"github.com/helvetius/vanaclock/internal/store"
	"github.com/helvetius/vanaclock/internal/timeparse"
	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

const (
	viewClock       = "clock"
	viewAdd         = "add"
	viewCalibration = "calibration"
	viewHelp        = "help"
)

// saveEveryTicks bounds how stale the persisted timer list can get between
// explicit user actions (Earth timers re-anchor themselves after firing).
const saveEveryTicks = 120

type tickMsg time.Time

type model struct {
	ctx context.Context
	log *zap.Logger
	cfg config.Config
	db  *store.DB

	st        *engine.State
	notifier  *notify.Notifier
	keepAwake notify.KeepAwake

	styles styleSet
	view   string
	cursor int
	width  int
	height int

	showPresets       bool
	presetOffsetHours int

	form addForm
	cal  calForm

	help   string
	status string

	ticksSinceSave int
}

func initialModel(ctx context.Context, db *store.DB, st *engine.State, n *notify.Notifier, ka notify.KeepAwake, cfg config.Config, log *zap.Logger, showPresets bool, presetOffsetHours int) model {
	return model{
		ctx:               ctx,
		log:               log,
		cfg:               cfg,
		db:                db,
		st:                st,
		notifier:          n,
		keepAwake:         ka,
		styles:            defaultStyles(),
		view:              viewClock,
		showPresets:       showPresets,
		presetOffsetHours: presetOffsetHours,
	}
}

func (m model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		nowMs := time.Time(msg).UnixMilli()
		fires := m.st.ApplyTick(nowMs)
		for _, f := range fires {
			m.notifier.Show(f.TimerID, f.Title, f.Body, f.Repeat)
		}
		m.keepAwake.Set(m.st.HasEnabledTimers())

		m.ticksSinceSave++
		if len(fires) > 0 || m.ticksSinceSave >= saveEveryTicks {
			m.persistTimers()
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch m.view {
		case viewAdd:
			return m.updateAdd(msg)
		case viewCalibration:
			return m.updateCalibration(msg)
		case viewHelp:
			if msg.String() == "esc" || msg.String() == "q" || msg.String() == "?" {
				m.view = viewClock
			}
			return m, nil
		default:
			return m.updateClock(msg)
		}
	}
	return m, nil
}

func (m model) updateClock(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nowMs := time.Now().UnixMilli()

	switch msg.String() {
	case "q", "ctrl+c":
		m.notifier.StopAll()
		return m, tea.Quit

	case "?":
		m.ensureHelp()
		m.view = viewHelp

	case "a":
		m.form = newAddForm()
		m.view = viewAdd

	case "c":
		m.cal = newCalForm(m.st.Cal)
		m.view = viewCalibration

	case "p":
		m.showPresets = !m.showPresets
		if err := m.db.SaveShowPresets(m.ctx, m.showPresets); err != nil {
			m.log.Warn("save show_presets", zap.Error(err))
		}

	case "[", "]":
		delta := -1
		if msg.String() == "]" {
			delta = 1
		}
		h := m.presetOffsetHours + delta
		if h < 0 {
			h = 0
		}
		if h > 23 {
			h = 23
		}
		m.presetOffsetHours = h
		if err := m.db.SavePresetOffsetHours(m.ctx, h); err != nil {
			m.log.Warn("save preset offset", zap.Error(err))
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.st.Timers)-1 {
			m.cursor++
		}

	case " ":
		if t := m.selectedTimer(); t != nil {
			if err := m.st.SetEnabled(t.ID, !t.Enabled); err == nil {
				m.persistTimers()
			}
		}

	case "d":
		if t := m.selectedTimer(); t != nil {
			m.notifier.Stop(t.ID)
			m.st.DeleteTimer(t.ID)
			if m.cursor >= len(m.st.Timers) && m.cursor > 0 {
				m.cursor--
			}
			m.persistTimers()
		}

	case "n":
		if t := m.selectedTimer(); t != nil {
			if err := m.st.ResetNmBaseNow(t.ID, nowMs); err != nil {
				m.status = err.Error()
			} else {
				m.status = t.Label + ": time of death set to now"
				m.persistTimers()
			}
		}

	case "K":
		if t := m.selectedTimer(); t != nil {
			if err := m.st.LotteryPhKilledNow(t.ID, nowMs); err != nil {
				m.status = err.Error()
			} else {
				m.status = t.Label + ": placeholder kill recorded"
				m.persistTimers()
			}
		}

	case "x":
		if t := m.selectedTimer(); t != nil {
			if err := m.st.LotteryClearPh(t.ID); err != nil {
				m.status = err.Error()
			} else {
				m.status = t.Label + ": placeholder cleared"
				m.persistTimers()
			}
		}

	case "s":
		m.notifier.StopAll()
		m.status = "alerts stopped"
	}

	return m, nil
}

func (m *model) selectedTimer() *timer.Timer {
	if m.cursor < 0 || m.cursor >= len(m.st.Timers) {
		return nil
	}
	return m.st.Timers[m.cursor]
}

func (m *model) persistTimers() {
	m.ticksSinceSave = 0
	if err := m.db.SaveTimers(m.ctx, m.st.Timers); err != nil {
		m.log.Warn("save timers", zap.Error(err))
	}
}

func (m *model) ensureHelp() {
	if m.help != "" {
		return
	}
	rendered, err := glamour.Render(helpMarkdown, "dark")
	if err != nil {
		m.help = helpMarkdown
		return
	}
	m.help = rendered
}

// ---------- add form ----------

var addKinds = []timer.Kind{
	timer.KindVanaWeekdayTime,
	timer.KindMoonStep,
	timer.KindEarthTime,
	timer.KindNmTimedWindow,
	timer.KindNmLottery,
}

type formField struct {
	name  string
	value string
}

type addForm struct {
	kindIdx  int
	fieldIdx int
	fields   []formField
	status   string
}

func newAddForm() addForm {
	f := addForm{}
	f.fields = fieldsForKind(addKinds[0])
	return f
}

func fieldsForKind(k timer.Kind) []formField {
	switch k {
	case timer.KindVanaWeekdayTime:
		return []formField{
			{name: "label"},
			{name: "weekday"},
			{name: "time (HH:MM)"},
		}
	case timer.KindMoonStep:
		return []formField{
			{name: "label"},
			{name: "direction (waxing/waning)", value: "waxing"},
			{name: "percent (0-100)"},
		}
	case timer.KindEarthTime:
		return []formField{
			{name: "label"},
			{name: "date/time (local)"},
		}
	case timer.KindNmTimedWindow:
		return []formField{
			{name: "label"},
			{name: "time of death (blank = now)"},
			{name: "window start (e.g. 2h)"},
			{name: "window end (e.g. 2.5h)"},
			{name: "pop interval (e.g. 5m)", value: "5m"},
			{name: "warn lead (e.g. 10s)", value: "10s"},
		}
	case timer.KindNmLottery:
		return []formField{
			{name: "label"},
			{name: "time of death (blank = now)"},
			{name: "window start (e.g. 1h)"},
			{name: "warn lead (e.g. 10s)", value: "10s"},
			{name: "PH respawn (e.g. 5m)", value: "5m"},
		}
	}
	return nil
}

// buildTimer turns the raw form fields into a validated timer. nowMs anchors
// the "blank time of death means now" shorthand.
func buildTimer(kind timer.Kind, fields []formField, nowMs int64) (*timer.Timer, error) {
	get := func(i int) string { return strings.TrimSpace(fields[i].value) }

	t := &timer.Timer{Kind: kind, Label: get(0)}
	if t.Label == "" {
		return nil, fmt.Errorf("label is required")
	}

	switch kind {
	case timer.KindVanaWeekdayTime:
		wd, err := parseWeekday(get(1))
		if err != nil {
			return nil, err
		}
		h, mnt, err := parseClock(get(2))
		if err != nil {
			return nil, err
		}
		t.TargetWeekday = wd
		t.TargetHour = h
		t.TargetMinute = mnt

	case timer.KindMoonStep:
		dir := vanadiel.Waxing
		switch strings.ToLower(get(1)) {
		case "waxing", "up", "▲", "":
		case "waning", "down", "▼":
			dir = vanadiel.Waning
		default:
			return nil, fmt.Errorf("direction must be waxing or waning")
		}
		pct, err := strconv.Atoi(get(2))
		if err != nil || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("percent must be 0-100")
		}
		t.TargetMoonStep = vanadiel.StepFromDirectionAndPercent(dir, pct)

	case timer.KindEarthTime:
		at, err := timeparse.ParseLocalDateTime(get(1))
		if err != nil {
			return nil, err
		}
		t.TargetEarthMs = at
		t.RawInput = get(1)

	case timer.KindNmTimedWindow:
		base, err := parseBase(get(1), nowMs)
		if err != nil {
			return nil, err
		}
		start, err := timeparse.ParseDuration(get(2))
		if err != nil {
			return nil, fmt.Errorf("window start: %v", err)
		}
		end, err := timeparse.ParseDuration(get(3))
		if err != nil {
			return nil, fmt.Errorf("window end: %v", err)
		}
		interval, err := timeparse.ParseDuration(get(4))
		if err != nil {
			return nil, fmt.Errorf("pop interval: %v", err)
		}
		warn, err := timeparse.ParseDuration(get(5))
		if err != nil {
			return nil, fmt.Errorf("warn lead: %v", err)
		}
		t.BaseEarthMs = base
		t.WindowStartOffsetMs = start
		t.WindowEndOffsetMs = end
		t.IntervalMs = interval
		t.WarnLeadMs = warn

	case timer.KindNmLottery:
		base, err := parseBase(get(1), nowMs)
		if err != nil {
			return nil, err
		}
		start, err := timeparse.ParseDuration(get(2))
		if err != nil {
			return nil, fmt.Errorf("window start: %v", err)
		}
		warn, err := timeparse.ParseDuration(get(3))
		if err != nil {
			return nil, fmt.Errorf("warn lead: %v", err)
		}
		ph, err := timeparse.ParseDuration(get(4))
		if err != nil {
			return nil, fmt.Errorf("PH respawn: %v", err)
		}
		t.BaseEarthMs = base
		t.WindowStartOffsetMs = start
		t.WarnLeadMs = warn
		t.PhRespawnMs = ph
	}

	return t, nil
}

func parseBase(raw string, nowMs int64) (int64, error) {
	if raw == "" || strings.EqualFold(raw, "now") {
		return nowMs, nil
	}
	return timeparse.ParseLocalDateTime(raw)
}

func parseWeekday(raw string) (vanadiel.Weekday, error) {
	for _, d := range vanadiel.Weekdays {
		if strings.EqualFold(string(d), raw) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// trimLastRune drops the final rune, not the final byte; field values can
// hold multi-byte input like the direction glyphs.
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func parseClock(raw string) (int, int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time must be HH:MM")
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	mnt, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 0 || h > 23 || mnt < 0 || mnt > 59 {
		return 0, 0, fmt.Errorf("time must be HH:MM")
	}
	return h, mnt, nil
}

func (m model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.form

	switch msg.String() {
	case "esc":
		m.view = viewClock
		return m, nil

	case "ctrl+k":
		f.kindIdx = (f.kindIdx + 1) % len(addKinds)
		f.fields = fieldsForKind(addKinds[f.kindIdx])
		f.fieldIdx = 0
		f.status = ""
		return m, nil

	case "tab", "down":
		f.fieldIdx = (f.fieldIdx + 1) % len(f.fields)
		return m, nil

	case "shift+tab", "up":
		f.fieldIdx--
		if f.fieldIdx < 0 {
			f.fieldIdx = len(f.fields) - 1
		}
		return m, nil

	case "enter":
		if f.fieldIdx < len(f.fields)-1 {
			f.fieldIdx++
			return m, nil
		}
		nowMs := time.Now().UnixMilli()
		t, err := buildTimer(addKinds[f.kindIdx], f.fields, nowMs)
		if err != nil {
			f.status = err.Error()
			return m, nil
		}
		if err := m.st.AddTimer(t, nowMs); err != nil {
			f.status = err.Error()
			return m, nil
		}
		m.persistTimers()
		m.status = "added " + t.Label
		m.view = viewClock
		return m, nil

	case "backspace":
		f.fields[f.fieldIdx].value = trimLastRune(f.fields[f.fieldIdx].value)
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		f.fields[f.fieldIdx].value += msg.String()
	}
	return m, nil
}

// ---------- calibration form ----------

type calForm struct {
	fieldIdx int
	fields   []formField
	status   string
}

func newCalForm(cal vanadiel.Calibration) calForm {
	moon := ""
	if cal.NewMoonStartEarthMs > 0 {
		moon = time.UnixMilli(cal.NewMoonStartEarthMs).Local().Format("2006-01-02T15:04:05")
	}
	return calForm{
		fields: []formField{
			{name: "in-game weekday right now"},
			{name: "in-game time right now (HH:MM)"},
			{name: "new moon start (local date/time)", value: moon},
		},
	}
}

func (m model) updateCalibration(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.cal

	switch msg.String() {
	case "esc":
		m.view = viewClock
		return m, nil

	case "tab", "down":
		f.fieldIdx = (f.fieldIdx + 1) % len(f.fields)
		return m, nil

	case "shift+tab", "up":
		f.fieldIdx--
		if f.fieldIdx < 0 {
			f.fieldIdx = len(f.fields) - 1
		}
		return m, nil

	case "ctrl+r":
		m.st.SetCalibration(vanadiel.DefaultCalibration())
		m.saveCalibration()
		f.status = "calibration reset to defaults"
		return m, nil

	case "enter":
		if f.fieldIdx < len(f.fields)-1 {
			f.fieldIdx++
			return m, nil
		}
		if err := m.applyCalibration(); err != nil {
			f.status = err.Error()
			return m, nil
		}
		m.status = "calibration saved"
		m.view = viewClock
		return m, nil

	case "backspace":
		f.fields[f.fieldIdx].value = trimLastRune(f.fields[f.fieldIdx].value)
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		f.fields[f.fieldIdx].value += msg.String()
	}
	return m, nil
}

// applyCalibration updates whichever anchors the user filled in. The day
// snapshot and moon anchor are independent; a blank section leaves its half
// untouched.
func (m *model) applyCalibration() error {
	cal := m.st.Cal

	wdRaw := strings.TrimSpace(m.cal.fields[0].value)
	tRaw := strings.TrimSpace(m.cal.fields[1].value)
	if wdRaw != "" || tRaw != "" {
		wd, err := parseWeekday(wdRaw)
		if err != nil {
			return err
		}
		h, mnt, err := parseClock(tRaw)
		if err != nil {
			return err
		}
		cal = vanadiel.CalibrationFromSnapshot(time.Now().UnixMilli(), wd, h, mnt, cal.NewMoonStartEarthMs)
	}

	moonRaw := strings.TrimSpace(m.cal.fields[2].value)
	if moonRaw != "" {
		at, err := timeparse.ParseLocalDateTime(moonRaw)
		if err != nil {
			return fmt.Errorf("new moon start: %v", err)
		}
		cal.NewMoonStartEarthMs = at
	}

	m.st.SetCalibration(cal)
	m.saveCalibration()
	return nil
}

func (m *model) saveCalibration() {
	if err := m.db.SaveCalibration(m.ctx, m.st.Cal); err != nil {
		m.log.Warn("save calibration", zap.Error(err))
	}
}
