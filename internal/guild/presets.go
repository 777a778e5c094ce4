package guild

import (
	"fmt"
	"sort"

	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// Preset is a ready-made schedule the user can turn into timers with one
// action.
type Preset struct {
	Label    string
	Schedule Schedule
}

// Crafting guild presets. Open hours and holiday closures match the in-game
// guild calendars.
var (
	CookingGuild = Preset{
		Label:    "Cooking Guild",
		Schedule: Schedule{OpenHour: 5, ClosedOn: vanadiel.Darksday},
	}
	LeathercraftGuild = Preset{
		Label:    "Leathercraft Guild",
		Schedule: Schedule{OpenHour: 3, ClosedOn: vanadiel.Iceday},
	}
	ClothcraftGuild = Preset{
		Label:    "Clothcraft Guild",
		Schedule: Schedule{OpenHour: 6, ClosedOn: vanadiel.Firesday},
	}
	// NextDig targets the day rollover at 00:00 with no closure.
	NextDig = Preset{
		Label:    "Next Dig",
		Schedule: Schedule{OpenHour: 0},
	}
)

type tenshodoLocation struct {
	Name     string
	Schedule Schedule
}

var tenshodoLocations = []tenshodoLocation{
	{Name: "Lower Jeuno", Schedule: Schedule{OpenHour: 1, ClosedOn: vanadiel.Earthsday}},
	{Name: "Port Bastok", Schedule: Schedule{OpenHour: 1, ClosedOn: vanadiel.Iceday}},
	{Name: "Norg", Schedule: Schedule{OpenHour: 9, ClosedOn: vanadiel.Darksday}},
}

// TenshodoPresets groups the Tenshodo locations that share the exact same
// schedule (open time and closure) into a single labelled preset, ordered by
// open hour.
func TenshodoPresets() []Preset {
	type group struct {
		schedule  Schedule
		locations []string
	}

	groups := map[string]*group{}
	var keys []string
	for _, loc := range tenshodoLocations {
		s := loc.Schedule
		key := fmt.Sprintf("open:%d:%d|closed:%s", s.OpenHour, s.OpenMinute, s.ClosedOn)
		g, ok := groups[key]
		if !ok {
			g = &group{schedule: s}
			groups[key] = g
			keys = append(keys, key)
		}
		g.locations = append(g.locations, loc.Name)
	}

	presets := make([]Preset, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		label := "Tenshodo — " + joinPlus(g.locations)
		if g.schedule.ClosedOn != "" {
			label += fmt.Sprintf(" (closed %s)", g.schedule.ClosedOn)
		}
		presets = append(presets, Preset{Label: label, Schedule: g.schedule})
	}
	sort.SliceStable(presets, func(i, j int) bool {
		return presets[i].Schedule.OpenHour < presets[j].Schedule.OpenHour
	})
	return presets
}

func joinPlus(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " + "
		}
		out += p
	}
	return out
}

// NextTenshodoTargets resolves every Tenshodo preset and merges the ones that
// land on the same fire time.
func NextTenshodoTargets(now vanadiel.VanaNow, offsetHours int) []LabeledTarget {
	presets := TenshodoPresets()
	targets := make([]LabeledTarget, 0, len(presets))
	for _, p := range presets {
		targets = append(targets, LabeledTarget{
			Label:  p.Label,
			Target: NextAlertTarget(now, p.Schedule, offsetHours),
		})
	}
	return MergeTargets(targets)
}
