package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suderio/dragondice/internal/engine"
)

// ExecuteState renders the read-only game view: whose turn and phase it
// is, what roll the engine awaits, and where every die sits.
func ExecuteState(g *engine.Game) (*Outcome, error) {
	st := g.State()
	var sb strings.Builder

	fmt.Fprintf(&sb, "Turn %d, %s, phase %s\n", g.TurnNumber(), g.TurnPlayer(), g.Phase())
	if pending := g.AwaitedRoll(); pending != nil {
		fmt.Fprintf(&sb, "Awaiting %s roll from: %s\n", pending.Purpose, strings.Join(pending.Units, ", "))
	}

	terrains := make([]string, 0, len(st.Terrains))
	for id := range st.Terrains {
		terrains = append(terrains, id)
	}
	sort.Strings(terrains)

	for _, id := range terrains {
		t := st.Terrains[id]
		fmt.Fprintf(&sb, "\n%s (%s) face %d", t.ID, t.Name, t.Face)
		if t.Controller != "" {
			fmt.Fprintf(&sb, ", captured by %s", t.Controller)
		}
		sb.WriteString("\n")
		for _, a := range st.ArmiesAt(id) {
			fmt.Fprintf(&sb, "  army %s: %s\n", a.ID(), unitLine(st.ArmyUnits(a.ID())))
		}
		for _, d := range st.DragonsAt(id) {
			fmt.Fprintf(&sb, "  dragon %s (%s, health %d)\n", d.ID, d.Kind, d.Health)
		}
	}

	for _, p := range st.Players {
		fmt.Fprintf(&sb, "\n%s:\n", p)
		writePool(&sb, "reserve", st.Zones.UnitsIn(engine.PlayerZone(engine.ZoneReserve, p)))
		writePool(&sb, "dua", st.Zones.UnitsIn(engine.PlayerZone(engine.ZoneDUA, p)))
		writePool(&sb, "bua", st.Zones.UnitsIn(engine.PlayerZone(engine.ZoneBUA, p)))
		writePool(&sb, "summoning", st.Zones.UnitsIn(engine.PlayerZone(engine.ZoneSummoning, p)))
		for _, d := range pooledDragons(st, p) {
			fmt.Fprintf(&sb, "  pooled dragon %s (%s, health %d)\n", d.ID, d.Kind, d.Health)
		}
	}

	return &Outcome{Text: strings.TrimRight(sb.String(), "\n")}, nil
}

func writePool(sb *strings.Builder, name string, units []*engine.Unit) {
	if len(units) == 0 {
		return
	}
	fmt.Fprintf(sb, "  %s: %s\n", name, unitLine(units))
}

func unitLine(units []*engine.Unit) string {
	if len(units) == 0 {
		return "(empty)"
	}
	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, fmt.Sprintf("%s[%s h%d]", u.ID, u.Def, u.Health))
	}
	return strings.Join(parts, " ")
}

func pooledDragons(st *engine.GameState, player string) []*engine.Dragon {
	var out []*engine.Dragon
	for _, d := range st.Dragons {
		if d.Summoner == player && d.Terrain == "" {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
