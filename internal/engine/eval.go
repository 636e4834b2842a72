package engine

// ruleContext builds the CEL variables a requires predicate sees. The
// caster variable describes the casting group; army its position; game the
// sequencer's view.
func (g *Game) ruleContext(armyID, casterSpecies string, units []*Unit) map[string]any {
	caster := map[string]any{
		"species":  casterSpecies,
		"elements": g.groupElements(units),
		"health":   totalHealth(units),
	}
	army := map[string]any{
		"location":         "",
		"terrain_elements": []string{},
		"size":             len(units),
		"at_eighth_face":   false,
	}
	if a, err := g.state.Army(armyID); err == nil {
		army["location"] = a.Terrain
		if t, err := g.state.Terrain(a.Terrain); err == nil {
			army["terrain_elements"] = elementStrings(t.Elements)
			army["at_eighth_face"] = t.EighthActive() && t.Controller == a.ID()
		}
	}
	game := map[string]any{
		"phase":       string(g.seq.Phase()),
		"turn_player": g.TurnPlayer(),
		"turn":        g.seq.Turn,
	}
	return map[string]any{"caster": caster, "army": army, "game": game}
}

// groupElements is the union of the species elements across a unit group,
// in first-seen order.
func (g *Game) groupElements(units []*Unit) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range units {
		sp, err := g.defs.Species(u.Species)
		if err != nil {
			continue
		}
		for _, el := range sp.Elements {
			if !seen[el] {
				seen[el] = true
				out = append(out, el)
			}
		}
	}
	return out
}

// uniformSpecies returns the shared species of a group, or "" for a mix.
func uniformSpecies(units []*Unit) string {
	if len(units) == 0 {
		return ""
	}
	sp := units[0].Species
	for _, u := range units[1:] {
		if u.Species != sp {
			return ""
		}
	}
	return sp
}

func totalHealth(units []*Unit) int {
	n := 0
	for _, u := range units {
		n += u.Health
	}
	return n
}

func elementStrings(elements []Element) []string {
	out := make([]string, len(elements))
	for i, el := range elements {
		out[i] = string(el)
	}
	return out
}
