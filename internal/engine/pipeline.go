package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suderio/dragondice/internal/data"
)

// RollEntry is one submitted die result: the unit that rolled, the face it
// showed (a plain icon kind or an SAI id), and for choice icons and
// combination-roll ID faces the roller's reading.
type RollEntry struct {
	Unit   string `json:"unit"`
	Icon   string `json:"icon"`
	Choice string `json:"choice,omitempty"`
}

// PendingRoll is a physical roll the engine has requested and not yet
// received. Units lists every die that must be reported. NoID suppresses ID
// results for rolls where they do not count, such as a tower missile attack
// against a reserve.
type PendingRoll struct {
	Purpose RollPurpose  `json:"purpose"`
	Target  EffectTarget `json:"target"`
	Units   []string     `json:"units"`
	NoID    bool         `json:"no_id,omitempty"`
}

// RollTotals is the pipeline output, one final count per counted type.
type RollTotals map[ResultType]int

func (t RollTotals) String() string {
	var b strings.Builder
	for _, rt := range ResultTypes {
		n, ok := t[rt]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d %s", n, rt)
	}
	if b.Len() == 0 {
		return "nothing"
	}
	return b.String()
}

// rolledUnit pairs a unit with its die definition for face validation.
type rolledUnit struct {
	unit *Unit
	def  data.UnitDefinition
}

// pools tracks counted results through the modifier steps. Results derived
// from ID faces are consumed last by subtracts and divides, so the two
// origins stay separate until the final totals.
type pools struct {
	raw    map[ResultType]int
	fromID map[ResultType]int
}

func newPools() *pools {
	return &pools{raw: make(map[ResultType]int), fromID: make(map[ResultType]int)}
}

// resolvePipeline turns submitted faces into final totals. The step order is
// fixed: raw tally, SAI yields, ID assignment, adds, subtracts, the single
// multiply, the single divide, then innate saves on top.
func resolvePipeline(defs Definitions, state *GameState, effects *EffectManager, pending *PendingRoll, entries []RollEntry) (RollTotals, error) {
	if pending == nil {
		return nil, protocolErrf("no roll is awaited")
	}
	roster, err := rollRoster(defs, state, pending, entries)
	if err != nil {
		return nil, err
	}
	suppressID := pending.NoID || effects.IDForbidden(pending.Target)

	p := newPools()
	for i, entry := range entries {
		ru := roster[i]
		kind := IconKind(entry.Icon)
		switch {
		case kind == IconID:
			if !hasFace(ru.def, IconID) {
				return nil, invalidRollErrf("unit %s has no id face", ru.unit.ID)
			}
			if suppressID {
				continue
			}
			if err := tallyID(p, pending.Purpose, ru, entry); err != nil {
				return nil, err
			}
		case isActionIcon(kind):
			if !hasFace(ru.def, kind) {
				return nil, invalidRollErrf("unit %s has no %s face", ru.unit.ID, kind)
			}
			if rt, _ := actionIcon(kind); pending.Purpose.counts(rt) {
				p.raw[rt]++
			}
		default:
			if err := tallySAI(p, defs, pending.Purpose, ru, entry); err != nil {
				return nil, err
			}
		}
	}

	for _, rt := range pending.Purpose.Types {
		applyModifiers(p, rt, effects.ActiveEffectsFor(pending.Target, rt))
	}

	totals := make(RollTotals, len(pending.Purpose.Types))
	for _, rt := range pending.Purpose.Types {
		totals[rt] = p.raw[rt] + p.fromID[rt]
	}
	if pending.Purpose.counts(Save) {
		for _, ru := range roster {
			totals[Save] += ru.def.AutoSaves
		}
	}
	return totals, nil
}

// rollRoster checks the submission covers the awaited dice exactly once each
// and resolves the units and their die definitions, in entry order.
func rollRoster(defs Definitions, state *GameState, pending *PendingRoll, entries []RollEntry) ([]rolledUnit, error) {
	awaited := make(map[string]bool, len(pending.Units))
	for _, id := range pending.Units {
		awaited[id] = true
	}
	seen := make(map[string]bool, len(entries))
	roster := make([]rolledUnit, len(entries))
	for i, entry := range entries {
		if !awaited[entry.Unit] {
			return nil, invalidRollErrf("unit %s is not part of this roll", entry.Unit)
		}
		if seen[entry.Unit] {
			return nil, invalidRollErrf("unit %s reported twice", entry.Unit)
		}
		seen[entry.Unit] = true
		u, err := state.Zones.Unit(entry.Unit)
		if err != nil {
			return nil, err
		}
		def, err := defs.Unit(u.Def)
		if err != nil {
			return nil, err
		}
		roster[i] = rolledUnit{unit: u, def: def}
	}
	if len(seen) != len(pending.Units) {
		missing := make([]string, 0, len(pending.Units))
		for _, id := range pending.Units {
			if !seen[id] {
				missing = append(missing, id)
			}
		}
		sort.Strings(missing)
		return nil, invalidRollErrf("missing results for %s", strings.Join(missing, ", "))
	}
	return roster, nil
}

func isActionIcon(k IconKind) bool {
	_, ok := actionIcon(k)
	return ok
}

func hasFace(def data.UnitDefinition, kind IconKind) bool {
	for _, f := range def.Faces {
		if IconKind(f.Kind) == kind {
			return true
		}
	}
	return false
}

func hasSAIFace(def data.UnitDefinition, sai string) bool {
	for _, f := range def.Faces {
		if IconKind(f.Kind) == IconSAI && f.SAI == sai {
			return true
		}
	}
	return false
}

// tallyID credits an ID face: the unit's health in results of the counted
// type. Combination rolls need the roller's assignment; single-purpose rolls
// take it implicitly.
func tallyID(p *pools, purpose RollPurpose, ru rolledUnit, entry RollEntry) error {
	rt := purpose.Types[0]
	if purpose.Combination() {
		if entry.Choice == "" {
			return invalidRollErrf("unit %s: id face on a %s roll needs an assignment", ru.unit.ID, purpose)
		}
		parsed, err := ParseResultType(entry.Choice)
		if err != nil {
			return err
		}
		if !purpose.counts(parsed) {
			return invalidRollErrf("unit %s: id face cannot count %s on a %s roll", ru.unit.ID, parsed, purpose)
		}
		rt = parsed
	}
	p.fromID[rt] += ru.unit.Health
	return nil
}

// tallySAI credits a special action icon according to its catalog yields for
// this purpose. Choice icons consume the roller's reading.
func tallySAI(p *pools, defs Definitions, purpose RollPurpose, ru rolledUnit, entry RollEntry) error {
	def, err := defs.SAI(entry.Icon)
	if err != nil {
		return err
	}
	if !hasSAIFace(ru.def, def.ID) {
		return invalidRollErrf("unit %s has no %s face", ru.unit.ID, def.ID)
	}
	matched := matchYields(def, purpose)
	if len(matched) == 0 {
		return nil
	}
	if def.Choice && len(matched) > 1 {
		if entry.Choice == "" {
			return invalidRollErrf("unit %s: %s needs a reading, one of %s", ru.unit.ID, def.ID, yieldResults(matched))
		}
		picked := false
		for _, y := range matched {
			if y.Result == entry.Choice {
				matched, picked = []data.SAIYield{y}, true
				break
			}
		}
		if !picked {
			return invalidRollErrf("unit %s: %s cannot be read as %s", ru.unit.ID, def.ID, entry.Choice)
		}
	}
	for _, y := range matched {
		rt := ResultType(y.Result)
		if !purpose.counts(rt) {
			continue
		}
		n := y.Count
		if n == 0 {
			n = 1
		}
		if y.PerHealth {
			n *= ru.unit.Health
		}
		p.raw[rt] += n
	}
	return nil
}

func matchYields(def data.SAIDefinition, purpose RollPurpose) []data.SAIYield {
	var out []data.SAIYield
	for _, y := range def.Yields {
		if y.Purpose == "any" || purpose.counts(ResultType(y.Purpose)) {
			out = append(out, y)
		}
	}
	return out
}

func yieldResults(yields []data.SAIYield) string {
	names := make([]string, 0, len(yields))
	for _, y := range yields {
		names = append(names, y.Result)
	}
	return strings.Join(names, " or ")
}

// applyModifiers runs the arithmetic steps for one result type. Adds land in
// the non-ID pool; subtracts and the divide remainder drain the non-ID pool
// before touching ID-derived results; the single multiply scales both.
func applyModifiers(p *pools, rt ResultType, active []*Effect) {
	var adds, subs int
	mul, div := 1, 1
	for _, e := range active {
		switch e.Op {
		case OpAdd:
			adds += e.Magnitude
		case OpSubtract:
			subs += e.Magnitude
		case OpMultiply:
			mul = e.Magnitude
		case OpDivide:
			div = e.Magnitude
		}
	}

	p.raw[rt] += adds
	drain(p, rt, subs)
	p.raw[rt] *= mul
	p.fromID[rt] *= mul
	if div > 1 {
		total := p.raw[rt] + p.fromID[rt]
		drain(p, rt, total-total/div)
	}
}

func drain(p *pools, rt ResultType, n int) {
	if n <= 0 {
		return
	}
	if p.raw[rt] >= n {
		p.raw[rt] -= n
		return
	}
	n -= p.raw[rt]
	p.raw[rt] = 0
	p.fromID[rt] -= n
	if p.fromID[rt] < 0 {
		p.fromID[rt] = 0
	}
}
