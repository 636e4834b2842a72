package engine

import (
	"github.com/google/uuid"

	"github.com/suderio/dragondice/internal/data"
)

// EffectBehavior is what an active effect does.
type EffectBehavior string

const (
	BehaviorModifier     EffectBehavior = "modifier"
	BehaviorKillRedirect EffectBehavior = "kill_redirect"
	BehaviorNoSave       EffectBehavior = "no_save"
	BehaviorNoID         EffectBehavior = "no_id"
)

// ModOp is a modifier's arithmetic operation.
type ModOp string

const (
	OpAdd      ModOp = "add"
	OpSubtract ModOp = "subtract"
	OpMultiply ModOp = "multiply"
	OpDivide   ModOp = "divide"
)

// Duration is an effect's expiry predicate.
type Duration string

const (
	DurationOwnersNextTurn Duration = "owners_next_turn"
	DurationActionEnd      Duration = "action_end"
	DurationUntilRerolled  Duration = "until_rerolled"
	DurationPermanent      Duration = "permanent"
)

// Effect is one active modification. Modifier effects carry Op, Result and
// Magnitude; kill redirects carry RedirectTo; no_save and no_id effects
// carry neither. Skips delays an owners_next_turn expiry by whole turns,
// for effects worded "until the end of the owner's next turn".
type Effect struct {
	ID         string         `json:"id"`
	Target     EffectTarget   `json:"target"`
	Behavior   EffectBehavior `json:"behavior"`
	Op         ModOp          `json:"op,omitempty"`
	Result     ResultType     `json:"result,omitempty"`
	Magnitude  int            `json:"magnitude,omitempty"`
	RedirectTo ZoneKind       `json:"redirect_to,omitempty"`
	Duration   Duration       `json:"duration"`
	Skips      int            `json:"skips,omitempty"`
	Source     string         `json:"source"`
	Owner      string         `json:"owner"`
}

// effectFromSpec builds an effect from its catalog description. The caller
// supplies the concrete target, which must be of the kind the catalog entry
// declares.
func effectFromSpec(spec data.EffectSpec, target EffectTarget, source, owner string) (*Effect, error) {
	if string(target.Kind) != spec.Target {
		return nil, validationErrf("%s targets a %s, not %s %s", source, spec.Target, target.Kind, target.ID)
	}
	e := &Effect{
		Target:     target,
		Behavior:   EffectBehavior(spec.Behavior),
		Op:         ModOp(spec.Op),
		Magnitude:  spec.Magnitude,
		RedirectTo: ZoneKind(spec.RedirectTo),
		Duration:   Duration(spec.Duration),
		Source:     source,
		Owner:      owner,
	}
	if spec.Result != "" {
		rt, err := ParseResultType(spec.Result)
		if err != nil {
			return nil, err
		}
		e.Result = rt
	}
	return e, nil
}

// EffectManager tracks active effects and their expiry triggers.
type EffectManager struct {
	effects map[string]*Effect
	order   []string
	swept   map[string]int // player -> turn of the last turn-start sweep
}

// NewEffectManager creates an empty manager.
func NewEffectManager() *EffectManager {
	return &EffectManager{effects: make(map[string]*Effect), swept: make(map[string]int)}
}

// Register validates and activates an effect, assigning a handle when the
// caller did not. A second multiply or divide for the same (target,
// result-type) is rejected, never silently replaced.
func (m *EffectManager) Register(e *Effect) error {
	if err := m.Check(e); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.effects[e.ID] = e
	m.order = append(m.order, e.ID)
	return nil
}

// Check validates an effect against the active set plus any staged effects
// that have not been registered yet. Used by transactional casters that
// must reject a whole batch before applying any of it.
func (m *EffectManager) Check(e *Effect, staged ...*Effect) error {
	switch e.Behavior {
	case BehaviorModifier:
		switch e.Op {
		case OpAdd, OpSubtract, OpMultiply, OpDivide:
		default:
			return validationErrf("effect %s: unknown modifier op %q", e.Source, e.Op)
		}
		if e.Magnitude <= 0 {
			return validationErrf("effect %s: magnitude must be positive", e.Source)
		}
		if e.Result == "" {
			return validationErrf("effect %s: modifier needs a result type", e.Source)
		}
	case BehaviorKillRedirect:
		switch e.RedirectTo {
		case ZoneReserve, ZoneBUA:
		default:
			return validationErrf("effect %s: illegal kill redirect %q", e.Source, e.RedirectTo)
		}
	case BehaviorNoSave, BehaviorNoID:
	default:
		return validationErrf("effect %s: unknown behavior %q", e.Source, e.Behavior)
	}
	switch e.Duration {
	case DurationOwnersNextTurn, DurationActionEnd, DurationUntilRerolled, DurationPermanent:
	default:
		return validationErrf("effect %s: unknown duration %q", e.Source, e.Duration)
	}
	switch e.Target.Kind {
	case TargetArmy, TargetUnit:
	default:
		return validationErrf("effect %s: unknown target kind %q", e.Source, e.Target.Kind)
	}

	if e.Behavior == BehaviorModifier && (e.Op == OpMultiply || e.Op == OpDivide) {
		for _, other := range m.ordered() {
			if conflicts(other, e) {
				return ruleErrf("a %s modifier for %s on %s %s is already active",
					e.Op, e.Result, e.Target.Kind, e.Target.ID)
			}
		}
		for _, other := range staged {
			if conflicts(other, e) {
				return ruleErrf("a %s modifier for %s on %s %s is already staged",
					e.Op, e.Result, e.Target.Kind, e.Target.ID)
			}
		}
	}
	return nil
}

func conflicts(active, e *Effect) bool {
	return active.Behavior == BehaviorModifier &&
		active.Op == e.Op &&
		active.Target == e.Target &&
		active.Result == e.Result
}

// ActiveEffectsFor returns the modifier effects applying to a target and
// result type, in registration order.
func (m *EffectManager) ActiveEffectsFor(target EffectTarget, rt ResultType) []*Effect {
	var out []*Effect
	for _, e := range m.ordered() {
		if e.Behavior == BehaviorModifier && e.Target == target && e.Result == rt {
			out = append(out, e)
		}
	}
	return out
}

// KillRedirect returns the alternate kill destination for an army, if a
// redirect effect is active.
func (m *EffectManager) KillRedirect(armyID string) (ZoneKind, bool) {
	for _, e := range m.ordered() {
		if e.Behavior == BehaviorKillRedirect && e.Target.Kind == TargetArmy && e.Target.ID == armyID {
			return e.RedirectTo, true
		}
	}
	return "", false
}

// SavesForbidden reports whether an active effect denies the target a save
// roll.
func (m *EffectManager) SavesForbidden(target EffectTarget) bool {
	for _, e := range m.ordered() {
		if e.Behavior == BehaviorNoSave && e.Target == target {
			return true
		}
	}
	return false
}

// IDForbidden reports whether the target's ID faces count for nothing, as
// under a death dragon's breath.
func (m *EffectManager) IDForbidden(target EffectTarget) bool {
	for _, e := range m.ordered() {
		if e.Behavior == BehaviorNoID && e.Target == target {
			return true
		}
	}
	return false
}

// ExpireAtTurnStart purges effects that end at the beginning of their
// owner's turn. Effects with a whole-turn delay spend it instead. The sweep
// is keyed by turn number, so repeating the call changes nothing.
func (m *EffectManager) ExpireAtTurnStart(player string, turn int) []Event {
	if m.swept[player] == turn {
		return nil
	}
	m.swept[player] = turn
	events := m.expireWhere(func(e *Effect) bool {
		return e.Duration == DurationOwnersNextTurn && e.Owner == player && e.Skips == 0
	})
	for _, e := range m.ordered() {
		if e.Duration == DurationOwnersNextTurn && e.Owner == player && e.Skips > 0 {
			e.Skips--
		}
	}
	return events
}

// ExpireAtActionEnd purges end-of-action effects and tears down army-scoped
// effects whose army was reduced to zero units. The dissolution check runs
// only at this boundary, never mid-action.
func (m *EffectManager) ExpireAtActionEnd(dissolved func(armyID string) bool) []Event {
	return m.expireWhere(func(e *Effect) bool {
		if e.Duration == DurationActionEnd {
			return true
		}
		return e.Target.Kind == TargetArmy && dissolved(e.Target.ID)
	})
}

// NoteRoll expires until-rerolled effects once their target rolls the
// recorded result type again.
func (m *EffectManager) NoteRoll(target EffectTarget, purpose RollPurpose) []Event {
	return m.expireWhere(func(e *Effect) bool {
		return e.Duration == DurationUntilRerolled && e.Target == target && purpose.counts(e.Result)
	})
}

// ExpireBySource purges every effect registered under a source tag, for
// permanent-until-condition teardowns such as losing an eighth face.
func (m *EffectManager) ExpireBySource(source string) []Event {
	return m.expireWhere(func(e *Effect) bool { return e.Source == source })
}

func (m *EffectManager) expireWhere(pred func(*Effect) bool) []Event {
	var events []Event
	var keep []string
	for _, id := range m.order {
		e := m.effects[id]
		if pred(e) {
			delete(m.effects, id)
			events = append(events, &EffectExpiredEvent{Effect: e.ID, Source: e.Source, Target: e.Target})
			continue
		}
		keep = append(keep, id)
	}
	m.order = keep
	return events
}

// Effects returns the active set in registration order, for snapshots.
func (m *EffectManager) Effects() []*Effect {
	return m.ordered()
}

// snapshot deep-copies the active effects in registration order plus the
// turn-start sweep marks.
func (m *EffectManager) snapshot() ([]*Effect, map[string]int) {
	effects := make([]*Effect, 0, len(m.order))
	for _, e := range m.ordered() {
		cp := *e
		effects = append(effects, &cp)
	}
	swept := make(map[string]int, len(m.swept))
	for p, t := range m.swept {
		swept[p] = t
	}
	return effects, swept
}

// restore replaces the manager's contents from a snapshot.
func (m *EffectManager) restore(effects []*Effect, swept map[string]int) error {
	m.effects = make(map[string]*Effect, len(effects))
	m.order = m.order[:0]
	for _, e := range effects {
		if e.ID == "" {
			return validationErrf("effect %s has no id", e.Source)
		}
		if _, dup := m.effects[e.ID]; dup {
			return validationErrf("duplicate effect id %q", e.ID)
		}
		cp := *e
		m.effects[cp.ID] = &cp
		m.order = append(m.order, cp.ID)
	}
	m.swept = make(map[string]int, len(swept))
	for p, t := range swept {
		m.swept[p] = t
	}
	return nil
}

func (m *EffectManager) ordered() []*Effect {
	out := make([]*Effect, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.effects[id])
	}
	return out
}
