package engine

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventUnitKilled       EventType = "UnitKilled"
	EventUnitBuried       EventType = "UnitBuried"
	EventUnitMoved        EventType = "UnitMoved"
	EventUnitRecruited    EventType = "UnitRecruited"
	EventUnitPromoted     EventType = "UnitPromoted"
	EventUnitsExchanged   EventType = "UnitsExchanged"
	EventEffectRegistered EventType = "EffectRegistered"
	EventEffectExpired    EventType = "EffectExpired"
	EventTerrainTurned    EventType = "TerrainTurned"
	EventTerrainCaptured  EventType = "TerrainCaptured"
	EventPhaseAdvanced    EventType = "PhaseAdvanced"
	EventActionResolved   EventType = "ActionResolved"
	EventManeuverResolved EventType = "ManeuverResolved"
	EventSpellCast        EventType = "SpellCast"
	EventDragonSlain      EventType = "DragonSlain"
	EventDragonWinged     EventType = "DragonWinged"
	EventDragonSummoned   EventType = "DragonSummoned"
)

// Event is a discrete notification record emitted after each committed
// mutation: synchronous, in commit order, at most once per event.
type Event interface {
	Type() EventType
	Message() string
}

// Sink receives committed events for the presentation layer to render.
type Sink interface {
	Emit(evt Event)
}

// UnitKilledEvent records a kill and where the unit went (DUA unless a
// redirect or bury side effect chose otherwise).
type UnitKilledEvent struct {
	Unit   string `json:"unit"`
	Player string `json:"player"`
	From   Zone   `json:"from"`
	To     Zone   `json:"to"`
}

func (e *UnitKilledEvent) Type() EventType { return EventUnitKilled }
func (e *UnitKilledEvent) Message() string {
	return fmt.Sprintf("%s is killed (%s -> %s).", e.Unit, e.From, e.To)
}

// UnitBuriedEvent records a DUA to BUA move.
type UnitBuriedEvent struct {
	Unit   string `json:"unit"`
	Player string `json:"player"`
}

func (e *UnitBuriedEvent) Type() EventType { return EventUnitBuried }
func (e *UnitBuriedEvent) Message() string {
	return fmt.Sprintf("%s is buried.", e.Unit)
}

// UnitMovedEvent records a plain custody move.
type UnitMovedEvent struct {
	Unit string `json:"unit"`
	From Zone   `json:"from"`
	To   Zone   `json:"to"`
}

func (e *UnitMovedEvent) Type() EventType { return EventUnitMoved }
func (e *UnitMovedEvent) Message() string {
	return fmt.Sprintf("%s moves from %s to %s.", e.Unit, e.From, e.To)
}

// UnitRecruitedEvent records an eighth-face City recruit.
type UnitRecruitedEvent struct {
	Unit string `json:"unit"`
	Army Zone   `json:"army"`
}

func (e *UnitRecruitedEvent) Type() EventType { return EventUnitRecruited }
func (e *UnitRecruitedEvent) Message() string {
	return fmt.Sprintf("%s is recruited into %s.", e.Unit, e.Army)
}

// UnitPromotedEvent records one promotion exchange.
type UnitPromotedEvent struct {
	From string `json:"from"`
	To   string `json:"to"`
	Army Zone   `json:"army"`
}

func (e *UnitPromotedEvent) Type() EventType { return EventUnitPromoted }
func (e *UnitPromotedEvent) Message() string {
	return fmt.Sprintf("%s is promoted to %s in %s.", e.From, e.To, e.Army)
}

// UnitsExchangedEvent records an atomic zone swap.
type UnitsExchangedEvent struct {
	A string `json:"a"`
	B string `json:"b"`
}

func (e *UnitsExchangedEvent) Type() EventType { return EventUnitsExchanged }
func (e *UnitsExchangedEvent) Message() string {
	return fmt.Sprintf("%s and %s exchange places.", e.A, e.B)
}

// EffectRegisteredEvent records a new active effect.
type EffectRegisteredEvent struct {
	Effect string       `json:"effect"`
	Source string       `json:"source"`
	Target EffectTarget `json:"target"`
}

func (e *EffectRegisteredEvent) Type() EventType { return EventEffectRegistered }
func (e *EffectRegisteredEvent) Message() string {
	return fmt.Sprintf("%s now affects %s %s.", e.Source, e.Target.Kind, e.Target.ID)
}

// EffectExpiredEvent records an effect purge.
type EffectExpiredEvent struct {
	Effect string       `json:"effect"`
	Source string       `json:"source"`
	Target EffectTarget `json:"target"`
}

func (e *EffectExpiredEvent) Type() EventType { return EventEffectExpired }
func (e *EffectExpiredEvent) Message() string {
	return fmt.Sprintf("%s on %s %s expires.", e.Source, e.Target.Kind, e.Target.ID)
}

// TerrainTurnedEvent records a maneuver turning the terrain die.
type TerrainTurnedEvent struct {
	Terrain string `json:"terrain"`
	Face    int    `json:"face"`
	Army    string `json:"army"`
}

func (e *TerrainTurnedEvent) Type() EventType { return EventTerrainTurned }
func (e *TerrainTurnedEvent) Message() string {
	return fmt.Sprintf("%s turns %s to face %d.", e.Army, e.Terrain, e.Face)
}

// TerrainCapturedEvent records an army turning a terrain to its eighth face.
type TerrainCapturedEvent struct {
	Terrain string `json:"terrain"`
	Army    string `json:"army"`
}

func (e *TerrainCapturedEvent) Type() EventType { return EventTerrainCaptured }
func (e *TerrainCapturedEvent) Message() string {
	return fmt.Sprintf("%s captures %s!", e.Army, e.Terrain)
}

// PhaseAdvancedEvent records a sequencer transition.
type PhaseAdvancedEvent struct {
	Player string `json:"player"`
	Phase  Phase  `json:"phase"`
	Turn   int    `json:"turn"`
}

func (e *PhaseAdvancedEvent) Type() EventType { return EventPhaseAdvanced }
func (e *PhaseAdvancedEvent) Message() string {
	return fmt.Sprintf("Turn %d, %s: %s.", e.Turn, e.Player, e.Phase)
}

// ActionResolvedEvent summarizes a committed action.
type ActionResolvedEvent struct {
	Kind   ActionKind `json:"kind"`
	Army   string     `json:"army"`
	Target string     `json:"target,omitempty"`
	Attack int        `json:"attack"`
	Saves  int        `json:"saves"`
	Net    int        `json:"net"`
}

func (e *ActionResolvedEvent) Type() EventType { return EventActionResolved }
func (e *ActionResolvedEvent) Message() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s resolves a %s action", e.Army, e.Kind))
	if e.Target != "" {
		sb.WriteString(fmt.Sprintf(" against %s", e.Target))
	}
	sb.WriteString(fmt.Sprintf(": %d vs %d saves, %d damage.", e.Attack, e.Saves, e.Net))
	return sb.String()
}

// ManeuverResolvedEvent records a maneuver contest outcome.
type ManeuverResolvedEvent struct {
	Army    string `json:"army"`
	Total   int    `json:"total"`
	Counter int    `json:"counter"`
	Won     bool   `json:"won"`
}

func (e *ManeuverResolvedEvent) Type() EventType { return EventManeuverResolved }
func (e *ManeuverResolvedEvent) Message() string {
	if e.Won {
		return fmt.Sprintf("%s wins the maneuver %d to %d.", e.Army, e.Total, e.Counter)
	}
	return fmt.Sprintf("%s loses the maneuver %d to %d.", e.Army, e.Total, e.Counter)
}

// SpellCastEvent records a resolved spell.
type SpellCastEvent struct {
	Spell  string `json:"spell"`
	Caster string `json:"caster"`
	Target string `json:"target,omitempty"`
}

func (e *SpellCastEvent) Type() EventType { return EventSpellCast }
func (e *SpellCastEvent) Message() string {
	if e.Target != "" {
		return fmt.Sprintf("%s casts %s on %s.", e.Caster, e.Spell, e.Target)
	}
	return fmt.Sprintf("%s casts %s.", e.Caster, e.Spell)
}

// DragonSlainEvent records a dragon killed and returned to its pool.
type DragonSlainEvent struct {
	Dragon  string `json:"dragon"`
	Terrain string `json:"terrain"`
}

func (e *DragonSlainEvent) Type() EventType { return EventDragonSlain }
func (e *DragonSlainEvent) Message() string {
	return fmt.Sprintf("Dragon %s is slain at %s.", e.Dragon, e.Terrain)
}

// DragonWingedEvent records a dragon flying back to its Summoning Pool.
type DragonWingedEvent struct {
	Dragon string `json:"dragon"`
}

func (e *DragonWingedEvent) Type() EventType { return EventDragonWinged }
func (e *DragonWingedEvent) Message() string {
	return fmt.Sprintf("Dragon %s flies back to its Summoning Pool.", e.Dragon)
}

// DragonSummonedEvent records a dragon arriving at a terrain.
type DragonSummonedEvent struct {
	Dragon  string `json:"dragon"`
	Terrain string `json:"terrain"`
}

func (e *DragonSummonedEvent) Type() EventType { return EventDragonSummoned }
func (e *DragonSummonedEvent) Message() string {
	return fmt.Sprintf("Dragon %s is summoned to %s.", e.Dragon, e.Terrain)
}
