package command

import (
	"fmt"
	"strings"

	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

type commandHelp struct {
	Usage   string
	Summary string
}

var commandRegistry = map[string]commandHelp{
	"phase": {
		Usage:   "phase done",
		Summary: "Declares the current phase finished and advances the turn.",
	},
	"skip": {
		Usage:   "skip maneuver",
		Summary: "Declines the maneuver step of a march.",
	},
	"maneuver": {
		Usage:   "maneuver by: <player> army: <army> faces: <unit=icon,...> [counter: <unit=icon,...>]",
		Summary: "Reports a maneuver roll, with any opposing counter-maneuver.",
	},
	"turn": {
		Usage:   "turn terrain: <id> dir: <up|down>",
		Summary: "Turns a terrain die one step after a won maneuver.",
	},
	"action": {
		Usage:   "action <melee|missile|magic> by: <player> army: <army> [target: <army>]",
		Summary: "Opens an action; the terrain face must allow its kind.",
	},
	"roll": {
		Usage:   "roll faces: <unit=icon,...>",
		Summary: "Reports the attack roll the engine asked for.",
	},
	"saves": {
		Usage:   "saves faces: <unit=icon,...>",
		Summary: "Reports the defender's save roll, or breath bury saves.",
	},
	"kills": {
		Usage:   "kills units: <id,...>",
		Summary: "Names the units removed to cover net damage.",
	},
	"promote": {
		Usage:   "promote <none | pairs: <unit=replacement,...>>",
		Summary: "Claims or declines earned promotions.",
	},
	"cast": {
		Usage:   "cast <none | spells: <spell[=target],...>>",
		Summary: "Spends magic results on spells.",
	},
	"reinforce": {
		Usage:   "reinforce units: <id,...> to: <terrain>",
		Summary: "Moves reserve units out to a terrain army.",
	},
	"retreat": {
		Usage:   "retreat units: <id,...>",
		Summary: "Pulls terrain army units back into the reserve.",
	},
	"eighth": {
		Usage:   "eighth <pass | use: <terrain> [unit: <id>] [target: <id>]>",
		Summary: "Spends a captured terrain's eighth face, or passes.",
	},
	"ability": {
		Usage:   "ability species: <id> use: <name> army: <army> [target: <id>]",
		Summary: "Invokes a species ability during the species phase.",
	},
	"dragon": {
		Usage:   "dragon <designate: <dragon=target,...> | faces: <dragon=face,...> [rerolls: <dragon=face,...>]>",
		Summary: "Designates tied dragon targets or reports dragon faces.",
	},
	"response": {
		Usage:   "response faces: <unit=icon,...>",
		Summary: "Reports the attacked army's combined response roll.",
	},
	"allocate": {
		Usage:   "allocate damage: <dragon=points,...>",
		Summary: "Spreads response damage over the attacking dragons.",
	},
	"abort": {
		Usage:   "abort",
		Summary: "Cancels a staged action before its roll resolves.",
	},
	"state": {
		Usage:   "state",
		Summary: "Shows the full game position.",
	},
	"save": {
		Usage:   "save",
		Summary: "Writes the game snapshot to the configured store.",
	},
	"help": {
		Usage:   "help [command|all]",
		Summary: "Shows available commands or details on one.",
	},
}

// helpOrder keeps listings deterministic and roughly in play order.
var helpOrder = []string{
	"phase", "eighth", "ability", "maneuver", "skip", "turn", "action",
	"roll", "saves", "kills", "promote", "cast", "abort",
	"dragon", "response", "allocate",
	"reinforce", "retreat",
	"state", "save", "help",
}

// Completions returns decision stubs in play order for shells that offer
// autocomplete. Each entry ends where the player's own input begins.
func Completions() []string {
	return []string{
		"phase done", "eighth use: ", "eighth pass", "ability species: ",
		"maneuver by: ", "skip maneuver", "turn terrain: ",
		"action melee by: ", "action missile by: ", "action magic by: ",
		"roll faces: ", "saves faces: ", "kills units: ",
		"promote pairs: ", "promote none", "cast spells: ", "cast none", "abort",
		"dragon designate: ", "dragon faces: ", "response faces: ", "allocate damage: ",
		"reinforce units: ", "retreat units: ",
		"state", "save", "help ",
	}
}

// ExecuteHelp renders command guidance: detail for one command, the full
// list, or the commands that make sense in the current phase.
func ExecuteHelp(cmd *parser.HelpCmd, g *engine.Game) (*Outcome, error) {
	if cmd.Topic != "" && !strings.EqualFold(cmd.Topic, "all") {
		h, ok := commandRegistry[strings.ToLower(cmd.Topic)]
		if !ok {
			return nil, fmt.Errorf("unknown command %q", cmd.Topic)
		}
		text := fmt.Sprintf("Command: %s\nUsage: %s\nSummary: %s", strings.ToLower(cmd.Topic), h.Usage, h.Summary)
		return &Outcome{Text: text}, nil
	}

	if strings.EqualFold(cmd.Topic, "all") {
		var sb strings.Builder
		sb.WriteString("Available decisions:\n")
		for _, k := range helpOrder {
			h := commandRegistry[k]
			fmt.Fprintf(&sb, " - %s: %s\n", k, h.Summary)
		}
		return &Outcome{Text: strings.TrimSpace(sb.String())}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "It is %s's %s phase.\n", g.TurnPlayer(), g.Phase())

	if pending := g.AwaitedRoll(); pending != nil {
		fmt.Fprintf(&sb, "The engine is waiting on a %s roll for: %s\n", pending.Purpose, strings.Join(pending.Units, ", "))
	}

	for _, k := range phaseCommands(g.Phase()) {
		h := commandRegistry[k]
		fmt.Fprintf(&sb, " - %s: %s\n", k, h.Summary)
	}
	sb.WriteString(" - state, save, help are always available.\n")
	sb.WriteString("Use 'help all' for the full list.")
	return &Outcome{Text: strings.TrimSpace(sb.String())}, nil
}

// phaseCommands lists the decisions that can move the named phase forward.
func phaseCommands(p engine.Phase) []string {
	switch p {
	case engine.PhaseEighthFace:
		return []string{"eighth", "phase"}
	case engine.PhaseDragonAttack:
		return []string{"dragon", "saves", "kills", "promote", "response", "allocate", "phase"}
	case engine.PhaseSpeciesAbilities:
		return []string{"ability", "phase"}
	case engine.PhaseFirstMarchManeuver, engine.PhaseSecondMarchManeuver:
		return []string{"maneuver", "skip", "turn", "phase"}
	case engine.PhaseFirstMarchAction, engine.PhaseSecondMarchAction:
		return []string{"action", "roll", "saves", "kills", "promote", "cast", "abort", "phase"}
	case engine.PhaseReservesReinforce:
		return []string{"reinforce", "action", "roll", "cast", "phase"}
	case engine.PhaseReservesRetreat:
		return []string{"retreat", "action", "roll", "cast", "phase"}
	}
	return []string{"phase"}
}
