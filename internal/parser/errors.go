package parser

import (
	"fmt"
	"strings"
)

// MapError takes a raw input and a participle error, and returns a
// human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your decision")
	}

	parts := strings.Fields(strings.ToLower(input))
	cmd := parts[0]

	switch cmd {
	case "phase":
		return fmt.Errorf("The command phase must be: phase done")
	case "skip":
		return fmt.Errorf("The command skip must be: skip maneuver")
	case "maneuver":
		return fmt.Errorf("The command maneuver must be: maneuver by: <player> army: <army> faces: <unit=icon,...> [counter: <unit=icon,...>]")
	case "turn":
		return fmt.Errorf("The command turn must be: turn terrain: <id> dir: up|down")
	case "action":
		return fmt.Errorf("The command action must be: action melee|missile|magic by: <player> army: <army> [target: <army>]")
	case "roll":
		return fmt.Errorf("The command roll must be: roll faces: <unit=icon[:choice],...>")
	case "saves":
		return fmt.Errorf("The command saves must be: saves faces: <unit=icon,...>")
	case "kills":
		return fmt.Errorf("The command kills must be: kills units: <id,...>")
	case "promote":
		return fmt.Errorf("The command promote must be: promote pairs: <armyUnit=poolUnit,...> or promote none")
	case "cast":
		return fmt.Errorf("The command cast must be: cast spells: <spell[=target],...> or cast none")
	case "reinforce":
		return fmt.Errorf("The command reinforce must be: reinforce units: <id,...> to: <terrain>")
	case "retreat":
		return fmt.Errorf("The command retreat must be: retreat units: <id,...>")
	case "eighth":
		return fmt.Errorf("The command eighth must be: eighth use: <terrain> [unit: <id>] [target: <id>] or eighth pass")
	case "ability":
		return fmt.Errorf("The command ability must be: ability species: <id> use: <name> army: <army> [target: <id>]")
	case "dragon":
		return fmt.Errorf("The command dragon must be: dragon designate: <dragon=target,...> or dragon faces: <dragon=face,...> [rerolls: <dragon=face,...>]")
	case "response":
		return fmt.Errorf("The command response must be: response faces: <unit=icon[:choice],...>")
	case "allocate":
		return fmt.Errorf("The command allocate must be: allocate damage: <dragon=points,...>")
	}

	return fmt.Errorf("I wasn't able to understand your decision")
}
