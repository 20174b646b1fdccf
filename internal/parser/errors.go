package parser

import (
	"fmt"
	"strings"
)

// Usage holds the syntax line for each command keyword.
var Usage = map[string]string{
	"roll":    "roll",
	"reroll":  "reroll",
	"lock":    "lock <die> [<die>]*",
	"unlock":  "unlock all | unlock <die> [<die>]*",
	"use":     "use <action> [and <action>]*",
	"pass":    "pass",
	"status":  "status",
	"actions": "actions",
	"help":    "help [command]",
	"start":   "start",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.Fields(strings.ToLower(input))[0]
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}

	return fmt.Errorf("I wasn't able to understand your command")
}
