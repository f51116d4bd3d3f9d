package action

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidAction is returned when an action identifier is not recognized
var ErrInvalidAction = errors.New("invalid action")

// Action represents an action a player can take.
// The set is closed; anything arriving over the wire must pass through
// FromString before it reaches a table.
type Action string

// action constants
const (
	Fold  Action = "fold"
	Check Action = "check"
	Call  Action = "call"
	Raise Action = "raise"
	AllIn Action = "all-in"
)

var allowedActions = map[Action]bool{
	Fold:  true,
	Check: true,
	Call:  true,
	Raise: true,
	AllIn: true,
}

// FromString returns an action for the given string
func FromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	case AllIn:
		return "All-In"
	}

	panic("unknown action")
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// UnmarshalJSON decodes the action from JSON
func (a *Action) UnmarshalJSON(data []byte) error {
	var obj struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	action, err := FromString(obj.ID)
	if err != nil {
		return err
	}

	*a = action
	return nil
}

// LogMessage returns a message formatted for the hand log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called %d", amount)
	case Raise:
		return fmt.Sprintf("raised to %d", amount)
	case AllIn:
		return fmt.Sprintf("went all-in for %d", amount)
	}

	return ""
}
