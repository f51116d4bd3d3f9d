package holdem

import "encoding/json"

// Phase represents where a table is in the hand lifecycle
type Phase int

// constants for Phase
const (
	PhaseWaiting Phase = iota
	PhasePreFlop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreFlop:
		return "pre-flop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}

	return ""
}

// communityCards is how many cards are on the board in this phase
func (p Phase) communityCards() int {
	switch p {
	case PhaseFlop:
		return 3
	case PhaseTurn:
		return 4
	case PhaseRiver:
		return 5
	}

	return 0
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// UnmarshalJSON decodes JSON
func (p *Phase) UnmarshalJSON(data []byte) error {
	var obj struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*p = Phase(obj.ID)
	return nil
}
