package holdem

// RuleError is a rejection caused by a player's own request.
// It is safe to relay the message to the caller. A RuleError is always
// raised before any state mutation; the table is unchanged on error.
type RuleError string

func (e RuleError) Error() string {
	return string(e)
}

// rule errors
var (
	ErrInvalidBuyIn      = RuleError("buy-in is outside the table limits")
	ErrTableFull         = RuleError("no seats are available")
	ErrNotEnoughPlayers  = RuleError("at least two players with chips are required")
	ErrUnknownPlayer     = RuleError("player is not seated at this table")
	ErrOutOfTurn         = RuleError("it is not your turn")
	ErrNoActiveHand      = RuleError("no hand is in progress")
	ErrCannotCheck       = RuleError("you cannot check with an active bet")
	ErrNothingToCall     = RuleError("there is no bet to call")
	ErrBelowMinRaise     = RuleError("raise is below the minimum raise")
	ErrInsufficientChips = RuleError("you do not have enough chips")
	ErrHandInProgress    = RuleError("a hand is already in progress")
)
