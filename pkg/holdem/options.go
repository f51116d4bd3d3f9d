package holdem

import "errors"

// Options configures a table
type Options struct {
	// Seats is the number of seats at the table
	Seats int
	// SmallBlind and BigBlind are the forced bets
	SmallBlind int
	BigBlind   int
	// MinBuyIn and MaxBuyIn bound the chips a player may sit down with
	MinBuyIn int
	MaxBuyIn int
	// RakeRate is the fraction of the pot the house takes, capped at RakeCap
	RakeRate float64
	RakeCap  int
	// HandHistorySize bounds the in-memory completed-hand buffer
	HandHistorySize int
}

// DefaultOptions returns the default options for a table
func DefaultOptions() Options {
	return Options{
		Seats:           6,
		SmallBlind:      5,
		BigBlind:        10,
		MinBuyIn:        200,
		MaxBuyIn:        2000,
		RakeRate:        0.05,
		RakeCap:         50,
		HandHistorySize: 100,
	}
}

func validateOptions(opts Options) error {
	if opts.Seats < 2 {
		return errors.New("table must have at least two seats")
	}

	if opts.SmallBlind <= 0 || opts.BigBlind <= 0 {
		return errors.New("blinds must be > 0")
	}

	if opts.SmallBlind > opts.BigBlind {
		return errors.New("small blind must not exceed the big blind")
	}

	if opts.MinBuyIn <= 0 || opts.MinBuyIn > opts.MaxBuyIn {
		return errors.New("buy-in bounds are invalid")
	}

	if opts.RakeRate < 0 || opts.RakeRate >= 1 {
		return errors.New("rake rate must be in [0, 1)")
	}

	if opts.RakeCap < 0 {
		return errors.New("rake cap must be >= 0")
	}

	if opts.HandHistorySize <= 0 {
		return errors.New("hand history size must be > 0")
	}

	return nil
}
