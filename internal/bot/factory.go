package bot

import "fmt"

// Level selects a bot strategy.
type Level int

const (
	LevelGreedy Level = iota
)

// NewBrain creates a strategy for the given level.
func NewBrain(level Level) (Brain, error) {
	switch level {
	case LevelGreedy:
		return &Greedy{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
