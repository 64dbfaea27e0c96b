package engine

import "time"

// DropTiming describes how the gravity interval shrinks with level.
type DropTiming struct {
	Base time.Duration // Interval at level 1
	Step time.Duration // Reduction per level above 1
	Min  time.Duration // Floor
}

// DefaultDropTiming is 1000ms at level 1, 100ms faster per level, never below 100ms.
func DefaultDropTiming() DropTiming {
	return DropTiming{
		Base: 1000 * time.Millisecond,
		Step: 100 * time.Millisecond,
		Min:  100 * time.Millisecond,
	}
}

// Interval returns max(Min, Base - (level-1)*Step).
func (t DropTiming) Interval(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	d := t.Base - time.Duration(level-1)*t.Step
	return max(d, t.Min)
}

// LevelForLines returns floor(lines/perLevel) + 1.
func LevelForLines(lines, perLevel int) int {
	if perLevel <= 0 {
		perLevel = 10
	}
	return lines/perLevel + 1
}
