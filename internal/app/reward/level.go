// Package reward implements the reward and progression engine: the point
// ledger orchestrator, level and streak calculators, badge evaluator, goal
// evaluator, and achievement progress ladders.
package reward

import "math"

// Level progression is quadratic: level L starts at (L-1)^2 * 100 points,
// giving thresholds 0, 100, 400, 900, 1600 for levels 1-5. Both functions
// below derive from LevelThreshold so they cannot drift apart at the exact
// boundaries.

// LevelThreshold returns the cumulative points required to reach a level.
func LevelThreshold(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n * n * 100
}

// LevelForPoints maps cumulative points to a level number.
func LevelForPoints(points int64) int {
	if points <= 0 {
		return 1
	}
	level := int(math.Sqrt(float64(points)/100.0)) + 1

	// Correct any float rounding at exact thresholds
	for LevelThreshold(level+1) <= points {
		level++
	}
	for level > 1 && LevelThreshold(level) > points {
		level--
	}
	return level
}

// PointsToNextLevel returns points remaining until the next level.
// Non-negative by construction: at an exact threshold the level already
// reflects the higher tier, so the remainder is against the tier after it.
func PointsToNextLevel(points int64) int64 {
	next := LevelThreshold(LevelForPoints(points) + 1)
	remaining := next - points
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
