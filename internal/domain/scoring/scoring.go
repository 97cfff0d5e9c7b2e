// Package scoring defines reward schemes and the ranking order.
//
// A reward scheme maps the number of prior solves of a task to the point
// value awarded for the next solve. The exact decay curve of a dynamic
// scheme is a policy behind the Scheme interface; the default is a linear
// step decay with a floor.
package scoring

import "time"

// Scheme determines a task's point value as a function of how many teams
// already solved it. Value must be non-increasing in solveCount.
type Scheme interface {
	// Value returns the points awarded for solve number solveCount+1.
	Value(solveCount int) int
}

// StaticScheme awards a fixed value regardless of solve count.
type StaticScheme struct {
	Points int
}

// Static builds a fixed-value scheme.
func Static(points int) StaticScheme {
	return StaticScheme{Points: points}
}

// Value implements Scheme.
func (s StaticScheme) Value(int) int {
	return s.Points
}

// DynamicScheme decays the task value by a fixed step per recorded solve,
// never dropping below the floor. Awarded points are frozen per solve, so
// later decay never rewrites history.
type DynamicScheme struct {
	Initial int
	Step    int
	Floor   int
}

// Dynamic builds a step-decay scheme.
func Dynamic(initial, step, floor int) DynamicScheme {
	return DynamicScheme{Initial: initial, Step: step, Floor: floor}
}

// Value implements Scheme.
func (d DynamicScheme) Value(solveCount int) int {
	if solveCount < 0 {
		solveCount = 0
	}
	v := d.Initial - solveCount*d.Step
	if v < d.Floor {
		return d.Floor
	}
	return v
}

// RankLess reports whether team a ranks strictly before team b.
//
// Order: total score descending, then earliest last-solve time ascending
// (the team that reached the score first ranks higher), then team id
// ascending so the order is total over all ranked teams.
func RankLess(scoreA int, lastSolveA time.Time, idA string, scoreB int, lastSolveB time.Time, idB string) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	if !lastSolveA.Equal(lastSolveB) {
		// A team with no solves (zero time) sorts after any scoring team;
		// both such teams have score zero and fall through to the id tie.
		if lastSolveA.IsZero() {
			return false
		}
		if lastSolveB.IsZero() {
			return true
		}
		return lastSolveA.Before(lastSolveB)
	}
	return idA < idB
}
