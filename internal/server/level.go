package server

import (
	"math"

	"github.com/cdrpl/missions"
)

// expTable[i] is the total experience needed to leave level i+1.
var expTable = buildExpTable()

// Required exp grows as 10 * level^1.5, rounded to an integer.
func buildExpTable() [EXP_TABLE_LEVELS]int64 {
	var table [EXP_TABLE_LEVELS]int64

	for i := range table {
		level := float64(i + 1)
		table[i] = int64(math.Round(10 * math.Pow(level, 1.5)))
	}

	return table
}

// Will convert total experience to a level and the experience left until the next one.
// The remaining experience is nil at MAX_LEVEL.
func LevelWithRemain(exp int64) (int, *int64) {
	level := 1

	for _, threshold := range expTable {
		if exp < threshold {
			remain := threshold - exp
			return level, &remain
		}

		level++
	}

	return MAX_LEVEL, nil
}

func ToLevel(exp int64) missions.Level {
	level, remain := LevelWithRemain(exp)

	return missions.Level{
		Level:            level,
		ExperiencePoints: exp,
		Remaining:        remain,
	}
}
