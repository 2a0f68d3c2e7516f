package model

import (
	"slices"

	"go.uber.org/zap"
)

// refine allocates the students up to Attempts times, evening out the classes of every allocation, and keeps the
// allocation with the smallest worst spread. It stops early once every subject is within MaxSpread
func (state *searchState) refine() (Timetable, error) {
	best, bestSpread := Timetable{}, -1

	attempts := 0
	for attempts < state.options.Attempts {
		attempts++
		state.metrics.RefinementAttempts.Inc()

		if err := state.allocate(); err != nil {
			return Timetable{}, err
		}
		state.makeEfficient()

		timetable := state.snapshot()
		spread := timetable.WorstSpread()
		state.logger.Debug("refinement attempt", zap.Int("attempt", attempts), zap.Int("worstSpread", spread))

		if bestSpread < 0 || spread < bestSpread {
			best, bestSpread = timetable, spread
		}
		if spread <= state.options.MaxSpread {
			break
		}
	}

	best.Attempts = attempts
	best.Perfect = bestSpread <= state.options.MaxSpread
	state.metrics.WorstSpread.Set(float64(bestSpread))

	if !best.Perfect {
		state.logger.Warn("classes could not be balanced",
			zap.Int("attempts", attempts),
			zap.Int("worstSpread", bestSpread),
			zap.Int("maxSpread", state.options.MaxSpread),
		)
	}

	return best, nil
}

// makeEfficient moves students between the valid permutations of their blocks to even out the classes of each
// multi-section subject, from the least to the most popular. A move never enlarges a class of a subject ranked at or
// below the one being evened out
func (state *searchState) makeEfficient() {
	for _, target := range state.input.Ranking {
		subject := state.input.Subjects[target]
		if subject.Sections < 2 {
			continue
		}

		for _, student := range subject.Students {
			if float64(slices.Max(state.counters[target])) < 1+subject.PerClass() {
				break
			}

			for _, permutation := range state.permutations[student] {
				if state.improves(student, target, permutation) {
					state.commit(student, permutation)
					break
				}
			}
		}
	}
}

// improves checks whether the permutation moves the student to another class of target without moving it to a more
// (or equally) populated class of any subject ranked at or below target
func (state *searchState) improves(student, target int, permutation []Block) bool {
	subjects := state.input.Students[student].Subjects
	rank := state.input.Subjects[target].Rank

	for slot, newBlock := range permutation {
		subject, oldBlock := subjects[slot], state.assignment[student][slot]
		if newBlock == oldBlock {
			if subject == target {
				return false
			}
			continue
		}
		if state.input.Subjects[subject].Rank <= rank && state.counters[subject][newBlock] >= state.counters[subject][oldBlock] {
			return false
		}
	}
	return true
}

func (state *searchState) commit(student int, permutation []Block) {
	subjects := state.input.Students[student].Subjects
	for slot, newBlock := range permutation {
		oldBlock := state.assignment[student][slot]
		if newBlock == oldBlock {
			continue
		}
		state.counters[subjects[slot]][oldBlock]--
		state.counters[subjects[slot]][newBlock]++
		state.assignment[student][slot] = newBlock
	}
}
