package game

import (
	"github.com/scythe504/bluffr-backend/internal"
)

// RoundScore is the outcome of one voting round. Deltas is keyed by
// nickname and only holds players that earned points.
type RoundScore struct {
	Deltas  map[string]int
	Answers []internal.AnswerResult
}

// ScoreRound tallies a voting round.
//
// answers is the canonical option list shown to voters, authors maps each
// lie to the nickname that wrote it, and votes maps voter nickname to the
// answer picked. Voting for the truth earns TruthPoints; every vote a lie
// attracts earns its author LiePoints. Votes for answers outside the list
// are ignored.
func ScoreRound(truth string, answers []string, authors map[string]string, votes map[string]string) RoundScore {
	counts := make(map[string]int, len(answers))
	for _, a := range answers {
		counts[a] = 0
	}

	deltas := make(map[string]int)
	for voter, answer := range votes {
		if _, ok := counts[answer]; !ok {
			continue
		}
		counts[answer]++

		if answer == truth {
			deltas[voter] += internal.TruthPoints
			continue
		}
		if author, ok := authors[answer]; ok {
			deltas[author] += internal.LiePoints
		}
	}

	results := make([]internal.AnswerResult, 0, len(answers))
	for _, a := range answers {
		result := internal.AnswerResult{
			Answer:    a,
			Votes:     counts[a],
			IsCorrect: a == truth,
		}
		if author, ok := authors[a]; ok && !result.IsCorrect {
			result.Author = &author
		}
		results = append(results, result)
	}

	return RoundScore{Deltas: deltas, Answers: results}
}
