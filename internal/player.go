package internal

import "slices"

type Player struct {
	Id       string `json:"id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

func (p *Player) Snapshot() Player {
	return Player{
		Id:       p.Id,
		Nickname: p.Nickname,
		Score:    p.Score,
	}
}

// SortByScore orders players by score, highest first. Ties keep roster order.
func SortByScore(players []Player) []Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b Player) int {
		return b.Score - a.Score
	})
	return sorted
}
