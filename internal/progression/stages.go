package progression

// Stage is a character evolution step. Stages are totally ordered by
// MinScore, the highest MinScore <= score wins.
type Stage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	MinScore int    `json:"min_score"`
}

var stages = []Stage{
	{ID: "basic", Title: "Novice Stick Figure", MinScore: 0},
	{ID: "knife", Title: "Knife Wielder", MinScore: 5},
	{ID: "sword", Title: "Sword Master", MinScore: 10},
	{ID: "axe", Title: "Axe Champion", MinScore: 15},
}

func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

func StageForScore(score int) Stage {
	current := stages[0]
	for _, s := range stages[1:] {
		if score < s.MinScore {
			break
		}
		current = s
	}
	return current
}
