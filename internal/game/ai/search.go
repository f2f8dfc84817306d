package ai

// ScoreFunc scores the attack made with the candidates at the given indices.
type ScoreFunc func(subset []int) float64

// SearchStrategy picks a subset of n candidates. It returns the best subset
// whose score is strictly greater than baseline, or nil when none is.
type SearchStrategy interface {
	Name() string
	Search(n int, baseline float64, score ScoreFunc) ([]int, float64)
}

// StrategyByName returns the search registered under name ("exhaustive" or
// "greedy").
func StrategyByName(name string) (SearchStrategy, bool) {
	switch name {
	case ExhaustiveSearch{}.Name():
		return ExhaustiveSearch{}, true
	case GreedySearch{}.Name():
		return GreedySearch{}, true
	}
	return nil, false
}

// ExhaustiveSearch scores every non-empty subset, smallest first and in
// lexicographic index order within a size. The first of equal scores wins.
type ExhaustiveSearch struct{}

func (ExhaustiveSearch) Name() string { return "exhaustive" }

func (ExhaustiveSearch) Search(n int, baseline float64, score ScoreFunc) ([]int, float64) {
	var best []int
	bestScore := baseline
	for size := 1; size <= n; size++ {
		combinations(n, size, func(subset []int) {
			if s := score(subset); s > bestScore {
				bestScore = s
				best = append([]int(nil), subset...)
			}
		})
	}
	return best, bestScore
}

// combinations calls fn with every k-subset of [0, n) in lexicographic order.
// fn must not keep the slice.
func combinations(n, k int, fn func([]int)) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// GreedySearch grows the attack one candidate at a time, adding whichever
// candidate improves the score most, until nothing improves it.
type GreedySearch struct{}

func (GreedySearch) Name() string { return "greedy" }

func (GreedySearch) Search(n int, baseline float64, score ScoreFunc) ([]int, float64) {
	var current []int
	currentScore := baseline
	used := make([]bool, n)
	for len(current) < n {
		pick := -1
		pickScore := currentScore
		for i := range n {
			if used[i] {
				continue
			}
			if s := score(insertSorted(current, i)); s > pickScore {
				pick, pickScore = i, s
			}
		}
		if pick < 0 {
			break
		}
		used[pick] = true
		current = insertSorted(current, pick)
		currentScore = pickScore
	}
	return current, currentScore
}

// insertSorted returns a new sorted slice holding subset and i.
func insertSorted(subset []int, i int) []int {
	out := make([]int, 0, len(subset)+1)
	added := false
	for _, v := range subset {
		if !added && i < v {
			out = append(out, i)
			added = true
		}
		out = append(out, v)
	}
	if !added {
		out = append(out, i)
	}
	return out
}
