package models

// PuzzleType selects the puzzle family.
type PuzzleType string

const (
	PuzzleSequence PuzzleType = "sequence"
	PuzzleMatrix   PuzzleType = "matrix"
)

// Puzzle is the fully-generated daily puzzle. It is ephemeral: everything in
// it is re-derivable from (date, difficulty, type), so it is never persisted.
type Puzzle struct {
	Type       PuzzleType `json:"type"`
	Date       string     `json:"date"`
	Difficulty Difficulty `json:"difficulty"`
	// PatternKey identifies the generating rule internally. It is never
	// exposed to the player.
	PatternKey string `json:"pattern_key"`

	// Sequence puzzles: five visible terms and the sixth-term answer.
	Sequence []int `json:"sequence,omitempty"`
	Answer   int   `json:"answer,omitempty"`

	// Matrix puzzles: a row-major 4x4 grid with blanked cells as nil, and
	// the complete solution grid.
	Grid     []*int `json:"grid,omitempty"`
	Solution []int  `json:"solution,omitempty"`

	// Hint is the concept-level description of the rule.
	Hint string `json:"hint"`
}

// PuzzleView is the client-facing projection of a Puzzle. It omits the
// pattern key, the answer/solution and the internal hint text.
type PuzzleView struct {
	Type       PuzzleType `json:"type"`
	Date       string     `json:"date"`
	Difficulty Difficulty `json:"difficulty"`
	Sequence   []int      `json:"sequence,omitempty"`
	Grid       []*int     `json:"grid,omitempty"`
	BlankCount int        `json:"blank_count,omitempty"`
}

// View strips the solution-revealing fields for transport to the client.
func (p *Puzzle) View() PuzzleView {
	v := PuzzleView{
		Type:       p.Type,
		Date:       p.Date,
		Difficulty: p.Difficulty,
		Sequence:   p.Sequence,
		Grid:       p.Grid,
	}
	for _, cell := range p.Grid {
		if cell == nil {
			v.BlankCount++
		}
	}
	return v
}

// BlankIndexes returns the grid positions a matrix puzzle leaves for the
// player to fill, in row-major order.
func (p *Puzzle) BlankIndexes() []int {
	var idx []int
	for i, cell := range p.Grid {
		if cell == nil {
			idx = append(idx, i)
		}
	}
	return idx
}
