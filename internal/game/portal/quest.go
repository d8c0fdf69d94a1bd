// Package portal implements the portal quest: a 5×5 fog-of-war grid on which
// the player searches for a hidden shard.
//
// Placement is derived from a 32-bit seed, so a seed reproduces the same
// board. Looking reveals the 3×3 neighborhood; moving reveals only the
// destination cell. Walking off the board is refused and remembered as a
// bump so the renderer can draw the wall.
package portal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// GridSize is the side of the quest board.
const GridSize = 5

// ErrInvalidQuest is returned by Validate for a malformed persisted quest.
var ErrInvalidQuest = errors.New("invalid portal quest")

// Direction is a movement direction on the board.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection parses a direction name.
func ParseDirection(s string) (Direction, bool) {
	switch d := Direction(s); d {
	case Up, Down, Left, Right:
		return d, true
	default:
		return "", false
	}
}

// delta returns the coordinate change for a direction. y grows downwards.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// State is the lifecycle state of a portal quest.
type State string

const (
	StateNone        State = "none"
	StateActive      State = "active"
	StateSucceeded   State = "succeeded"
	StateSurrendered State = "surrendered"
)

// Quest is one portal run. At most one is active per profile.
type Quest struct {
	Active   bool   `json:"active"`
	RunID    string `json:"runId,omitempty"`
	GridSize int    `json:"gridSize"`

	PlayerX int `json:"playerX"`
	PlayerY int `json:"playerY"`
	TargetX int `json:"targetX"`
	TargetY int `json:"targetY"`

	Seed uint32 `json:"seed"`

	// Revealed is indexed [y][x]. Cells are only ever set to true.
	Revealed [][]bool `json:"revealed"`

	LastBump  *Direction `json:"lastBump,omitempty"`
	MoveCount int        `json:"moveCount"`
}

// Start creates an active quest from seed. The caller has already paid the
// entry cost. Player and target are drawn uniformly; when they coincide the
// target moves one column to the right, wrapping around.
func Start(seed uint32) *Quest {
	rng := NewMulberry32(seed)
	px, py := rng.IntN(GridSize), rng.IntN(GridSize)
	tx, ty := rng.IntN(GridSize), rng.IntN(GridSize)
	if tx == px && ty == py {
		tx = (tx + 1) % GridSize
	}

	revealed := make([][]bool, GridSize)
	for y := range revealed {
		revealed[y] = make([]bool, GridSize)
	}
	revealed[py][px] = true

	return &Quest{
		Active:   true,
		RunID:    uuid.NewString(),
		GridSize: GridSize,
		PlayerX:  px,
		PlayerY:  py,
		TargetX:  tx,
		TargetY:  ty,
		Seed:     seed,
		Revealed: revealed,
	}
}

func (q *Quest) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < q.GridSize && y < q.GridSize
}

// IsRevealed reports whether the cell has been revealed.
func (q *Quest) IsRevealed(x, y int) bool {
	return q.inBounds(x, y) && q.Revealed[y][x]
}

// Look reveals the 3×3 neighborhood around the player, clipped to the board.
func (q *Quest) Look() {
	q.MoveCount++
	q.LastBump = nil
	for y := q.PlayerY - 1; y <= q.PlayerY+1; y++ {
		for x := q.PlayerX - 1; x <= q.PlayerX+1; x++ {
			if q.inBounds(x, y) {
				q.Revealed[y][x] = true
			}
		}
	}
}

// Move steps the player one cell. Leaving the board is refused: the
// position stays, the bump direction is recorded and Move returns false.
func (q *Quest) Move(dir Direction) bool {
	q.MoveCount++
	q.LastBump = nil

	dx, dy := dir.delta()
	if dx == 0 && dy == 0 {
		return false
	}
	nx, ny := q.PlayerX+dx, q.PlayerY+dy
	if !q.inBounds(nx, ny) {
		bump := dir
		q.LastBump = &bump
		return false
	}

	q.PlayerX, q.PlayerY = nx, ny
	q.Revealed[ny][nx] = true
	return true
}

// Found reports whether the player stands on the target.
func (q *Quest) Found() bool {
	return q.PlayerX == q.TargetX && q.PlayerY == q.TargetY
}

// Finish deactivates the quest. The owner drops it afterwards.
func (q *Quest) Finish() {
	q.Active = false
	q.LastBump = nil
}

// Validate checks a quest decoded from storage.
func (q *Quest) Validate() error {
	if q.GridSize <= 0 || q.GridSize > 16 {
		return fmt.Errorf("%w: grid size %d", ErrInvalidQuest, q.GridSize)
	}
	if len(q.Revealed) != q.GridSize {
		return fmt.Errorf("%w: %d revealed rows", ErrInvalidQuest, len(q.Revealed))
	}
	for y, row := range q.Revealed {
		if len(row) != q.GridSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidQuest, y, len(row))
		}
	}
	if !q.inBounds(q.PlayerX, q.PlayerY) {
		return fmt.Errorf("%w: player at (%d,%d)", ErrInvalidQuest, q.PlayerX, q.PlayerY)
	}
	if !q.inBounds(q.TargetX, q.TargetY) {
		return fmt.Errorf("%w: target at (%d,%d)", ErrInvalidQuest, q.TargetX, q.TargetY)
	}
	if q.Found() {
		return fmt.Errorf("%w: player stands on target", ErrInvalidQuest)
	}
	if q.LastBump != nil {
		if _, ok := ParseDirection(string(*q.LastBump)); !ok {
			return fmt.Errorf("%w: bump direction %q", ErrInvalidQuest, *q.LastBump)
		}
	}
	if q.MoveCount < 0 {
		return fmt.Errorf("%w: move count %d", ErrInvalidQuest, q.MoveCount)
	}
	return nil
}
