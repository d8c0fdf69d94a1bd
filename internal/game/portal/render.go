package portal

// Cell is the symbolic state of one rendered map cell.
type Cell string

const (
	CellFog    Cell = "fog"
	CellPlayer Cell = "player"
	CellTarget Cell = "target"
	CellFloor  Cell = "floor"
	// CellWall only appears in the bump strip outside the board.
	CellWall Cell = "wall"
)

// Grid is a rendered map, indexed [row][column].
type Grid [][]Cell

// Render draws the board as seen by the player. Unrevealed cells are fog,
// including the target. After a bump an extra strip is drawn on the bumped
// side: wall in line with the player, fog elsewhere. The strip is display
// only and not part of the board.
func (q *Quest) Render() Grid {
	rows := make(Grid, q.GridSize)
	for y := range rows {
		row := make([]Cell, q.GridSize)
		for x := range row {
			row[x] = q.cell(x, y)
		}
		rows[y] = row
	}

	if q.LastBump == nil {
		return rows
	}

	switch *q.LastBump {
	case Right:
		for y := range rows {
			rows[y] = append(rows[y], q.stripCell(y == q.PlayerY))
		}
	case Left:
		for y := range rows {
			rows[y] = append([]Cell{q.stripCell(y == q.PlayerY)}, rows[y]...)
		}
	case Up:
		rows = append(Grid{q.stripRow()}, rows...)
	case Down:
		rows = append(rows, q.stripRow())
	}
	return rows
}

func (q *Quest) cell(x, y int) Cell {
	switch {
	case !q.Revealed[y][x]:
		return CellFog
	case x == q.PlayerX && y == q.PlayerY:
		return CellPlayer
	case x == q.TargetX && y == q.TargetY:
		return CellTarget
	default:
		return CellFloor
	}
}

func (q *Quest) stripCell(wall bool) Cell {
	if wall {
		return CellWall
	}
	return CellFog
}

func (q *Quest) stripRow() []Cell {
	row := make([]Cell, q.GridSize)
	for x := range row {
		row[x] = q.stripCell(x == q.PlayerX)
	}
	return row
}
