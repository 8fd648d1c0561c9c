package chunk

import "fmt"

// Direction names one of the four sides of a chunk. Traversal visits
// neighbors in declaration order: Left, Right, Top, Bottom.
type Direction int8

const (
	None   Direction = -1 // no arrival direction (traversal root)
	Left   Direction = 0
	Right  Direction = 1
	Top    Direction = 2
	Bottom Direction = 3
)

// Directions lists the four sides in traversal priority order.
var Directions = [4]Direction{Left, Right, Top, Bottom}

// Opposite returns the side facing d. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	case Bottom:
		return Top
	default:
		return None
	}
}

// Valid reports whether d is one of the four sides.
func (d Direction) Valid() bool {
	return d >= Left && d <= Bottom
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
}

// ParseDirection parses the lower-case side names used in prefab files.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	}
	return None, fmt.Errorf("chunk: unknown side %q", s)
}
