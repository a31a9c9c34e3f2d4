package entities

// Position represents a side of a binary market
type Position string

const (
	PositionYes Position = "yes"
	PositionNo  Position = "no"
)

// IsValid checks that the position is one of the two recognized sides
func (p Position) IsValid() bool {
	return p == PositionYes || p == PositionNo
}

// Opposite returns the complementary position
func (p Position) Opposite() Position {
	if p == PositionYes {
		return PositionNo
	}
	return PositionYes
}

// String returns the string representation of the position
func (p Position) String() string {
	return string(p)
}
