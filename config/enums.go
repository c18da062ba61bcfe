package config

import (
	"fmt"
	"strings"
)

// Direction labels are placed on the sheet in.
type Direction int

const (
	// DirectionCol fills a column top to bottom before moving right.
	DirectionCol Direction = iota
	// DirectionRow fills a row left to right before moving down.
	DirectionRow
)

var directionNames = []string{"col", "row"}

// DirectionNames returns list of possible string values of Direction.
func DirectionNames() []string {
	out := make([]string, len(directionNames))
	copy(out, directionNames)
	return out
}

func (d Direction) String() string {
	if d.IsValid() {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) IsValid() bool {
	return d >= 0 && int(d) < len(directionNames)
}

// ParseDirection converts case insensitive name to Direction.
func ParseDirection(name string) (Direction, error) {
	for i, n := range directionNames {
		if strings.EqualFold(n, name) {
			return Direction(i), nil
		}
	}
	return Direction(0), fmt.Errorf("%s is not a valid Direction, try [%s]", name, strings.Join(directionNames, ", "))
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid Direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
