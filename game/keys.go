package game

import (
	"strings"

	"github.com/zucenko/minepath/model"
)

var keyDirections = map[string]model.Direction{
	"arrowup":    model.Up,
	"arrowdown":  model.Down,
	"arrowleft":  model.Left,
	"arrowright": model.Right,
	"w":          model.Up,
	"s":          model.Down,
	"a":          model.Left,
	"d":          model.Right,
}

// DirectionForKey maps a key name (arrow keys or w/a/s/d, any case) to a
// direction. Other keys report false.
func DirectionForKey(key string) (model.Direction, bool) {
	d, ok := keyDirections[strings.ToLower(key)]
	return d, ok
}
