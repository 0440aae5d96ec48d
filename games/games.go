// Package games registers the bundled games by name.
package games

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/games/akq"
	"github.com/timpalpant/obscuro/games/liarsdie"
	"github.com/timpalpant/obscuro/games/pennies"
	"github.com/timpalpant/obscuro/games/rps"
)

var registry = map[string]func() obscuro.Game{
	"pennies":  pennies.New,
	"rps":      rps.New,
	"akq":      akq.New,
	"liarsdie": liarsdie.New,
}

// Lookup returns the constructor of the named game.
func Lookup(name string) (func() obscuro.Game, error) {
	newGame, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown game %q, expected one of %v", name, Names())
	}

	return newGame, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
