package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator produces unique resource names.
// All generators share randomdata global source, seeded once per generator.
type RandomNameGenerator struct {
	used map[string]struct{}
	Seed int64
}

func (rng *RandomNameGenerator) RandomName(prefix string) string {
	if rng.used == nil {
		rng.used = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(rng.Seed)))
	}
	for {
		name := prefix + randomdata.SillyName()
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

func (rng *RandomNameGenerator) Number(min, max int) int {
	if rng.used == nil {
		rng.RandomName("")
	}
	return randomdata.Number(min, max)
}

func (rng *RandomNameGenerator) Boolean() bool {
	if rng.used == nil {
		rng.RandomName("")
	}
	return randomdata.Boolean()
}

func (rng *RandomNameGenerator) Paragraph() string {
	if rng.used == nil {
		rng.RandomName("")
	}
	return randomdata.Paragraph()
}
