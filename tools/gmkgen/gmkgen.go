package main

import (
	"flag"
	"log"
	"time"

	"github.com/mogaika/gmk_browser/gmk"
)

// gmkgen writes random consistent project, used to test editors and this codec
func main() {
	var out string
	var seed int64
	var version int
	var defrag bool
	flag.StringVar(&out, "o", "random.gmk", "Output project")
	flag.Int64Var(&seed, "seed", 0, "Random seed, current time when 0")
	flag.IntVar(&version, "version", 810, "Container version (800 or 810)")
	flag.BoolVar(&defrag, "defrag", false, "Remove placeholders before saving")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	v, err := gmk.VersionFromCode(uint32(version))
	if err != nil {
		log.Fatal(err)
	}

	f := gmk.Generate(seed)
	f.Version = v
	if defrag {
		f.DefragmentResources()
	}
	if err := f.Save(out); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated %s with seed %d: %d objects, %d rooms", out, seed, len(f.Objects), len(f.Rooms))
}
