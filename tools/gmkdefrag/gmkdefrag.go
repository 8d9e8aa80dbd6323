package main

import (
	"flag"
	"log"

	"github.com/mogaika/gmk_browser/config"
	"github.com/mogaika/gmk_browser/gmk"
)

func main() {
	var in, out string
	var saveversion, compression int
	flag.StringVar(&in, "i", "", "Input .gmk project")
	flag.StringVar(&out, "o", "", "Output project, input is overwritten when empty")
	flag.IntVar(&saveversion, "saveversion", config.GMKVer81, "Version for projects of older versions (800 or 810)")
	flag.IntVar(&compression, "compression", -1, "Deflate level")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}
	if out == "" {
		out = in
	}
	config.SetSaveVersion(saveversion)
	config.SetCompressionLevel(compression)

	f := gmk.NewFile()
	if err := f.Load(in); err != nil {
		log.Fatal(err)
	}
	f.DefragmentResources()
	if err := f.Save(out); err != nil {
		log.Fatal(err)
	}
	log.Printf("Defragmented %s -> %s, last instance %d, last tile %d",
		in, out, f.LastInstancePlacedID, f.LastTilePlacedID)
}
