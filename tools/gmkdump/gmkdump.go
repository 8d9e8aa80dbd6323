package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mogaika/gmk_browser/config"
	"github.com/mogaika/gmk_browser/gmk"
	"github.com/mogaika/gmk_browser/utils"
)

func printTree(f *gmk.File) {
	f.Tree.Walk(func(n *gmk.Node, depth int) bool {
		suffix := ""
		if n.Status == gmk.NodeSecondary && n.Resource == nil {
			suffix = " (missing)"
		}
		fmt.Printf("%s%s%s\n", strings.Repeat("  ", depth), n.Name, suffix)
		return true
	})
}

func main() {
	var in, kind, encoding string
	var index int
	var spew, yaml, tree bool
	flag.StringVar(&in, "i", "", "Input .gmk project")
	flag.StringVar(&kind, "kind", "", "Dump only resources of kind (object, sprite, room, ...)")
	flag.IntVar(&index, "index", -1, "Dump only resource with index, requires -kind")
	flag.StringVar(&encoding, "encoding", "", "Charmap of project strings")
	flag.BoolVar(&spew, "spew", false, "Dump go structures")
	flag.BoolVar(&yaml, "yaml", false, "Dump yaml manifest of whole project")
	flag.BoolVar(&tree, "tree", false, "Print resource tree")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}

	f := gmk.NewFile()
	if err := f.Load(in); err != nil {
		log.Fatal(err)
	}
	log.Printf("Project %v, game id %d, guid %v", f.Version, f.GameID, f.GUID)

	if tree {
		printTree(f)
	}

	if yaml {
		if err := f.ExportYAML(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

	if kind != "" {
		k, ok := gmk.KindFromString(kind)
		if !ok {
			log.Fatalf("Unknown kind %q", kind)
		}
		if index >= 0 {
			res := f.GetResource(k, int32(index))
			if res == nil {
				log.Fatalf("%v %d not found", k, index)
			}
			utils.Dump(res)
			return
		}
		for i, res := range f.Resources(k) {
			if spew {
				utils.Dump(res)
			} else {
				fmt.Printf("%4d %-5v %s\n", i, res.Base().Exists, res.Base().Name)
				if inc, ok := res.(*gmk.IncludeFile); ok && len(inc.Data) != 0 {
					preview := inc.Data
					if len(preview) > 48 {
						preview = preview[:48]
					}
					fmt.Printf("     %s\n", utils.DumpToOneLineString(preview))
				}
			}
		}
	} else if spew {
		utils.Dump(f.Settings, f.GameInformation)
	}
}
