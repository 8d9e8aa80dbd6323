package main

import (
	"flag"
	"log"
	"strings"

	"github.com/mogaika/gmk_browser/config"
	"github.com/mogaika/gmk_browser/gmk"
	"github.com/mogaika/gmk_browser/status"
	"github.com/mogaika/gmk_browser/web"
)

func main() {
	var addr, gmkpath, encoding, webpath string
	var saveversion, compression int
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&gmkpath, "gmk", "", "Path to .gmk project")
	flag.StringVar(&encoding, "encoding", "", "Charmap of project strings (default Windows 1252), one of: "+strings.Join(config.ListEncodings(), ", "))
	flag.StringVar(&webpath, "web", "web", "Path to folder with static web data")
	flag.IntVar(&saveversion, "saveversion", config.GMKVer81, "Version used to save projects of older versions (800 or 810)")
	flag.IntVar(&compression, "compression", -1, "Deflate level of saved records, -1 is default")
	flag.Parse()

	if gmkpath == "" {
		flag.PrintDefaults()
		return
	}

	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}
	config.SetSaveVersion(saveversion)
	config.SetCompressionLevel(compression)

	f := gmk.NewFile()
	f.OnProgress = status.ProgressReporter("Loading")
	if err := f.Load(gmkpath); err != nil {
		log.Fatal(err)
	}
	f.OnProgress = nil
	status.Info("Loaded %s (version %v)", gmkpath, f.Version)

	if err := web.StartServer(addr, f, gmkpath, webpath); err != nil {
		log.Fatal(err)
	}
}
