package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/gmk_browser/gmk"
	"github.com/mogaika/gmk_browser/status"
)

var (
	// project is not safe for concurrent use, every handler takes lock
	projectLock sync.RWMutex
	project     *gmk.File
	projectPath string
)

func NewRouter(f *gmk.File, filePath string) *mux.Router {
	project = f
	projectPath = filePath

	r := mux.NewRouter()
	r.HandleFunc("/json/project", HandlerAjaxProject)
	r.HandleFunc("/json/tree", HandlerAjaxTree)
	r.HandleFunc("/json/{kind}", HandlerAjaxKind)
	r.HandleFunc("/json/{kind}/{index:[0-9]+}", HandlerAjaxResource)
	r.HandleFunc("/dump/sprite/{index:[0-9]+}/{subimage:[0-9]+}", HandlerDumpSprite)
	r.HandleFunc("/dump/background/{index:[0-9]+}", HandlerDumpBackground)
	r.HandleFunc("/dump/sound/{index:[0-9]+}", HandlerDumpSound)
	r.HandleFunc("/dump/include/{index:[0-9]+}", HandlerDumpInclude)
	r.HandleFunc("/yaml/project", HandlerYamlProject)
	r.HandleFunc("/action/defragment", HandlerActionDefragment).Methods("POST")
	r.HandleFunc("/action/save", HandlerActionSave).Methods("POST")
	r.HandleFunc("/ws/status", status.ServeWS)
	return r
}

func StartServer(addr string, f *gmk.File, filePath string, webPath string) error {
	r := NewRouter(f, filePath)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
