package web

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/gmk_browser/gmk"
	"github.com/mogaika/gmk_browser/status"
	"github.com/mogaika/gmk_browser/webutils"
)

type ResourceInfo struct {
	Index  int
	Kind   string
	Name   string
	Exists bool
}

type ResourceView struct {
	ResourceInfo
	Data  interface{}
	Links map[string]*ResourceInfo
}

type ProjectView struct {
	Version              string
	GameID               uint32
	GUID                 string
	Settings             *gmk.Settings
	GameInformation      *gmk.GameInformation
	Constants            []gmk.Constant
	Packages             []string
	LastInstancePlacedID uint32
	LastTilePlacedID     uint32
	Counts               map[string]int
}

type TreeNodeView struct {
	Name     string
	Group    string
	Status   gmk.NodeStatus
	Resource *ResourceInfo   `json:",omitempty"`
	Children []*TreeNodeView `json:",omitempty"`
}

var listedKinds = []gmk.ResourceKind{
	gmk.KindTrigger, gmk.KindSound, gmk.KindSprite, gmk.KindBackground, gmk.KindPath,
	gmk.KindScript, gmk.KindFont, gmk.KindTimeline, gmk.KindObject, gmk.KindRoom, gmk.KindIncludeFile,
}

func info(r gmk.Resource) *ResourceInfo {
	if r == nil {
		return nil
	}
	index := -1
	for i, other := range project.Resources(r.Kind()) {
		if other == r {
			index = i
			break
		}
	}
	return &ResourceInfo{Index: index, Kind: r.Kind().String(), Name: r.Base().Name, Exists: r.Base().Exists}
}

// links lists resolved references of resource by field path
func links(r gmk.Resource) map[string]*ResourceInfo {
	result := make(map[string]*ResourceInfo)
	add := func(name string, res gmk.Resource) {
		if res != nil {
			result[name] = info(res)
		}
	}
	addActions := func(prefix string, actions []*gmk.Action) {
		for i, a := range actions {
			if a.AppliesToObject != nil {
				add(fmt.Sprintf("%s.action%d.object", prefix, i), a.AppliesToObject)
			}
			for j := range a.Arguments {
				add(fmt.Sprintf("%s.action%d.arg%d", prefix, i, j), a.Arguments[j].Link)
			}
		}
	}

	switch res := r.(type) {
	case *gmk.Path:
		if res.Room != nil {
			add("room", res.Room)
		}
	case *gmk.Timeline:
		for i, m := range res.Moments {
			addActions(fmt.Sprintf("moment%d", i), m.Actions)
		}
	case *gmk.Object:
		if res.Sprite != nil {
			add("sprite", res.Sprite)
		}
		if res.Parent != nil {
			add("parent", res.Parent)
		}
		if res.Mask != nil {
			add("mask", res.Mask)
		}
		for i, ev := range res.Events {
			prefix := fmt.Sprintf("event%d.%v", i, ev.Kind)
			if ev.Other != nil {
				add(prefix+".other", ev.Other)
			}
			addActions(prefix, ev.Actions)
		}
	case *gmk.Room:
		for i, bg := range res.Backgrounds {
			if bg.Background != nil {
				add(fmt.Sprintf("background%d", i), bg.Background)
			}
		}
		for i, v := range res.Views {
			if v.Following != nil {
				add(fmt.Sprintf("view%d.following", i), v.Following)
			}
		}
		for _, inst := range res.Instances {
			if inst.Object != nil {
				add(fmt.Sprintf("instance%d", inst.ID), inst.Object)
			}
		}
		for _, t := range res.Tiles {
			if t.Background != nil {
				add(fmt.Sprintf("tile%d", t.ID), t.Background)
			}
		}
	}
	return result
}

func parseKind(r *http.Request) (gmk.ResourceKind, error) {
	name := mux.Vars(r)["kind"]
	kind, ok := gmk.KindFromString(name)
	if !ok {
		return gmk.KindNone, errors.Errorf("Unknown resource kind %q", name)
	}
	return kind, nil
}

// routeIndex parses non negative index route variable fitting int32
func routeIndex(r *http.Request, name string) (int32, error) {
	param := mux.Vars(r)[name]
	index, err := strconv.ParseInt(param, 10, 32)
	if err != nil || index < 0 {
		return 0, errors.Errorf("param '%s' is not valid index", param)
	}
	return int32(index), nil
}

func getResource(r *http.Request, kind gmk.ResourceKind) (gmk.Resource, error) {
	index, err := routeIndex(r, "index")
	if err != nil {
		return nil, err
	}
	res := project.GetResource(kind, index)
	if res == nil {
		return nil, errors.Errorf("%v %d not found", kind, index)
	}
	return res, nil
}

func HandlerAjaxProject(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	view := &ProjectView{
		Version:              project.Version.String(),
		GameID:               project.GameID,
		GUID:                 project.GUID.String(),
		Settings:             project.Settings,
		GameInformation:      project.GameInformation,
		Constants:            project.Constants,
		Packages:             project.Packages,
		LastInstancePlacedID: project.LastInstancePlacedID,
		LastTilePlacedID:     project.LastTilePlacedID,
		Counts:               make(map[string]int),
	}
	for _, kind := range listedKinds {
		view.Counts[kind.String()] = len(project.Resources(kind))
	}
	webutils.WriteJson(w, view)
}

func treeView(n *gmk.Node) *TreeNodeView {
	v := &TreeNodeView{
		Name:     n.Name,
		Group:    n.Group.String(),
		Status:   n.Status,
		Resource: info(n.Resource),
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, treeView(c))
	}
	return v
}

func HandlerAjaxTree(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	if project.Tree == nil {
		webutils.WriteError(w, errors.New("Project has no tree"))
		return
	}
	roots := make([]*TreeNodeView, len(project.Tree.Roots))
	for i, root := range project.Tree.Roots {
		roots[i] = treeView(root)
	}
	webutils.WriteJson(w, roots)
}

func HandlerAjaxKind(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	projectLock.RLock()
	defer projectLock.RUnlock()

	list := project.Resources(kind)
	result := make([]ResourceInfo, len(list))
	for i, res := range list {
		result[i] = ResourceInfo{Index: i, Kind: kind.String(), Name: res.Base().Name, Exists: res.Base().Exists}
	}
	webutils.WriteJson(w, result)
}

func HandlerAjaxResource(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	projectLock.RLock()
	defer projectLock.RUnlock()

	res, err := getResource(r, kind)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, &ResourceView{
		ResourceInfo: *info(res),
		Data:         res,
		Links:        links(res),
	})
}

// bgraImage converts raw 32bit BGRA bitmap
func bgraImage(img *gmk.Image) (image.Image, error) {
	size := int(img.Width) * int(img.Height) * 4
	if size == 0 || len(img.Data) < size {
		return nil, errors.Errorf("Bitmap %dx%d has %d bytes", img.Width, img.Height, len(img.Data))
	}
	out := image.NewNRGBA(image.Rect(0, 0, int(img.Width), int(img.Height)))
	for i := 0; i < size; i += 4 {
		out.Pix[i+0] = img.Data[i+2]
		out.Pix[i+1] = img.Data[i+1]
		out.Pix[i+2] = img.Data[i+0]
		out.Pix[i+3] = img.Data[i+3]
	}
	return out, nil
}

func HandlerDumpSprite(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	res, err := getResource(r, gmk.KindSprite)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	spr := res.(*gmk.Sprite)
	subimage, err := routeIndex(r, "subimage")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	if int(subimage) >= len(spr.Subimages) {
		webutils.WriteError(w, errors.Errorf("Sprite %q has %d subimages", spr.Name, len(spr.Subimages)))
		return
	}
	img, err := bgraImage(&spr.Subimages[subimage])
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteImage(w, img, fmt.Sprintf("%s_%d.png", spr.Name, subimage))
}

func HandlerDumpBackground(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	res, err := getResource(r, gmk.KindBackground)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	bg := res.(*gmk.Background)
	img, err := bgraImage(&bg.Image)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteImage(w, img, bg.Name+".png")
}

func HandlerDumpSound(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	res, err := getResource(r, gmk.KindSound)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	snd := res.(*gmk.Sound)
	if snd.Data == nil {
		webutils.WriteError(w, errors.Errorf("Sound %q has no data", snd.Name))
		return
	}
	webutils.WriteFile(w, bytes.NewReader(snd.Data), snd.Name+snd.Extension)
}

func HandlerDumpInclude(w http.ResponseWriter, r *http.Request) {
	projectLock.RLock()
	defer projectLock.RUnlock()

	res, err := getResource(r, gmk.KindIncludeFile)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	inc := res.(*gmk.IncludeFile)
	if inc.Data == nil {
		webutils.WriteError(w, errors.Errorf("Include file %q is not stored in project", inc.Name))
		return
	}
	webutils.WriteFile(w, bytes.NewReader(inc.Data), inc.Name)
}

func HandlerYamlProject(w http.ResponseWriter, r *http.Request) {
	projectLock.Lock()
	defer projectLock.Unlock()

	var buffer bytes.Buffer
	if err := project.ExportYAML(&buffer); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buffer, fmt.Sprintf("project-%d.yaml", project.GameID))
}

func HandlerActionDefragment(w http.ResponseWriter, r *http.Request) {
	projectLock.Lock()
	defer projectLock.Unlock()

	project.DefragmentResources()
	status.Info("Project defragmented")
	webutils.WriteJson(w, map[string]bool{"ok": true})
}

func HandlerActionSave(w http.ResponseWriter, r *http.Request) {
	projectLock.Lock()
	defer projectLock.Unlock()

	if projectPath == "" {
		webutils.WriteError(w, errors.New("Project has no file path"))
		return
	}
	project.OnProgress = status.ProgressReporter("Saving")
	defer func() { project.OnProgress = nil }()

	if err := project.Save(projectPath); err != nil {
		log.Printf("[web] Save error: %v", err)
		status.Error("Save failed: %v", err)
		webutils.WriteError(w, err)
		return
	}
	status.Info("Saved %s", projectPath)
	webutils.WriteJson(w, map[string]bool{"ok": true})
}
