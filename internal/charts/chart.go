// Package charts turns dashboard series into chart configurations and keeps
// at most one live chart instance per canvas.
package charts

import (
	"errors"
	"fmt"
	"sync"
)

type Dataset struct {
	Label           string     `json:"label"`
	Data            []*float64 `json:"data"`
	BorderColor     string     `json:"borderColor,omitempty"`
	BackgroundColor any        `json:"backgroundColor,omitempty"`
	Fill            bool       `json:"fill"`
	Tension         float64    `json:"tension,omitempty"`
	SpanGaps        bool       `json:"spanGaps"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Config mirrors the configuration object a Chart.js canvas is built from.
type Config struct {
	Type    string         `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

// Instance is a live chart bound to a canvas.
type Instance interface {
	CanvasID() string
	Destroy()
}

// Library builds chart instances. It is the seam to the actual charting
// engine.
type Library interface {
	New(canvasID string, cfg Config) (Instance, error)
}

// Registry owns the chart handles of one page.
type Registry struct {
	lib   Library
	mu    sync.Mutex
	bound map[string]Instance
}

func NewRegistry(lib Library) *Registry {
	return &Registry{
		lib:   lib,
		bound: make(map[string]Instance),
	}
}

// Render replaces the chart on canvasID. The previous instance is destroyed
// before the new one is constructed.
func (r *Registry) Render(canvasID string, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.bound[canvasID]; ok {
		prev.Destroy()
		delete(r.bound, canvasID)
	}
	inst, err := r.lib.New(canvasID, cfg)
	if err != nil {
		return fmt.Errorf("render %s: %w", canvasID, err)
	}
	r.bound[canvasID] = inst
	return nil
}

// Bound reports whether a live instance is attached to canvasID.
func (r *Registry) Bound(canvasID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bound[canvasID]
	return ok
}

// DestroyAll tears down every chart, e.g. on logout.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, inst := range r.bound {
		inst.Destroy()
		delete(r.bound, id)
	}
}

var ErrInvalidConfig = errors.New("invalid chart config")

// MemoryLibrary keeps chart configurations in memory so the view model can
// ship them to the page that paints them.
type MemoryLibrary struct {
	mu   sync.Mutex
	live map[string][]*memoryInstance
}

func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{live: make(map[string][]*memoryInstance)}
}

type memoryInstance struct {
	lib      *MemoryLibrary
	canvasID string
	cfg      Config
}

func (i *memoryInstance) CanvasID() string { return i.canvasID }

func (i *memoryInstance) Destroy() {
	i.lib.remove(i)
}

func (l *MemoryLibrary) New(canvasID string, cfg Config) (Instance, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrInvalidConfig)
	}
	for _, ds := range cfg.Data.Datasets {
		if len(ds.Data) != len(cfg.Data.Labels) {
			return nil, fmt.Errorf("%w: dataset %q has %d values for %d labels",
				ErrInvalidConfig, ds.Label, len(ds.Data), len(cfg.Data.Labels))
		}
	}

	inst := &memoryInstance{lib: l, canvasID: canvasID, cfg: cfg}
	l.mu.Lock()
	l.live[canvasID] = append(l.live[canvasID], inst)
	l.mu.Unlock()
	return inst, nil
}

func (l *MemoryLibrary) remove(inst *memoryInstance) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.live[inst.canvasID]
	for i, candidate := range list {
		if candidate == inst {
			l.live[inst.canvasID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(l.live[inst.canvasID]) == 0 {
		delete(l.live, inst.canvasID)
	}
}

// Live returns the number of live instances on canvasID.
func (l *MemoryLibrary) Live(canvasID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live[canvasID])
}

// Configs returns the configuration of the newest live chart per canvas.
func (l *MemoryLibrary) Configs() map[string]Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Config, len(l.live))
	for id, list := range l.live {
		if len(list) > 0 {
			out[id] = list[len(list)-1].cfg
		}
	}
	return out
}
