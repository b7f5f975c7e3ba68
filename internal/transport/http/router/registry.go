package router

import (
	"sort"
	"sync"

	"daily-task-portal/internal/transport/http/ez"
)

// APIModule mounts routes on /api/v1. public needs no credential; authed runs after AuthJWT.
type APIModule interface{ MountAPI(public, authed ez.EZ) }

// AdminModule mounts routes on /admin/v1; admin requires the admin role.
type AdminModule interface{ MountAdmin(public, admin ez.EZ) }

// Modules with lower priority mount first; the default is 100.
type prioritizer interface{ Priority() int }

// Registry collects modules for both engines. A module may implement either interface or both.
type Registry struct {
	mu    sync.RWMutex
	api   []APIModule
	admin []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountAllAPI(public, authed ez.EZ) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.api...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(public, authed)
	}
}

func (r *Registry) MountAllAdmin(public, admin ez.EZ) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.admin...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(public, admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
