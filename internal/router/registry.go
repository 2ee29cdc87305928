package router

import "github.com/gin-gonic/gin"

// APIPrefix is where every feature module is mounted.
const APIPrefix = "/api"

// Module is a feature that registers its routes under the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and API-wide middleware, then mounts them in one
// pass so middleware added with Use applies to every module regardless of
// the order Add was called in.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(APIPrefix)}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
