package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterDashboardRoutes 注册仪表盘路由
func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.Handle("/dashboard/api/v1/session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.CreateSession(w, req)
	})

	r.Handle("/dashboard/api/v1/view", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.View(w, req)
	})

	r.Handle("/dashboard/api/v1/selection", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Selection(w, req)
	})

	r.Handle("/dashboard/api/v1/filters", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Filters(w, req)
	})

	// export/{kind}
	r.Handle("/dashboard/api/v1/export/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		kind := strings.TrimPrefix(req.URL.Path, "/dashboard/api/v1/export/")
		if kind == "" || strings.Contains(kind, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.Export(w, req, kind)
	})
}

// RegisterDoctorRoutes 注册诊断路由
func (r *Router) RegisterDoctorRoutes(d *DoctorHandler) {
	r.Handle("/dashboard/api/v1/doctor", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		d.Doctor(w, req)
	})
}
