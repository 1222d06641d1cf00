package http

import (
	"vetgateway/frontend/activity"
	"vetgateway/frontend/exports"
	"vetgateway/frontend/geocoding"
	"vetgateway/frontend/inventory/locations"
	"vetgateway/frontend/login"
	"vetgateway/frontend/proxy"
	"vetgateway/frontend/purchaseOrders/order"
	"vetgateway/frontend/purchaseOrders/receiving"

	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes registers login/logout routes, which run without a credential.
func (s *Server) RegisterAuthRoutes() {
	s.router.Post("/api/auth/login", login.CreateLoginHandler(s.Upstream, s.Auth.JWTSecret, s.Auth.SecureCookie))
	s.router.Post("/api/auth/logout", login.LogoutHandler(s.Auth.SecureCookie))
}

// RegisterFrontendRoutes registers authenticated feature routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	r.Get("/api/auth/me", login.MeQueryHandler())

	s.RegisterInventoryRoutes(r)
	s.RegisterPurchaseOrderRoutes(r)
	s.RegisterGeocodingRoutes(r)
	s.RegisterExportRoutes(r)

	r.Get("/api/activity", activity.ActivityQueryHandler(s.DB))
	return r
}

func (s *Server) RegisterInventoryRoutes(r chi.Router) {
	r.Get("/api/inventory/batches", locations.ListBatchesQueryHandler(s.Upstream))
	r.Get("/api/inventory/batches/labels.pdf", locations.BatchLabelsQueryHandler(s.Upstream))
	r.Get("/api/inventory/batches/{key}/label.pdf", locations.BatchLabelsQueryHandler(s.Upstream))
	r.Put("/api/inventory/batches/{key}/location", locations.AssignLocationCommandHandler(s.Upstream, s.Audit))
}

func (s *Server) RegisterPurchaseOrderRoutes(r chi.Router) {
	r.Post("/api/purchase-orders/preview", order.PreviewOrderQueryHandler(s.Upstream))
	r.Post("/api/purchase-orders", order.CreateOrderCommandHandler(s.Upstream, s.Audit))
	r.Post("/api/purchase-orders/{id}/receive/preview", receiving.PreviewReceiptQueryHandler(s.Upstream))
	r.Post("/api/purchase-orders/{id}/receive", receiving.ReceiveCommandHandler(s.Upstream, s.Audit))
}

func (s *Server) RegisterGeocodingRoutes(r chi.Router) {
	r.Get("/api/geocode/search", geocoding.SearchQueryHandler(s.Geocoding, s.Auth.SecureCookie))
	r.Get("/api/geocode/reverse", geocoding.ReverseQueryHandler(s.Geocoding))
	r.Post("/api/geocode/permission", geocoding.PermissionCommandHandler())
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	runs := exports.NewRunStore(s.DB)
	r.Get("/api/exports", exports.RecentExportsQueryHandler(runs))
	r.Get("/api/exports/batches.xlsx", exports.BatchesExportHandler(s.Upstream, runs))
	r.Get("/api/exports/purchase-orders.xlsx", exports.PurchaseOrdersExportHandler(s.Upstream, runs))
	r.Get("/api/exports/stock.xlsx", exports.StockExportHandler(s.Upstream, runs))
}

// RegisterProxyRoutes relays allow-listed clinic API resources.
func (s *Server) RegisterProxyRoutes(r chi.Router) {
	h := proxy.ProxyHandler(s.Upstream, s.Audit)
	r.Get("/api/{resource}", h)
	r.Post("/api/{resource}", h)
	r.Get("/api/{resource}/{id}", h)
	r.Put("/api/{resource}/{id}", h)
	r.Delete("/api/{resource}/{id}", h)
}
