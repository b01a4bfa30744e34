package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.POST("/api/v1/checkout", s.checkout)
	s.router.GET("/api/v1/checkout/status", s.checkoutStatus)
	s.router.POST("/api/v1/wallet/me", s.walletSummary)
	s.router.POST("/api/v1/wallet/deposit", s.startDeposit)
	s.router.POST("/api/v1/wallet/sync", s.sweepDeposits)
	s.router.POST("/api/v1/media/purchase", s.buyWithWallet)
	s.router.GET("/api/v1/pricing/sol", s.solPrice)
}
