package main

import (
	"net/http"

	"github.com/adermis/adermis/ui"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	fileServer := http.FileServerFS(ui.Files)
	mux.Handle("GET /static/", cacheForeverHeaders(fileServer))

	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, app.noSurf, app.authenticate, commonContext)
	authenticated := session.Append(app.requireAuthentication)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))

	mux.Handle("GET /register", session.ThenFunc(app.registerPage))
	mux.Handle("POST /register", session.ThenFunc(app.registerSubmit))
	mux.Handle("GET /login", session.ThenFunc(app.loginPage))
	mux.Handle("POST /login", session.ThenFunc(app.loginSubmit))
	mux.Handle("POST /api/logout", session.ThenFunc(app.logout))

	mux.Handle("GET /dashboard", authenticated.ThenFunc(app.dashboard))
	mux.Handle("GET /dashboard/history", authenticated.ThenFunc(app.dashboardHistory))

	mux.Handle("GET /scan", session.ThenFunc(app.scanUploadPage))
	mux.Handle("POST /scan", session.ThenFunc(app.scanUploadSubmit))
	mux.Handle("GET /scan/image", session.ThenFunc(app.scanImage))
	mux.Handle("POST /scan/analyze", session.ThenFunc(app.scanAnalyze))
	mux.Handle("GET /scan/analysis", session.ThenFunc(app.scanAnalysisPage))
	mux.Handle("POST /scan/follow-up", session.ThenFunc(app.scanFollowUp))
	mux.Handle("POST /scan/reset", session.ThenFunc(app.scanReset))

	mux.Handle("GET /clinics", session.ThenFunc(app.clinicsPage))
	mux.Handle("POST /clinics", session.ThenFunc(app.clinicsSearch))

	mux.Handle("GET /women", session.ThenFunc(app.womenPage))
	mux.Handle("POST /women/chat", session.ThenFunc(app.womenChat))
	mux.Handle("POST /women/leave", session.ThenFunc(app.womenLeave))
	// WebSocket upgrade; CSRF does not apply and the hub manages its own state.
	mux.Handle("GET /women/signal", app.signalHub)

	return app.recoverPanic(app.logRequest(app.secureHeaders(mux)))
}
