package http

import (
	"net/http"

	"lifemanage/internal/assist"
	"lifemanage/internal/auth"
	"lifemanage/internal/config"
	"lifemanage/internal/http/handler"
	mw "lifemanage/internal/http/middleware"
	"lifemanage/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, completer assist.Completer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	st := store.New(db)
	workflows := &assist.Workflows{Store: st, Completer: completer}

	me := &handler.MeHandler{Store: st}
	settings := &handler.SettingsHandler{Store: st}
	projects := &handler.ProjectHandler{Store: st}
	convs := &handler.ConversationHandler{Store: st}
	tasks := &handler.TaskHandler{Store: st}
	notes := &handler.NoteHandler{Store: st}
	imports := &handler.ImportHandler{Store: st}
	assists := &handler.AssistHandler{Store: st, Workflows: workflows}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/me", me.Me)

		r.Get("/settings", settings.Get)
		r.Post("/settings/openai-key", settings.SaveKey)
		r.Delete("/settings/openai-key", settings.DeleteKey)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Post("/", projects.Create)
			r.Get("/{id}", projects.Get)
			r.Patch("/{id}", projects.Update)
			r.Delete("/{id}", projects.Delete)
			r.Post("/{id}/next-steps", assists.NextSteps)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", convs.List)
			r.Get("/{id}", convs.Get)
			r.Patch("/{id}", convs.Update)
			r.Delete("/{id}", convs.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.List)
			r.Post("/", tasks.Create)
			r.Get("/{id}", tasks.Get)
			r.Patch("/{id}", tasks.Update)
			r.Delete("/{id}", tasks.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", notes.List)
			r.Post("/", notes.Create)
			r.Patch("/{id}", notes.Update)
			r.Delete("/{id}", notes.Delete)
		})

		r.Post("/import", imports.Import)

		r.Post("/assist/categorize", assists.Categorize)
		r.Get("/assist/summary", assists.Summary)
	})

	return r
}
