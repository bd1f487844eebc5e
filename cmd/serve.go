package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hiretools/catalog-cli/internal/model"
	"github.com/hiretools/catalog-cli/internal/recommend"
)

var servePort int

const noMatchesMessage = "No recommendations found for the given criteria."

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation web server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := loadEngine()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(engine),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("courses", engine.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP routes over a recommendation engine.
func newRouter(engine *recommend.Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/recommend", func(w http.ResponseWriter, req *http.Request) {
		var body model.RecommendationRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		resp, err := engine.Recommend(body)
		if eris.Is(err, recommend.ErrNoMatches) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": noMatchesMessage})
			return
		}
		if err != nil {
			zap.L().Error("recommend failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		renderIndex(w, engine, indexData{})
	})

	r.Post("/recommend", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		resp, err := engine.Recommend(model.RecommendationRequest{
			Organization: req.FormValue("organization_name"),
			TestType:     req.FormValue("test_type"),
			JobLevel:     req.FormValue("job_level"),
			Language:     req.FormValue("language"),
		})
		data := indexData{
			Organization: req.FormValue("organization_name"),
		}
		switch {
		case eris.Is(err, recommend.ErrNoMatches):
			data.Message = noMatchesMessage
		case err != nil:
			zap.L().Error("recommend failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		default:
			data.Results = resp
		}
		renderIndex(w, engine, data)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type indexData struct {
	Organization string
	Message      string
	Results      *model.RecommendationResponse

	TestTypes []string
	JobLevels []string
	Languages []string
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Course Recommender</title></head>
<body>
<h1>Course Recommender</h1>
<form method="POST" action="/recommend">
  <label>Organization: <input type="text" name="organization_name" value="{{.Organization}}"></label><br>
  <label>Test type:
    <select name="test_type">
      <option value=""></option>
      {{range .TestTypes}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label><br>
  <label>Job level:
    <select name="job_level">
      <option value=""></option>
      {{range .JobLevels}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label><br>
  <label>Language:
    <select name="language">
      <option value=""></option>
      {{range .Languages}}<option value="{{.}}">{{.}}</option>{{end}}
    </select>
  </label><br>
  <button type="submit">Recommend</button>
</form>
{{if .Message}}<p>{{.Message}}</p>{{end}}
{{if .Results}}
<h2>Top courses ({{.Results.Matched}} matched)</h2>
<table border="1">
  <tr><th>Course</th><th>Description</th><th>Score</th></tr>
  {{range .Results.Recommendations}}
  <tr>
    <td><a href="{{.ProductURL}}">{{.Title}}</a></td>
    <td>{{.Description}}</td>
    <td>{{printf "%.3f" .Score}}</td>
  </tr>
  {{end}}
</table>
{{end}}
</body>
</html>
`))

func renderIndex(w http.ResponseWriter, engine *recommend.Engine, data indexData) {
	data.TestTypes = engine.TestTypes()
	data.JobLevels = engine.JobLevels()
	data.Languages = engine.Languages()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		zap.L().Error("render index", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
