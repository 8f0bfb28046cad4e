// Package setup constructs the application's dependency graph.
package setup

import (
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/handler"
	"github.com/talkboard/talkboard/internal/mailer"
	"github.com/talkboard/talkboard/internal/markup"
	mw "github.com/talkboard/talkboard/internal/middleware"
	"github.com/talkboard/talkboard/internal/service"
	"github.com/talkboard/talkboard/internal/session"
	"github.com/talkboard/talkboard/internal/storage/pg"
)

const baseTemplate = "base.html"

type Dependencies struct {
	Config         *config.Config
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Storage        *pg.Storage
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	if cfg.Private.SessionKey == "" {
		return nil, fmt.Errorf("session key is required (private.yaml or SESSION_KEY)")
	}

	storage, err := pg.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	templates, err := loadTemplates(cfg.Public.TemplateDir)
	if err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	sessions := session.New(cfg.Private.SessionKey, cfg.Public.SessionTTL.Std(), cfg.Public.SecureCookies)
	mail := mailer.New(&cfg.Private.Smtp)

	boards := service.NewBoard(storage, &cfg.Public)
	topics := service.NewTopic(storage, &cfg.Public)
	posts := service.NewPost(storage, &cfg.Public)
	auth := service.NewAuth(storage, mail, &cfg.Public)

	h := handler.New(templates, boards, topics, posts, auth, sessions, markup.New(), &cfg.Public, storage)

	return &Dependencies{
		Config:         cfg,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(sessions),
		Storage:        storage,
	}, nil
}

func sub(a, b int) int { return a - b }
func add(a, b int) int { return a + b }

// loadTemplates parses each page template together with the shared base
// layout. Every page is keyed by its file name.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"sub": sub,
		"add": add,
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(dir, baseTemplate),
			path.Join(dir, f.Name()),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
		}
		templates[f.Name()] = tmpl
	}
	return templates, nil
}
