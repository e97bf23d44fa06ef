// Package webapi provides a web API for the message censoring service.
package webapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/tg-censor/tg-censor/app/storage"
	"github.com/tg-censor/tg-censor/lib/censor"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/suppressions.go --pkg mocks --with-resets --skip-ensure . Suppressions

// Server is a web API server.
type Server struct {
	Config
}

// Config defines server parameters
type Config struct {
	Version      string       // version to show in app-info headers
	ListenAddr   string       // listen address
	Detector     Detector     // censoring engine
	Suppressions Suppressions // suppression records storage, optional
	AuthPasswd   string       // basic auth password for user "tg-censor"
	Dbg          bool         // debug mode
}

// Detector is a censoring engine interface.
type Detector interface {
	Check(req censor.Request) censor.Response
	AddPhrase(phrase string) error
	RemovePhrase(pos int) (string, error)
	AddAdmin(name string, id int64) error
	Phrases() []string
	Admins() []censor.Admin
}

// Suppressions is a storage interface for recorded suppression events.
type Suppressions interface {
	Read(ctx context.Context, limit int) ([]storage.Suppression, error)
	Count(ctx context.Context) (int, error)
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{Config: config}
}

// Run starts server and accepts requests to check messages and manage the block list.
func (s *Server) Run(ctx context.Context) error {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.AppInfo("tg-censor", "mip5", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(tollbooth.NewLimiter(50, nil)))
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size
	if s.Dbg {
		router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	s.routes(router)

	srv := &http.Server{Addr: s.ListenAddr, Handler: router, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes(router *routegroup.Bundle) *routegroup.Bundle {
	// read-only routes and the check endpoint are open
	router.HandleFunc("POST /check", s.checkHandler)                 // check a message for blocked phrases
	router.HandleFunc("GET /phrases", s.getPhrasesHandler)           // get the block list
	router.HandleFunc("GET /admins", s.getAdminsHandler)             // get admins
	router.HandleFunc("GET /suppressions", s.getSuppressionsHandler) // get recent suppressions

	// mutating routes ask for basic auth if the password is set
	router.Group().Route(func(priv *routegroup.Bundle) {
		priv.Use(s.authMiddleware(rest.BasicAuthWithPrompt("tg-censor", s.AuthPasswd)))
		priv.HandleFunc("POST /phrases", s.addPhraseHandler)            // add a phrase to the block list
		priv.HandleFunc("DELETE /phrases/{pos}", s.deletePhraseHandler) // remove a phrase by position
		priv.HandleFunc("POST /admins", s.addAdminHandler)              // add an admin
	})

	return router
}

// checkHandler handles POST /check request.
// it gets message text and user info from the request body and returns the verdict with matched phrases.
func (s *Server) checkHandler(w http.ResponseWriter, r *http.Request) {
	req := censor.Request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}
	rest.RenderJSON(w, s.Detector.Check(req))
}

// getPhrasesHandler handles GET /phrases request. It returns the block list in insertion order.
func (s *Server) getPhrasesHandler(w http.ResponseWriter, _ *http.Request) {
	phrases := s.Detector.Phrases()
	rest.RenderJSON(w, rest.JSON{"phrases": phrases, "count": len(phrases)})
}

// addPhraseHandler handles POST /phrases request. It adds a phrase to the block list.
func (s *Server) addPhraseHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phrase string `json:"phrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Phrase) == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "phrase is required"})
		return
	}
	if err := s.Detector.AddPhrase(req.Phrase); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't add phrase", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"added": true, "phrase": req.Phrase})
}

// deletePhraseHandler handles DELETE /phrases/{pos} request. It removes the phrase
// at the given 1-based position. An out-of-range position is a client error.
func (s *Server) deletePhraseHandler(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.PathValue("pos"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "invalid position", "details": err.Error()})
		return
	}

	phrase, err := s.Detector.RemovePhrase(pos)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, censor.ErrNoPosition) {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		rest.RenderJSON(w, rest.JSON{"error": "can't remove phrase", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"deleted": true, "phrase": phrase, "pos": pos})
}

// getAdminsHandler handles GET /admins request. It returns the list of bot admins.
func (s *Server) getAdminsHandler(w http.ResponseWriter, _ *http.Request) {
	admins := s.Detector.Admins()
	rest.RenderJSON(w, rest.JSON{"admins": admins, "count": len(admins)})
}

// addAdminHandler handles POST /admins request. It adds an admin record.
func (s *Server) addAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		ID   int64  `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return
	}
	if req.ID == 0 {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "admin id is required"})
		return
	}
	if err := s.Detector.AddAdmin(req.Name, req.ID); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't add admin", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"added": true, "name": req.Name, "id": req.ID})
}

// getSuppressionsHandler handles GET /suppressions request. It returns the most recent
// suppression records, newest first, limited by the "limit" query parameter.
func (s *Server) getSuppressionsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Suppressions == nil {
		w.WriteHeader(http.StatusNotImplemented)
		rest.RenderJSON(w, rest.JSON{"error": "suppressions storage not enabled"})
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": fmt.Sprintf("invalid limit %q", v)})
			return
		}
		limit = n
	}

	sups, err := s.Suppressions.Read(r.Context(), limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't get suppressions", "details": err.Error()})
		return
	}
	total, err := s.Suppressions.Count(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't count suppressions", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"suppressions": sups, "total": total})
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}

// GenerateRandomPassword generates a random password of a given length
func GenerateRandomPassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+"

	var password strings.Builder
	charsetSize := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		randomNumber, err := rand.Int(rand.Reader, charsetSize)
		if err != nil {
			return "", err
		}

		password.WriteByte(charset[randomNumber.Int64()])
	}

	return password.String(), nil
}
