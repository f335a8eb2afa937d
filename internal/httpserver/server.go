// internal/httpserver/server.go
//
// HTTP server wiring for the crossclue backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", level catalog under /levels.
//   - Play endpoints under /play, one puzzle controller per player.
//   - Anonymous player identity: HS256 JWT issued on first contact, read back
//     from the Authorization header or the player cookie.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Each player's progress lives under "player:{id}:" in the shared KV.
//   - A player's controller is created by /play/select only, and dropped
//     after IdleTimeout without requests or when MaxPlayers is exceeded
//     (least recently seen first). Progress survives in the KV.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/game"
	"github.com/robalobadob/crossclue/internal/grid"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/play"
	"github.com/robalobadob/crossclue/internal/store"
)

const (
	playerCookieName = "crossclue_player"
	playerTokenTTL   = 180 * 24 * time.Hour

	defaultIdleTimeout = 30 * time.Minute
	defaultMaxPlayers  = 10000
	evictCloseTimeout  = 5 * time.Second
)

// Options configure a Server.
type Options struct {
	Catalog      *level.Catalog
	KV           store.KV
	Resolver     *clue.Resolver
	JWTSecret    string
	ClientOrigin string
	DailySalt    string
	SaveAttempts uint
	SecureCookie bool
	IdleTimeout  time.Duration
	MaxPlayers   int
	Now          func() time.Time
}

// Server bundles router, catalog, storage, and per-player controllers.
type Server struct {
	r    *chi.Mux
	opts Options
	http *http.Server

	mu      sync.Mutex
	players map[string]*player
	closing map[string]chan struct{} // evicted players still flushing
	evicted sync.WaitGroup
}

// player is one anonymous visitor's puzzle state. mu serializes that
// player's commands so each response drains only its own focus events.
type player struct {
	mu       sync.Mutex
	ctrl     *play.Controller
	focus    *play.Recorder
	lastSeen time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.Resolver == nil {
		opts.Resolver = clue.NewResolver("")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.MaxPlayers <= 0 {
		opts.MaxPlayers = defaultMaxPlayers
	}
	s := &Server{r: chi.NewRouter(), opts: opts, players: make(map[string]*player), closing: make(map[string]chan struct{})}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"crossclue","endpoints":["/health","/levels","/levels/daily","/play/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountLevels(s.r)
	s.r.With(s.withPlayer).Route("/play", s.mountPlay)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr. It returns nil after Shutdown.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.http = &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	srv := s.http
	s.mu.Unlock()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then flushes every player's progress.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	var errs []error
	if srv != nil {
		errs = append(errs, srv.Shutdown(ctx))
	}
	errs = append(errs, s.Close(ctx))
	return errors.Join(errs...)
}

// Close flushes and stops every player controller.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	players := s.players
	s.players = make(map[string]*player)
	s.mu.Unlock()

	var errs []error
	for id, p := range players {
		if err := p.ctrl.Close(ctx); err != nil {
			log.Warn().Err(err).Str("player", id).Msg("close player")
			errs = append(errs, err)
		}
	}
	s.evicted.Wait()
	return errors.Join(errs...)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// lookupPlayer returns an existing player and marks it as seen.
func (s *Server) lookupPlayer(id string) (*player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if ok {
		p.lastSeen = s.opts.Now()
	}
	return p, ok
}

// ensurePlayer returns the player, creating its controller on first use.
// A player evicted moments ago is recreated only after its old controller
// has flushed, so the new one reads the latest progress.
func (s *Server) ensurePlayer(id string) *player {
	s.mu.Lock()
	for {
		if p, ok := s.players[id]; ok {
			p.lastSeen = s.opts.Now()
			s.mu.Unlock()
			return p
		}
		done, flushing := s.closing[id]
		if !flushing {
			break
		}
		s.mu.Unlock()
		<-done
		s.mu.Lock()
	}
	defer s.mu.Unlock()
	now := s.opts.Now()
	s.evictLocked(now)

	rec := &play.Recorder{}
	p := &player{
		focus:    rec,
		lastSeen: now,
		ctrl: play.New(s.opts.Catalog, store.Prefixed(s.opts.KV, "player:"+id), play.Options{
			Resolver:     s.opts.Resolver,
			Focus:        rec,
			SaveAttempts: s.opts.SaveAttempts,
		}),
	}
	s.players[id] = p
	log.Debug().Str("player", id).Int("players", len(s.players)).Msg("player session created")
	return p
}

// evictLocked drops idle players, then the least recently seen ones until
// there is room for one more. Callers hold s.mu.
func (s *Server) evictLocked(now time.Time) {
	for id, p := range s.players {
		if now.Sub(p.lastSeen) > s.opts.IdleTimeout {
			s.dropLocked(id, p, "idle")
		}
	}
	for len(s.players) >= s.opts.MaxPlayers {
		oldest := lo.MinBy(lo.Keys(s.players), func(a, b string) bool {
			return s.players[a].lastSeen.Before(s.players[b].lastSeen)
		})
		s.dropLocked(oldest, s.players[oldest], "capacity")
	}
}

// dropLocked forgets a player and closes its controller in the background.
func (s *Server) dropLocked(id string, p *player, reason string) {
	delete(s.players, id)
	done := make(chan struct{})
	s.closing[id] = done
	s.evicted.Add(1)
	log.Debug().Str("player", id).Str("reason", reason).Msg("player session evicted")
	go func() {
		defer s.evicted.Done()
		ctx, cancel := context.WithTimeout(context.Background(), evictCloseTimeout)
		defer cancel()
		if err := p.ctrl.Close(ctx); err != nil {
			log.Warn().Err(err).Str("player", id).Msg("close evicted player")
		}
		s.mu.Lock()
		delete(s.closing, id)
		s.mu.Unlock()
		close(done)
	}()
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ctxPlayerKey is the context key type for the player id.
type ctxPlayerKey struct{}

// withPlayer resolves the caller's player id from a valid token, or issues a
// fresh one. It never rejects a request.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.parsePlayer(bearerOrCookie(r))
		if id == "" {
			id = genID()
			tok, exp, err := s.signPlayer(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			s.setPlayerCookie(w, tok, exp)
			w.Header().Set("X-Player-Token", tok)
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// ------------------------------ JWT & cookies ------------------------------

// signPlayer creates an HS256 JWT carrying the player id.
func (s *Server) signPlayer(id string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(playerTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parsePlayer returns the player id of a valid token, or "".
func (s *Server) parsePlayer(tok string) string {
	if tok == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil || !t.Valid {
		return ""
	}
	id, _ := claims["id"].(string)
	return id
}

// setPlayerCookie writes the player token cookie.
func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookie {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or player cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeDomainError maps core errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, play.ErrNoLevel):
		writeError(w, http.StatusConflict, "no_level")
	case errors.Is(err, play.ErrSuperseded):
		writeError(w, http.StatusConflict, "superseded")
	case errors.Is(err, game.ErrInvalidCell):
		writeError(w, http.StatusBadRequest, "invalid_cell")
	case errors.Is(err, grid.ErrBadPosition):
		writeError(w, http.StatusBadRequest, "bad_position")
	case errors.Is(err, game.ErrUnknownClue):
		writeError(w, http.StatusNotFound, "unknown_clue")
	case errors.Is(err, level.ErrUnknownLevel):
		writeError(w, http.StatusNotFound, "unknown_level")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		log.Error().Err(err).Msg("unhandled play error")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
