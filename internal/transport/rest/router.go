package rest

import (
	"net/http"

	"rpsarena/internal/cache"
	"rpsarena/internal/transport/rest/handler"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

// Container holds all dependencies for the router
type Container struct {
	Rooms handler.RoomReader
	// Leaderboard and Matches are nil when their backing store is disabled
	Leaderboard cache.LeaderboardCache
	Matches     handler.MatchHistory
	WS          http.Handler
	// AllowedOrigins lists accepted origins; empty or "*" allows any
	AllowedOrigins []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(c.Rooms)
	leaderboardHandler := handler.NewLeaderboardHandler(c.Leaderboard)
	matchHandler := handler.NewMatchHandler(c.Matches)

	r.Use(corsMiddleware(c.AllowedOrigins))

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.Handle("/ws", c.WS).Methods("GET")

	v1.HandleFunc("/rooms", roomHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/matches", matchHandler.ByRoom).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", leaderboardHandler.Top).Methods("GET", "OPTIONS")
	v1.HandleFunc("/matches", matchHandler.Recent).Methods("GET", "OPTIONS")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	allowAll := len(allowedOrigins) == 0 || lo.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				// The header carries a single origin, so echo the caller's when listed
				w.Header().Add("Vary", "Origin")
				if origin := r.Header.Get("Origin"); lo.Contains(allowedOrigins, origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
