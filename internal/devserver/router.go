package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/splinterstice/clientapp/internal/api/recovery"
	"github.com/splinterstice/clientapp/internal/api/respond"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "splinterstice_devserver_requests_total",
		Help: "Requests served by the development backend.",
	}, []string{"route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "splinterstice_devserver_request_duration_seconds",
		Help:    "Request latency of the development backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// Options configures NewRouter.
type Options struct {
	BasePath       string // e.g. "/api"; "" mounts at the root
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewRouter wires every chat endpoint under opts.BasePath, plus /health and
// /metrics at the root.
func NewRouter(store *Store, opts Options) *mux.Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	h := NewHandler(store, opts.BasePath, opts.MaxUploadBytes)

	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(instrument(opts.Logger))

	root.HandleFunc("/health", h.CheckHealth).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := root
	if opts.BasePath != "" {
		api = root.PathPrefix(opts.BasePath).Subrouter()
	}
	api.Use(bannedGuard(store))

	// Direct messages
	api.HandleFunc("/messages", h.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages", h.GetMessages).Methods(http.MethodGet)

	// Friends
	api.HandleFunc("/friends/request", h.SendFriendRequest).Methods(http.MethodPost)
	api.HandleFunc("/friends/{friendId}", h.RemoveFriend).Methods(http.MethodDelete)

	// Files
	api.HandleFunc("/files/upload", h.UploadFile).Methods(http.MethodPost)
	api.HandleFunc("/files/{fileId}", h.GetFile).Methods(http.MethodGet)

	// Chat rooms
	api.HandleFunc("/chat_rooms/join", h.JoinChatRoom).Methods(http.MethodPost)
	api.HandleFunc("/chat_rooms/leave", h.LeaveChatRoom).Methods(http.MethodPost)
	api.HandleFunc("/chat_rooms/message", h.SendChatRoomMessage).Methods(http.MethodPost)
	api.HandleFunc("/chat_rooms/{roomId}/messages", h.GetRoomMessages).Methods(http.MethodGet)

	// Users and invitations
	api.HandleFunc("/users/{userId}", h.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/invites/{token}", h.GetInvite).Methods(http.MethodGet)

	// Administration
	api.HandleFunc("/admin/invite", h.InviteUser).Methods(http.MethodPost)
	api.HandleFunc("/admin/promote", h.PromoteUser).Methods(http.MethodPost)
	api.HandleFunc("/admin/ban", h.BanUser).Methods(http.MethodPost)
	api.HandleFunc("/admin/edit_user", h.EditUser).Methods(http.MethodPut)
	api.HandleFunc("/admin/reset_keys", h.ResetKeys).Methods(http.MethodPost)

	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, respond.ReasonNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	return root
}

// bannedGuard rejects every non-GET request from a banned caller.
func bannedGuard(store *Store) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				if err := store.CheckWriter(caller(r)); err != nil {
					writeStoreError(w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument logs each request and records Prometheus metrics by route template.
func instrument(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if cr := mux.CurrentRoute(r); cr != nil {
				if tpl, err := cr.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			elapsed := time.Since(start)
			httpRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			log.Debug().
				Str("method", r.Method).
				Str("route", route).
				Int("status", rec.status).
				Dur("elapsed", elapsed).
				Msg("request")
		})
	}
}
