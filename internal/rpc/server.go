package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/dori/promanager/internal/gateway"
	"github.com/dori/promanager/internal/model"
)

const maxBodyBytes = 1 << 20

// Request payloads for operations that take bare identifiers
type (
	idRequest struct {
		ID string `json:"id"`
	}
	projectIDRequest struct {
		ProjectID string `json:"project_id"`
	}
	completeRequest struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	}
)

type handlerFunc func(ctx context.Context, body []byte) (any, error)

// Server exposes a gateway.API as POST /rpc/{operation}
type Server struct {
	api    gateway.API
	log    zerolog.Logger
	router *mux.Router
	ops    map[string]handlerFunc
}

// NewServer builds the router for api
func NewServer(api gateway.API, log zerolog.Logger) *Server {
	s := &Server{
		api: api,
		log: log.With().Str("component", "rpc").Logger(),
	}
	s.ops = s.operations()

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/rpc/{operation}", s.dispatch).Methods(http.MethodPost)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) operations() map[string]handlerFunc {
	return map[string]handlerFunc{
		gateway.OpCreateProject: withInput(func(ctx context.Context, in model.CreateProject) (any, error) {
			return s.api.CreateProject(ctx, in)
		}),
		gateway.OpGetProjects: func(ctx context.Context, _ []byte) (any, error) {
			return s.api.GetProjects(ctx)
		},
		gateway.OpUpdateProject: withInput(func(ctx context.Context, in model.UpdateProject) (any, error) {
			return s.api.UpdateProject(ctx, in)
		}),
		gateway.OpDeleteProject: withInput(func(ctx context.Context, in idRequest) (any, error) {
			return struct{}{}, s.api.DeleteProject(ctx, in.ID)
		}),
		gateway.OpCreateTask: withInput(func(ctx context.Context, in model.CreateTask) (any, error) {
			return s.api.CreateTask(ctx, in)
		}),
		gateway.OpGetTasks: func(ctx context.Context, _ []byte) (any, error) {
			return s.api.GetTasks(ctx)
		},
		gateway.OpGetTasksByProject: withInput(func(ctx context.Context, in projectIDRequest) (any, error) {
			return s.api.GetTasksByProject(ctx, in.ProjectID)
		}),
		gateway.OpUpdateTask: withInput(func(ctx context.Context, in model.UpdateTask) (any, error) {
			return s.api.UpdateTask(ctx, in)
		}),
		gateway.OpDeleteTask: withInput(func(ctx context.Context, in idRequest) (any, error) {
			return struct{}{}, s.api.DeleteTask(ctx, in.ID)
		}),
		gateway.OpGetTodayTasks: func(ctx context.Context, _ []byte) (any, error) {
			return s.api.GetTodayTasks(ctx)
		},
		gateway.OpGetUpcomingTasks: func(ctx context.Context, _ []byte) (any, error) {
			return s.api.GetUpcomingTasks(ctx)
		},
		gateway.OpMarkTaskComplete: withInput(func(ctx context.Context, in completeRequest) (any, error) {
			return s.api.MarkTaskComplete(ctx, in.ID, in.Completed)
		}),
		gateway.OpGetTaskStats: func(ctx context.Context, _ []byte) (any, error) {
			return s.api.GetTaskStats(ctx)
		},
	}
}

// withInput decodes the request body into T before calling fn
func withInput[T any](fn func(context.Context, T) (any, error)) handlerFunc {
	return func(ctx context.Context, body []byte) (any, error) {
		var in T
		if len(body) > 0 {
			if err := json.Unmarshal(body, &in); err != nil {
				return nil, fmt.Errorf("%w: malformed body: %v", model.ErrInvalidInput, err)
			}
		}
		return fn(ctx, in)
	}
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	op := mux.Vars(r)["operation"]
	handle, ok := s.ops[op]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error: fmt.Sprintf("unknown operation %q", op),
			Code:  CodeUnknownOperation,
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: CodeInvalidInput})
		return
	}

	out, err := handle(r.Context(), body)
	if err != nil {
		code, status := classify(err)
		if status == http.StatusInternalServerError {
			s.log.Error().Err(err).Str("op", op).Msg("operation failed")
		}
		writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.log.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("method not allowed")
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Error: r.Method + " not allowed on " + r.URL.Path,
		Code:  CodeMethodNotAllowed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
