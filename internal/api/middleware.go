package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-session-api/internal/apperror"
	"user-session-api/internal/authorization"
	"user-session-api/internal/session"
	"user-session-api/internal/validation"
)

type contextKey string

const (
	principalContextKey = contextKey("principal")
	renewalContextKey   = contextKey("pending_renewal")
	requestIDContextKey = contextKey("request_id")
)

const requestIDHeader = "X-Request-Id"

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New()
		w.Header().Set(requestIDHeader, requestID.String())

		ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id assigned by RequestIDMiddleware, or a fresh one
// for handlers invoked without it.
func GetRequestID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(requestIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.New()
}

func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("request_id", GetRequestID(r.Context()).String()),
		)
	})
}

// AuthenticationMiddleware resolves the request's principal from the
// session_id cookie. Requests without the cookie, or whose token matches no
// session, continue as anonymous. A due renewal is only recorded here; the
// handler commits it once its response is certain to succeed.
func (s *Server) AuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, pending, err := s.authenticate(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		if pending != nil {
			ctx = context.WithValue(ctx, renewalContextKey, pending)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (authorization.Principal, *session.Evaluation, error) {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		return authorization.Anonymous(), nil, nil
	}

	if err := validation.SessionToken(token); err != nil {
		return authorization.Principal{}, nil, err
	}

	ev, err := s.sessions.Evaluate(r.Context(), token)
	if err != nil {
		return authorization.Principal{}, nil, err
	}
	if ev == nil {
		return authorization.Anonymous(), nil, nil
	}

	if ev.State == session.StateExpired {
		http.SetCookie(w, s.sessions.ClearCookie())
		return authorization.Principal{}, nil, apperror.NewUnauthorizedError()
	}

	user, err := s.store.GetUserByID(r.Context(), ev.Session.UserID)
	if err != nil {
		return authorization.Principal{}, nil, err
	}
	if user == nil {
		return authorization.Anonymous(), nil, nil
	}

	principal := authorization.ForUser(user)
	if err := authorization.Authorize(principal, authorization.FeatureReadSession); err != nil {
		return authorization.Principal{}, nil, err
	}

	if ev.State == session.StateRenewable {
		return principal, ev, nil
	}
	return principal, nil, nil
}

// commitRenewal persists the renewal recorded by AuthenticationMiddleware and
// sets its cookie. Handlers call it after every fallible step and before
// writing a successful body.
func (s *Server) commitRenewal(w http.ResponseWriter, r *http.Request) error {
	ev, ok := r.Context().Value(renewalContextKey).(*session.Evaluation)
	if !ok {
		return nil
	}

	renewed, err := s.sessions.Renew(r.Context(), ev)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.sessions.RenewalCookie(renewed))
	return nil
}

func GetPrincipalFromContext(ctx context.Context) authorization.Principal {
	if principal, ok := ctx.Value(principalContextKey).(authorization.Principal); ok {
		return principal
	}
	return authorization.Anonymous()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.Write(w, GetRequestID(r.Context()), err)

	if appErr.StatusCode >= http.StatusInternalServerError {
		s.logger.Error("unexpected error",
			zap.Error(err),
			zap.String("error_id", appErr.ErrorID.String()),
			zap.String("path", r.URL.Path),
		)
	}
}
