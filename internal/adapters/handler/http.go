package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/igor47/smrs/internal/core/domain"
	"github.com/igor47/smrs/internal/ports"
)

type HTTPHandler struct {
	service ports.LinkService
	logger  *zap.Logger
	secure  bool
}

func NewHTTPHandler(service ports.LinkService, logger *zap.Logger, secure bool) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, logger: logger, secure: secure}
}

// CreateLinkRequest payload
type CreateLinkRequest struct {
	URL   string `json:"url"`
	Token string `json:"token,omitempty"`
}

// CreateLinkResponse reports the token actually stored alongside the
// one the client asked for.
type CreateLinkResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Requested string `json:"requested"`
	URL       string `json:"url"`
}

// LinkResponse is one entry of a listing.
type LinkResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"created_at"`
}

// DeleteLinkResponse reports whether anything was deleted.
type DeleteLinkResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Create shortens a URL for the cookie session.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	alloc, err := h.service.CreateLink(r.Context(), req.URL, req.Token, SessionFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateLinkResponse{
		Success:   true,
		Token:     alloc.Token,
		Requested: alloc.Requested,
		URL:       alloc.URL,
	})
}

// List returns the cookie session's active links, newest first.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.ListLinks(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, LinkResponse{Token: l.Token, URL: l.URL, CreatedAt: l.CreatedAt})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Delete soft-deletes one of the cookie session's links. A miss and a
// foreign link produce the same not-found response.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	ok, err := h.service.DeleteLink(r.Context(), tok, SessionFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
	}
	json.NewEncoder(w).Encode(DeleteLinkResponse{Success: ok, Token: tok})
}

// Redirect sends the visitor to the link's target URL.
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	tok := r.PathValue("token")

	url, err := h.service.Resolve(r.Context(), tok)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// Session reports the session identity the middleware established.
func (h *HTTPHandler) Session(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"session": SessionFromContext(r.Context())})
}

// SetSession adopts a client-supplied session identity. The value is
// opaque: whatever the client presents becomes its identity.
func (h *HTTPHandler) SetSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Session string `json:"session"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Session == "" {
		http.Error(w, "No session provided", http.StatusBadRequest)
		return
	}

	// Replace the cookie the session middleware already queued.
	w.Header().Del("Set-Cookie")
	setSessionCookie(w, req.Session, h.secure)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"session": req.Session})
}

// Env dumps request metadata as plain text. Debugging aid for the CGI
// deployment, where all of this arrives as process environment.
func (h *HTTPHandler) Env(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "method: %s\n", r.Method)
	fmt.Fprintf(w, "uri: %s\n", r.RequestURI)
	fmt.Fprintf(w, "remote: %s\n", r.RemoteAddr)
	fmt.Fprintf(w, "session: %s\n\n", SessionFromContext(r.Context()))

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			fmt.Fprintf(w, "%s: %s\n", k, v)
		}
	}
}

// writeError maps service errors onto responses. Internal detail stays
// in the log; the client sees only the category.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTokenSpaceExhausted):
		http.Error(w, "Could not allocate a token", http.StatusConflict)
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
