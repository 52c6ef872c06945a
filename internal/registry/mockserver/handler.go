// Package mockserver serves canned GetDemographics replies over SOAP so the
// client can be exercised without the real registry.
package mockserver

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"demographics/internal/registry/classifier"
	"demographics/internal/registry/fixtures"
	"demographics/internal/registry/hl7"
	"demographics/internal/registry/transport/soap"
	"demographics/pkg/platform/middleware/metadata"
	"demographics/pkg/requestcontext"
)

// Path is where the registry service is mounted.
const Path = "/HCIM.IntegrationService/HCIM.IntegrationService.svc"

// FaultIdentifier makes the mock answer with a SOAP fault.
const FaultIdentifier = "FAULT"

const maxBodyBytes = 1 << 20

// Handler answers GetDemographics queries from a fixture table keyed by
// identifier value. Unknown identifiers get a not-found reply.
type Handler struct {
	logger *slog.Logger

	mu       sync.RWMutex
	fixtures map[string]hl7.ProtocolResponse
}

// New constructs a handler preloaded with DefaultFixtures.
func New(logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		fixtures: DefaultFixtures(),
	}
}

// DefaultFixtures returns the canned replies served out of the box.
func DefaultFixtures() map[string]hl7.ProtocolResponse {
	johnDoe := *fixtures.Found(fixtures.JohnDoe())
	deceased := *fixtures.Found(fixtures.DeceasedPerson())
	advisory := hl7.ProtocolResponse{ResponseCode: fixtures.AdvisoryResponseCode, Person: fixtures.AdvisoryPerson()}
	invalid := hl7.ProtocolResponse{ResponseCode: classifier.CodeInvalidPhn}

	return map[string]hl7.ProtocolResponse{
		fixtures.JohnDoeHdid:  johnDoe,
		fixtures.JohnDoePhn:   johnDoe,
		fixtures.DeceasedHdid: deceased,
		fixtures.DeceasedPhn:  deceased,
		fixtures.AdvisoryHdid: advisory,
		fixtures.AdvisoryPhn:  advisory,
		fixtures.InvalidPhn:   invalid,
	}
}

// SetFixture replaces the reply served for identifier.
func (h *Handler) SetFixture(identifier string, resp hl7.ProtocolResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fixtures[identifier] = resp
}

// Register mounts the registry endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	registryRouter := chi.NewRouter()
	registryRouter.Use(middleware.Recoverer)
	registryRouter.Use(metadata.ClientMetadata)
	registryRouter.Post(Path, h.HandleGetDemographics)

	r.Mount("/", registryRouter)
}

// HandleGetDemographics handles POST Path requests.
func (h *Handler) HandleGetDemographics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeFault(w, r, "soap:Client", "request body could not be read")
		return
	}
	req, err := soap.DecodeRequest(body)
	if err != nil {
		h.logger.WarnContext(ctx, "mock registry received malformed request",
			"request_id", requestID,
			"error", err,
		)
		h.writeFault(w, r, "soap:Client", "malformed GetDemographics request")
		return
	}

	identifier := req.PersonID.Extension
	h.logger.InfoContext(ctx, "mock registry lookup",
		"request_id", requestID,
		"client_ip", requestcontext.ClientIP(ctx),
		"message_id", req.ID.Extension,
		"identifier_root", req.PersonID.Root,
	)

	if identifier == FaultIdentifier {
		h.writeFault(w, r, "soap:Server", "HCIM is unavailable")
		return
	}

	h.mu.RLock()
	resp, ok := h.fixtures[identifier]
	h.mu.RUnlock()
	if !ok {
		resp = hl7.ProtocolResponse{ResponseCode: classifier.CodeNotFound}
	}

	out, err := soap.EncodeResponse(resp)
	if err != nil {
		h.logger.ErrorContext(ctx, "mock registry failed to encode reply",
			"request_id", requestID,
			"error", err,
		)
		h.writeFault(w, r, "soap:Server", "reply could not be encoded")
		return
	}
	writeXML(w, http.StatusOK, out)
}

func (h *Handler) writeFault(w http.ResponseWriter, r *http.Request, code, message string) {
	out, err := soap.EncodeFault(code, message)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "mock registry failed to encode fault", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeXML(w, http.StatusInternalServerError, out)
}

func writeXML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
