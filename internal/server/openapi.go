package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// sessionParams declares the {sessionID} path parameter. Operations on a
// path that uses the parameter must reference it or the reflector rejects
// the operation.
type sessionParams struct {
	SessionID string `path:"sessionID" description:"Session code"`
}

type eventsParams struct {
	SessionID string `path:"sessionID" description:"Session code"`
	Token     string `query:"token" description:"Player token (EventSource cannot set headers)"`
}

func newOpenAPISpec() (*openapi3.Spec, error) {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoParty API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Session coordinator for the GeoParty street-view guessing game.")

	var ops []openapi.OperationContext

	// GET /healthz
	getHealthz, err := r.NewOperationContext(http.MethodGet, "/healthz")
	if err != nil {
		return nil, err
	}
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]HealthResult{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]HealthResult{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	ops = append(ops, getHealthz)

	// POST /api/players
	postPlayer, err := r.NewOperationContext(http.MethodPost, "/api/players")
	if err != nil {
		return nil, err
	}
	postPlayer.SetSummary("Register player")
	postPlayer.SetDescription("Create a guest identity. Returns the bearer token used by session mutations.")
	postPlayer.AddReqStructure(RegisterPlayerRequest{})
	postPlayer.AddRespStructure(RegisterPlayerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	ops = append(ops, postPlayer)

	// POST /api/sessions
	postSession, err := r.NewOperationContext(http.MethodPost, "/api/sessions")
	if err != nil {
		return nil, err
	}
	postSession.SetSummary("Create session")
	postSession.SetDescription("Create a multiplayer session; the creator is admitted as the first player. Requires Bearer token.")
	postSession.AddReqStructure(CreateSessionRequest{})
	postSession.AddRespStructure(CreateSessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	ops = append(ops, postSession)

	// GET /api/sessions/{sessionID}
	getSession, err := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}")
	if err != nil {
		return nil, err
	}
	getSession.SetSummary("Get session")
	getSession.SetDescription("Session attributes plus its players. No authentication required.")
	getSession.AddReqStructure(sessionParams{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	ops = append(ops, getSession)

	// POST /api/sessions/{sessionID}/join
	postJoin, err := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/join")
	if err != nil {
		return nil, err
	}
	postJoin.SetSummary("Join session")
	postJoin.SetDescription("Join an existing session; assigns a team. Requires Bearer token.")
	postJoin.AddReqStructure(sessionParams{})
	postJoin.AddRespStructure(JoinResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	ops = append(ops, postJoin)

	// POST /api/sessions/{sessionID}/start
	postStart, err := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/start")
	if err != nil {
		return nil, err
	}
	postStart.SetSummary("Start game")
	postStart.SetDescription("Move a waiting session to playing. Requires Bearer token.")
	postStart.AddReqStructure(sessionParams{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	ops = append(ops, postStart)

	// POST /api/sessions/{sessionID}/rounds
	postRound, err := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/rounds")
	if err != nil {
		return nil, err
	}
	postRound.SetSummary("Save round result")
	postRound.SetDescription("Persist one round's outcome and update the player's cumulative score. Requires Bearer token.")
	postRound.AddReqStructure(sessionParams{})
	postRound.AddReqStructure(RoundResultRequest{})
	postRound.AddRespStructure(RoundResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	ops = append(ops, postRound)

	// GET /api/sessions/{sessionID}/events
	getEvents, err := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/events")
	if err != nil {
		return nil, err
	}
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of session updates. Pass token as query parameter.")
	getEvents.AddReqStructure(eventsParams{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	ops = append(ops, getEvents)

	for _, op := range ops {
		if err := r.AddOperation(op); err != nil {
			return nil, fmt.Errorf("adding %s %s: %w", op.Method(), op.PathPattern(), err)
		}
	}

	return r.Spec, nil
}

func handleOpenAPI() http.HandlerFunc {
	spec, err := newOpenAPISpec()
	if err != nil {
		// The operation table is static; a reflection error here is a bug,
		// not a runtime condition.
		panic(err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
