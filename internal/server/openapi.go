package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/minigames/internal/handler/health"
	"github.com/playperu/minigames/internal/minigame"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type playPath struct {
	PlayID string `path:"playID"`
}

type gamePath struct {
	ID string `path:"id"`
}

type resultQuery struct {
	GameID string `query:"gameId"`
	Limit  int    `query:"limit"`
}

type playAction struct {
	playPath
	minigame.Action
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Mini-game API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Validation, play and result delivery for lesson and quiz mini-games.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Response{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/admin/login
	login, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	login.SetSummary("Admin login")
	login.SetDescription("Checks credentials and sets the admin_session cookie.")
	login.AddReqStructure(AdminLoginRequest{})
	login.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	login.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(login)

	// POST /api/admin/logout
	logout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	logout.SetSummary("Admin logout")
	logout.AddRespStructure(map[string]string{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(logout)

	// GET /api/admin/me
	me, _ := r.NewOperationContext(http.MethodGet, "/api/admin/me")
	me.SetSummary("Current admin")
	me.AddRespStructure(AdminMeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	me.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(me)

	// GET /api/admin/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/admin/games")
	listGames.SetSummary("List game configs")
	listGames.AddRespStructure([]GameSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listGames.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listGames)

	// POST /api/admin/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games")
	createGame.SetSummary("Create game config")
	createGame.SetDescription("Validates and stores a config. Defects are returned with 422.")
	createGame.AddReqStructure(GameRequest{})
	createGame.AddRespStructure(GameRecord{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(minigame.ValidationResult{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(createGame)

	// POST /api/admin/games/validate
	validateGame, _ := r.NewOperationContext(http.MethodPost, "/api/admin/games/validate")
	validateGame.SetSummary("Validate game config")
	validateGame.SetDescription("Runs the validator for the config's type without storing it.")
	validateGame.AddReqStructure(GameRequest{})
	validateGame.AddRespStructure(minigame.ValidationResult{}, openapi.WithHTTPStatus(http.StatusOK))
	validateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(validateGame)

	// GET /api/admin/games/{id}
	getAdminGame, _ := r.NewOperationContext(http.MethodGet, "/api/admin/games/{id}")
	getAdminGame.SetSummary("Get game config")
	getAdminGame.AddReqStructure(gamePath{})
	getAdminGame.AddRespStructure(GameRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	getAdminGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getAdminGame)

	// PUT /api/admin/games/{id}
	updateGame, _ := r.NewOperationContext(http.MethodPut, "/api/admin/games/{id}")
	updateGame.SetSummary("Update game config")
	updateGame.AddReqStructure(struct {
		gamePath
		GameRequest
	}{})
	updateGame.AddRespStructure(GameRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	updateGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	updateGame.AddRespStructure(minigame.ValidationResult{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(updateGame)

	// DELETE /api/admin/games/{id}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/games/{id}")
	deleteGame.SetSummary("Delete game config")
	deleteGame.AddReqStructure(gamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// GET /api/results
	listResults, _ := r.NewOperationContext(http.MethodGet, "/api/results")
	listResults.SetSummary("List emitted results")
	listResults.SetDescription("Newest first. Requires admin_session cookie.")
	listResults.AddReqStructure(resultQuery{})
	listResults.AddRespStructure([]ResultRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listResults)

	// GET /api/games
	catalogue, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	catalogue.SetSummary("Game catalogue")
	catalogue.AddRespStructure(CatalogueResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(catalogue)

	// GET /api/games/{id}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}")
	getGame.SetSummary("Get published config")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// POST /api/plays
	startPlay, _ := r.NewOperationContext(http.MethodPost, "/api/plays")
	startPlay.SetSummary("Start play")
	startPlay.SetDescription("Mounts a stored or inline config and returns a play ticket.")
	startPlay.AddReqStructure(StartPlayRequest{})
	startPlay.AddRespStructure(StartPlayResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	startPlay.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	startPlay.AddRespStructure(minigame.ValidationResult{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(startPlay)

	// GET /api/plays/{playID}
	getPlay, _ := r.NewOperationContext(http.MethodGet, "/api/plays/{playID}")
	getPlay.SetSummary("Get play view")
	getPlay.SetDescription("Requires the play ticket as Bearer token.")
	getPlay.AddReqStructure(playPath{})
	getPlay.AddRespStructure(minigame.View{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlay.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPlay)

	// POST /api/plays/{playID}/actions
	postAction, _ := r.NewOperationContext(http.MethodPost, "/api/plays/{playID}/actions")
	postAction.SetSummary("Dispatch action")
	postAction.AddReqStructure(playAction{})
	postAction.AddRespStructure(minigame.View{}, openapi.WithHTTPStatus(http.StatusOK))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postAction.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postAction)

	// GET /api/plays/{playID}/result
	getResult, _ := r.NewOperationContext(http.MethodGet, "/api/plays/{playID}/result")
	getResult.SetSummary("Get delivered result")
	getResult.AddReqStructure(playPath{})
	getResult.AddRespStructure(PlayResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getResult)

	// DELETE /api/plays/{playID}
	unmount, _ := r.NewOperationContext(http.MethodDelete, "/api/plays/{playID}")
	unmount.SetSummary("Unmount play")
	unmount.AddReqStructure(playPath{})
	unmount.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	_ = r.AddOperation(unmount)

	// GET /api/plays/{playID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/plays/{playID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events with view, timer and result events. Pass the ticket as token query parameter.")
	getEvents.AddReqStructure(playPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /ws/plays/{playID}
	socket, _ := r.NewOperationContext(http.MethodGet, "/ws/plays/{playID}")
	socket.SetSummary("Play WebSocket")
	socket.SetDescription("Reads actions and writes play events. Pass the ticket as token query parameter.")
	socket.AddReqStructure(playPath{})
	socket.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(socket)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
