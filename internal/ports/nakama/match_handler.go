package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"fish/internal/app"
	"fish/internal/bot"
	"fish/internal/config"
	"fish/internal/domain"
	"fish/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the runtime state of one game actor. The Game aggregate
// is exclusively owned here; every mutation goes clone -> mutate -> persist
// -> swap, so a failed durable write never advances in-memory state.
type MatchState struct {
	Game     *domain.GameData
	Workflow *ports.LobbyWorkflow

	Presences map[string]runtime.Presence
	App       *app.Service
	Store     ports.GameStore
	Economy   ports.EconomyPort
	Cfg       config.Config
	Bots      map[string]*bot.Agent

	Tick  int64
	timer oneShot
	rng   *rand.Rand
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit creates or resumes a game. Loading the durable record completes
// before any message is processed, so the actor never races default state.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg, err := config.FromRuntimeEnv(env)
	if err != nil {
		logger.Warn("MatchInit: Bad runtime env, using defaults: %v", err)
		cfg, _ = config.FromRuntimeEnv(nil)
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	store := NewStorageAdapter(nk)

	s := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Store:     store,
		Economy:   NewEconomyAdapter(nk),
		Cfg:       cfg,
		Bots:      make(map[string]*bot.Agent),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if gameID, ok := params["game_id"].(string); ok && gameID != "" {
		game, err := store.LoadGame(ctx, gameID)
		if err != nil {
			logger.Error("MatchInit: Cannot resume game %s: %v", gameID, err)
			return nil, 0, ""
		}
		s.Game = game
		for playerID, p := range game.Players {
			if p.IsBot {
				s.Bots[playerID] = bot.NewAgent(bot.BotIdentity{UserID: playerID, Name: p.Name, AvatarIndex: p.AvatarIndex})
			}
		}

		wf, err := store.LoadWorkflow(ctx, gameID)
		if err != nil {
			wf = &ports.LobbyWorkflow{
				InstanceID:    gameID,
				GameID:        gameID,
				Phase:         game.Status,
				Roster:        append([]string(nil), game.PlayerOrder...),
				PhaseDeadline: int64(cfg.JoinTimeoutSec),
			}
		}
		s.Workflow = wf
	} else {
		joinCode, _ := params["join_code"].(string)
		if joinCode == "" {
			joinCode = GenerateJoinCode()
		}

		game, err := s.App.CreateGame(matchID, joinCode, domain.GameConfig{
			PlayerCount: intParam(params, "player_count", cfg.DefaultPlayerCount),
			TeamCount:   intParam(params, "team_count", cfg.DefaultTeamCount),
			BookType:    domain.BookType(cfg.DefaultBookType),
		})
		if err != nil {
			logger.Error("MatchInit: Invalid game config: %v", err)
			return nil, 0, ""
		}

		if err := store.SaveGame(ctx, game); err != nil {
			logger.Error("MatchInit: Durable write failed: %v", err)
			return nil, 0, ""
		}
		if err := store.SaveJoinCode(ctx, joinCode, matchID); err != nil {
			logger.Error("MatchInit: Join code index write failed: %v", err)
			return nil, 0, ""
		}

		s.Game = game
		s.Workflow = &ports.LobbyWorkflow{
			InstanceID:    matchID,
			GameID:        matchID,
			Phase:         domain.StatusCreated,
			PhaseDeadline: int64(cfg.JoinTimeoutSec),
		}
		if err := store.SaveWorkflow(ctx, s.Workflow); err != nil {
			logger.Error("MatchInit: Workflow write failed: %v", err)
			return nil, 0, ""
		}
	}

	labelBytes, err := json.Marshal(labelFor(s.Game))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return s, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	uid := presence.GetUserId()
	if _, registered := s.Game.Players[uid]; registered {
		return state, true, "" // rejoin
	}
	if s.Game.Status != domain.StatusCreated {
		return state, false, "match_in_progress"
	}
	if len(s.Game.Players) >= s.Game.Config.PlayerCount {
		return state, false, "match_full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		s.Presences[uid] = p

		if _, registered := s.Game.Players[uid]; registered {
			mh.sendSnapshot(s, dispatcher, logger, uid)
			continue
		}

		mh.commit(ctx, s, dispatcher, logger, uid, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.AddPlayer(g, uid, p.GetUsername(), 0, false)
		})
	}

	mh.updateLabel(s, dispatcher, logger)
	return s
}

// MatchLeave drops presences. Registered players stay in the game data and
// may rejoin; with no humans left before the deal the match terminates.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(s.Presences, p.GetUserId())
	}

	if len(s.Presences) == 0 && s.Game.Status != domain.StatusInProgress {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		return nil
	}
	return s
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}
	s.Tick = tick

	for _, msg := range messages {
		mh.handleMessage(ctx, s, dispatcher, logger, msg)
	}

	mh.processLobby(ctx, s, dispatcher, logger)
	mh.processAutoplay(ctx, s, dispatcher, logger)

	return s
}

func (mh *matchHandler) handleMessage(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	sender := msg.GetUserId()

	switch msg.GetOpCode() {
	case OpCreateTeams:
		var req CreateTeamsRequest
		if !mh.decode(s, dispatcher, logger, sender, msg.GetData(), &req) {
			return
		}
		if sender != s.ownerID() {
			mh.sendError(s, dispatcher, logger, sender, 403, "Only The Owner Can Create Teams!")
			return
		}
		mh.commit(ctx, s, dispatcher, logger, sender, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.CreateTeams(g, req.Assignment)
		})

	case OpStartGame:
		var req StartGameRequest
		if !mh.decode(s, dispatcher, logger, sender, msg.GetData(), &req) {
			return
		}
		if sender != s.ownerID() {
			mh.sendError(s, dispatcher, logger, sender, 403, "Only The Owner Can Start The Game!")
			return
		}
		bookType := domain.BookType(req.BookType)
		if req.BookType == "" {
			bookType = s.Game.Config.BookType
		}
		if mh.commit(ctx, s, dispatcher, logger, sender, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.StartGame(g, bookType, req.DeckSize)
		}) {
			mh.updateLabel(s, dispatcher, logger)
		}

	case OpAskCard:
		var req AskCardRequest
		if !mh.decode(s, dispatcher, logger, sender, msg.GetData(), &req) {
			return
		}
		mh.commit(ctx, s, dispatcher, logger, sender, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.AskCard(g, sender, req.TargetID, req.CardID)
		})

	case OpClaimBook:
		var req ClaimBookRequest
		if !mh.decode(s, dispatcher, logger, sender, msg.GetData(), &req) {
			return
		}
		mh.commit(ctx, s, dispatcher, logger, sender, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.ClaimBook(g, sender, req.BookID, req.Owners)
		})

	case OpTransferTurn:
		var req TransferTurnRequest
		if !mh.decode(s, dispatcher, logger, sender, msg.GetData(), &req) {
			return
		}
		mh.commit(ctx, s, dispatcher, logger, sender, func(g *domain.GameData) ([]app.Event, error) {
			return s.App.TransferTurn(g, sender, req.TargetID)
		})

	case OpGetState:
		mh.sendSnapshot(s, dispatcher, logger, sender)

	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
	}
}

// processLobby applies the bounded-wait fallbacks: bot fill, auto teams,
// auto start. Phases run strictly in order; expiry is a defined transition,
// not an error.
func (mh *matchHandler) processLobby(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	wf := s.Workflow

	switch wf.Phase {
	case domain.StatusCreated:
		if s.Tick < wf.PhaseDeadline {
			return
		}
		if !s.Cfg.BotsEnabled {
			wf.PhaseDeadline = s.Tick + int64(s.Cfg.JoinTimeoutSec)
			return
		}
		if len(s.Presences) == 0 {
			// Nobody showed up at all; keep waiting rather than spin up an
			// all-bot table.
			wf.PhaseDeadline = s.Tick + int64(s.Cfg.JoinTimeoutSec)
			return
		}

		identities := make([]bot.BotIdentity, 0)
		seats := make([]app.BotSeat, 0)
		for seat := len(s.Game.PlayerOrder); seat < s.Game.Config.PlayerCount; seat++ {
			id := bot.NewIdentity(seat)
			identities = append(identities, id)
			seats = append(seats, app.BotSeat{ID: id.UserID, Name: id.Name, Avatar: id.AvatarIndex})
		}
		ok := mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.FillWithBots(g, seats)
		})
		if ok {
			for _, id := range identities {
				s.Bots[id.UserID] = bot.NewAgent(id)
			}
			logger.Info("processLobby: Filled %d seats with bots.", len(identities))
			mh.updateLabel(s, dispatcher, logger)
		}

	case domain.StatusPlayersReady:
		if s.Tick < wf.PhaseDeadline {
			return
		}
		if mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.AutoCreateTeams(g)
		}) {
			logger.Info("processLobby: Team wait expired, auto-partitioned teams.")
		}

	case domain.StatusTeamsCreated:
		if s.Tick < wf.PhaseDeadline {
			return
		}
		if mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.StartGame(g, s.Game.Config.BookType, 0)
		}) {
			logger.Info("processLobby: Start wait expired, auto-started with default rules.")
			mh.updateLabel(s, dispatcher, logger)
		}
	}
}

// processAutoplay owns the single deferred callback per game: bots act after
// a short jittered delay, and a human seat that sits past the turn deadline
// is played by the same suggestion engine.
func (mh *matchHandler) processAutoplay(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	g := s.Game
	if g.Status != domain.StatusInProgress || g.CurrentTurn == "" {
		s.timer.Cancel()
		return
	}

	actor := g.CurrentTurn
	moves := len(g.AskHistory) + len(g.ClaimHistory) + len(g.TransferHistory)
	token := fmt.Sprintf("%s#%d", actor, moves)

	if !s.timer.ArmedFor(token) {
		delay := s.Cfg.TurnTimeoutSec
		if p := g.Players[actor]; p != nil && p.IsBot {
			delay = s.Cfg.BotMinDelaySec
			if jitter := s.Cfg.BotMaxDelaySec - s.Cfg.BotMinDelaySec; jitter > 0 {
				delay += s.rng.Intn(jitter + 1)
			}
		}
		s.timer.Arm(token, s.Tick+int64(delay))
		return
	}

	if _, fired := s.timer.Fire(s.Tick); fired {
		mh.playSuggested(ctx, s, dispatcher, logger, actor)
	}
}

// playSuggested runs the suggestion engine for the actor and applies the
// chosen move, handling each variant exhaustively.
func (mh *matchHandler) playSuggested(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, actorID string) {
	view := s.Game.ViewFor(actorID)

	var suggestion bot.Suggestion
	if agent, ok := s.Bots[actorID]; ok {
		suggestion = agent.Decide(view)
	} else {
		suggestion = bot.NewEngine().Decide(view)
	}

	switch move := suggestion.(type) {
	case bot.WeightedClaim:
		mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.ClaimBook(g, actorID, move.BookID, move.Owners)
		})
	case bot.WeightedAsk:
		mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.AskCard(g, actorID, move.TargetID, move.CardID)
		})
	case bot.WeightedTransfer:
		mh.commit(ctx, s, dispatcher, logger, "", func(g *domain.GameData) ([]app.Event, error) {
			return s.App.TransferTurn(g, actorID, move.TargetID)
		})
	case nil:
		logger.Debug("playSuggested: %s has no legal move, passing.", actorID)
	default:
		logger.Warn("playSuggested: Unhandled suggestion %T", suggestion)
	}
}

// commit applies a mutation through the persist-then-swap discipline. On a
// validation error the sender alone is notified; on a storage failure the
// clone is discarded so memory and durable state never diverge.
func (mh *matchHandler) commit(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, mutate func(g *domain.GameData) ([]app.Event, error)) bool {
	next := s.Game.Clone()
	events, err := mutate(next)
	if err != nil {
		if senderID != "" {
			mh.sendError(s, dispatcher, logger, senderID, 400, err.Error())
		} else {
			logger.Warn("commit: Rejected internal move: %v", err)
		}
		return false
	}

	if err := s.Store.SaveGame(ctx, next); err != nil {
		logger.Error("commit: Durable write failed, discarding mutation: %v", err)
		if senderID != "" {
			mh.sendError(s, dispatcher, logger, senderID, 503, "Storage Failure, Please Retry!")
		}
		return false
	}

	s.Game = next
	mh.syncWorkflow(ctx, s, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, s, dispatcher, logger, ev)
	}
	return true
}

// syncWorkflow persists the lobby workflow record whenever the game status
// moved past the workflow's recorded phase, arming the next phase deadline.
func (mh *matchHandler) syncWorkflow(ctx context.Context, s *MatchState, logger runtime.Logger) {
	if s.Workflow.Phase == s.Game.Status {
		return
	}

	s.Workflow.Phase = s.Game.Status
	s.Workflow.Roster = append([]string(nil), s.Game.PlayerOrder...)
	switch s.Game.Status {
	case domain.StatusPlayersReady:
		s.Workflow.PhaseDeadline = s.Tick + int64(s.Cfg.TeamTimeoutSec)
	case domain.StatusTeamsCreated:
		s.Workflow.PhaseDeadline = s.Tick + int64(s.Cfg.StartTimeoutSec)
	default:
		s.Workflow.PhaseDeadline = 0
	}

	if err := s.Store.SaveWorkflow(ctx, s.Workflow); err != nil {
		logger.Error("syncWorkflow: Workflow write failed: %v", err)
	}
}

func (mh *matchHandler) broadcastEvent(ctx context.Context, s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventAllPlayersJoined:
		opCode = OpAllPlayersJoined
	case app.EventTeamsCreated:
		opCode = OpTeamsCreated
	case app.EventCardsDealt:
		opCode = OpCardsDealt
	case app.EventCardAsked:
		opCode = OpCardAsked
	case app.EventBookClaimed:
		opCode = OpBookClaimed
	case app.EventTurnTransferred:
		opCode = OpTurnTransferred
	case app.EventGameCompleted:
		opCode = OpGameCompleted
		mh.settlePoints(ctx, s, logger)
		mh.updateLabel(s, dispatcher, logger)
	default:
		logger.Warn("broadcastEvent: Unknown event kind: %v", ev.Kind)
		return
	}

	data, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("broadcastEvent: Failed to marshal %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := s.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events with no connected recipient (e.g. a bot's hand)
		// must not fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("broadcastEvent: Broadcast failed: %v", err)
	}
}

// settlePoints credits each human player with points per book their team
// won.
func (mh *matchHandler) settlePoints(ctx context.Context, s *MatchState, logger runtime.Logger) {
	if s.Economy == nil || s.Cfg.PointsPerBook == 0 {
		return
	}

	var updates []ports.WalletUpdate
	for _, team := range s.Game.Teams {
		amount := int64(len(team.BooksWon)) * s.Cfg.PointsPerBook
		if amount == 0 {
			continue
		}
		for _, memberID := range team.MemberIDs {
			if p := s.Game.Players[memberID]; p == nil || p.IsBot {
				continue
			}
			updates = append(updates, ports.WalletUpdate{
				UserID: memberID,
				Amount: amount,
				Metadata: map[string]interface{}{
					"game_id": s.Game.GameID,
					"reason":  "books_won",
				},
			})
		}
	}
	if err := s.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("settlePoints: Failed to update balances: %v", err)
	}
}

func (mh *matchHandler) sendSnapshot(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := s.Presences[userID]
	if !ok {
		return
	}
	data, err := json.Marshal(s.Game.ViewFor(userID))
	if err != nil {
		logger.Error("sendSnapshot: Failed to marshal view: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpStateSnapshot, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendSnapshot: Send failed: %v", err)
	}
}

// sendError sends an ErrorPayload to a specific user.
func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := s.Presences[userID]
	if !ok {
		logger.Warn("sendError: Cannot notify %s: presence not found", userID)
		return
	}
	data, err := json.Marshal(ErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendError: Send failed: %v", err)
	}
}

func (mh *matchHandler) decode(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, sender string, data []byte, out any) bool {
	if err := json.Unmarshal(data, out); err != nil {
		mh.sendError(s, dispatcher, logger, sender, 400, "Malformed Request!")
		return false
	}
	return true
}

func (mh *matchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(labelFor(s.Game))
	if err != nil {
		logger.Error("updateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("updateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated.")
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// labelFor derives the advertised match label.
func labelFor(g *domain.GameData) Label {
	open := g.Status == domain.StatusCreated && len(g.Players) < g.Config.PlayerCount
	return Label{Open: open, Game: "fish", Phase: string(g.Status)}
}

// ownerID returns the acting lobby owner: the first registered human still
// connected, so ownership passes along seat order when the owner leaves.
func (s *MatchState) ownerID() string {
	for _, playerID := range s.Game.PlayerOrder {
		if p := s.Game.Players[playerID]; p != nil && !p.IsBot {
			if _, connected := s.Presences[playerID]; connected {
				return playerID
			}
		}
	}
	return firstHumanID(s.Game)
}

// firstHumanID returns the first registered human in seat order.
func firstHumanID(g *domain.GameData) string {
	for _, playerID := range g.PlayerOrder {
		if p := g.Players[playerID]; p != nil && !p.IsBot {
			return playerID
		}
	}
	if len(g.PlayerOrder) > 0 {
		return g.PlayerOrder[0]
	}
	return ""
}

// GenerateJoinCode mints a short shareable code.
func GenerateJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case int64:
		if v > 0 {
			return int(v)
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return fallback
}
