package app

import (
	"fmt"
	"math/rand"
	"time"

	"fish/internal/domain"
)

// Service contains the game use-cases: the move validator and state machine
// operating on a GameData aggregate the caller owns. It never performs IO;
// each operation either mutates the aggregate and returns the resulting
// events, or returns an error and leaves the aggregate untouched.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Player-count bounds for a game.
const (
	MinPlayers = 3
	MaxPlayers = 8
)

// CreateGame builds an empty aggregate in CREATED status.
func (s *Service) CreateGame(gameID, joinCode string, cfg domain.GameConfig) (*domain.GameData, error) {
	if cfg.PlayerCount < MinPlayers || cfg.PlayerCount > MaxPlayers {
		return nil, &ValidationError{Reason: fmt.Sprintf("Player Count Must Be %d-%d!", MinPlayers, MaxPlayers)}
	}
	if cfg.TeamCount < 2 || cfg.TeamCount > cfg.PlayerCount {
		return nil, &ValidationError{Reason: "Invalid Team Count!"}
	}
	return domain.NewGameData(gameID, joinCode, cfg), nil
}

// AddPlayer registers a player (human or bot) during the CREATED phase. When
// the configured seat count fills up, the game advances to PLAYERS_READY.
func (s *Service) AddPlayer(g *domain.GameData, playerID, name string, avatar int, isBot bool) ([]Event, error) {
	if g.Status != domain.StatusCreated {
		return nil, ErrWrongPhase
	}
	if _, ok := g.Players[playerID]; ok {
		return nil, ErrAlreadyJoined
	}
	if len(g.Players) >= g.Config.PlayerCount {
		return nil, ErrGameFull
	}

	g.Players[playerID] = &domain.Player{
		ID:          playerID,
		Name:        name,
		AvatarIndex: avatar,
		IsBot:       isBot,
	}
	g.PlayerOrder = append(g.PlayerOrder, playerID)
	g.Metrics[playerID] = &domain.PlayerMetrics{}

	events := []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID: playerID,
			Name:     name,
			IsBot:    isBot,
			Seat:     len(g.PlayerOrder),
		},
	}}

	if len(g.Players) == g.Config.PlayerCount {
		g.Status = domain.StatusPlayersReady
		events = append(events, Event{
			Kind:    EventAllPlayersJoined,
			Payload: AllPlayersJoinedPayload{PlayerOrder: append([]string(nil), g.PlayerOrder...)},
		})
	}
	return events, nil
}

// BotSeat identifies a bot to seat during a lobby fill.
type BotSeat struct {
	ID     string
	Name   string
	Avatar int
}

// FillWithBots seats the given bots in order. All-or-nothing: the first
// rejection aborts the fill.
func (s *Service) FillWithBots(g *domain.GameData, seats []BotSeat) ([]Event, error) {
	var events []Event
	for _, seat := range seats {
		evs, err := s.AddPlayer(g, seat.ID, seat.Name, seat.Avatar, true)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

// CreateTeams partitions the roster per the given playerID -> teamID
// assignment. Every player must be assigned, the number of distinct teams
// must match the config, and team sizes may differ by at most one.
func (s *Service) CreateTeams(g *domain.GameData, assignment map[string]string) ([]Event, error) {
	if g.Status != domain.StatusPlayersReady {
		return nil, ErrWrongPhase
	}

	members := make(map[string][]string)
	for _, playerID := range g.PlayerOrder {
		teamID, ok := assignment[playerID]
		if !ok || teamID == "" {
			return nil, ErrBadTeamSplit
		}
		members[teamID] = append(members[teamID], playerID)
	}
	if len(assignment) != len(g.PlayerOrder) || len(members) != g.Config.TeamCount {
		return nil, ErrBadTeamSplit
	}
	minSize, maxSize := len(g.PlayerOrder), 0
	for _, ids := range members {
		if len(ids) < minSize {
			minSize = len(ids)
		}
		if len(ids) > maxSize {
			maxSize = len(ids)
		}
	}
	if maxSize-minSize > 1 {
		return nil, ErrBadTeamSplit
	}

	return s.applyTeams(g, members, false), nil
}

// AutoCreateTeams is the deterministic timeout fallback: players are dealt
// into teams round-robin by join order, giving sizes that differ by at most
// one.
func (s *Service) AutoCreateTeams(g *domain.GameData) ([]Event, error) {
	if g.Status != domain.StatusPlayersReady {
		return nil, ErrWrongPhase
	}

	members := make(map[string][]string)
	for i, playerID := range g.PlayerOrder {
		teamID := fmt.Sprintf("team-%d", i%g.Config.TeamCount+1)
		members[teamID] = append(members[teamID], playerID)
	}
	return s.applyTeams(g, members, true), nil
}

func (s *Service) applyTeams(g *domain.GameData, members map[string][]string, auto bool) []Event {
	g.Teams = make(map[string]*domain.Team, len(members))
	for teamID, ids := range members {
		g.Teams[teamID] = &domain.Team{ID: teamID, MemberIDs: append([]string(nil), ids...)}
		for _, playerID := range ids {
			g.Players[playerID].TeamID = teamID
		}
	}
	g.Status = domain.StatusTeamsCreated

	return []Event{{
		Kind:    EventTeamsCreated,
		Payload: TeamsCreatedPayload{Teams: g.Teams, Auto: auto},
	}}
}

// StartGame deals the shuffled deck evenly round-robin, seeds the per-book
// inference state from the deal, and moves the game to IN_PROGRESS.
func (s *Service) StartGame(g *domain.GameData, bookType domain.BookType, deckSize int) ([]Event, error) {
	if g.Status != domain.StatusTeamsCreated {
		return nil, ErrWrongPhase
	}
	switch bookType {
	case domain.BookTypeRank, domain.BookTypeHalfSuit:
	default:
		return nil, ErrBadDeckConfig
	}
	if deckSize != 0 && deckSize != domain.DeckSizeFor(bookType) {
		return nil, ErrBadDeckConfig
	}

	deck := domain.NewDeck(bookType)
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return s.startWithDeck(g, bookType, deck), nil
}

// startWithDeck finishes the deal with an explicit deck order.
func (s *Service) startWithDeck(g *domain.GameData, bookType domain.BookType, deck []domain.Card) []Event {
	g.Config.BookType = bookType
	g.Config.DeckSize = len(deck)

	for i, c := range deck {
		playerID := g.PlayerOrder[i%len(g.PlayerOrder)]
		g.CardOwners[c.ID()] = playerID
		g.CardCounts[playerID]++
	}
	g.SeedBooks()
	g.CurrentTurn = g.PlayerOrder[0]
	g.Status = domain.StatusInProgress

	events := make([]Event, 0, len(g.PlayerOrder))
	for _, playerID := range g.PlayerOrder {
		events = append(events, Event{
			Kind: EventCardsDealt,
			Payload: CardsDealtPayload{
				PlayerID:  playerID,
				Hand:      g.HandOf(playerID),
				Counts:    countsCopy(g.CardCounts),
				FirstTurn: g.CurrentTurn,
			},
			Recipients: []string{playerID},
		})
	}
	return events
}

// AskCard resolves an ask move. On a hit the card transfers to the asker and
// the turn stays put; on a miss the turn passes to the target and the target
// is eliminated from that card's candidates.
func (s *Service) AskCard(g *domain.GameData, askerID, targetID, cardID string) ([]Event, error) {
	if g.Status != domain.StatusInProgress {
		return nil, ErrWrongPhase
	}
	asker, ok := g.Players[askerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	target, ok := g.Players[targetID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if g.CurrentTurn != askerID {
		return nil, ErrNotYourTurn
	}
	if askerID == targetID {
		return nil, ErrAskSelf
	}
	if asker.TeamID == target.TeamID {
		return nil, ErrAskTeammate
	}
	if g.CardCounts[askerID] == 0 {
		return nil, ErrAskerHasNoCards
	}
	card, err := domain.ParseCard(cardID)
	if err != nil {
		return nil, ErrUnknownCard
	}
	cardID = card.ID()
	book := g.Books[domain.BookIDOf(card, g.Config.BookType)]
	if book == nil || book.ResolvedBy != "" {
		return nil, ErrUnknownCard
	}
	if g.CardOwners[cardID] == askerID {
		return nil, ErrCardAlreadyHeld
	}
	if g.CardCounts[targetID] == 0 {
		return nil, ErrTargetHasNoCards
	}

	g.PendingTransfer = ""
	g.Metrics[askerID].AsksMade++

	success := g.CardOwners[cardID] == targetID
	if success {
		g.CardOwners[cardID] = askerID
		g.CardCounts[targetID]--
		g.CardCounts[askerID]++
		g.Metrics[askerID].CardsTaken++
		g.Metrics[targetID].CardsGiven++
		g.ObserveSuccessfulAsk(cardID, askerID, targetID)
	} else {
		g.CurrentTurn = targetID
		g.ObserveFailedAsk(cardID, targetID)
	}

	desc := fmt.Sprintf("%s asked %s for %s: %s", asker.Name, target.Name, cardID, hitOrMiss(success))
	g.AskHistory = append(g.AskHistory, domain.AskEvent{
		Success:     success,
		Description: desc,
		AskerID:     askerID,
		TargetID:    targetID,
		CardID:      cardID,
	})

	return []Event{{
		Kind: EventCardAsked,
		Payload: CardAskedPayload{
			AskerID:  askerID,
			TargetID: targetID,
			CardID:   cardID,
			Success:  success,
			NextTurn: g.CurrentTurn,
		},
	}}, nil
}

// ClaimBook validates a whole-book ownership declaration. A fully correct
// claim awards the book to the claimer's team and preserves the turn; any
// mismatch forfeits the book to the opposing team and consumes the turn.
// No cards move in either case; the book's cards simply leave play.
func (s *Service) ClaimBook(g *domain.GameData, claimerID, bookID string, claim map[string]string) ([]Event, error) {
	if g.Status != domain.StatusInProgress {
		return nil, ErrWrongPhase
	}
	claimer, ok := g.Players[claimerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	book, ok := g.Books[bookID]
	if !ok {
		return nil, ErrUnknownBook
	}
	if book.ResolvedBy != "" {
		return nil, ErrBookResolved
	}

	cardIDs := domain.CardsOfBook(bookID, g.Config.BookType)
	if len(claim) != len(cardIDs) {
		return nil, ErrIncompleteClaim
	}
	actual := make(map[string]string, len(cardIDs))
	correct := true
	for _, cardID := range cardIDs {
		declared, ok := claim[cardID]
		if !ok {
			return nil, ErrIncompleteClaim
		}
		if _, ok := g.Players[declared]; !ok {
			return nil, ErrUnknownPlayer
		}
		actual[cardID] = g.CardOwners[cardID]
		if declared != actual[cardID] {
			correct = false
		}
	}

	g.PendingTransfer = ""
	g.Metrics[claimerID].ClaimsMade++

	awardedTeamID := claimer.TeamID
	if correct {
		g.Metrics[claimerID].ClaimsSucceeded++
	} else {
		awardedTeamID = g.OpposingTeamID(claimer.TeamID)
	}

	awarded := g.Teams[awardedTeamID]
	awarded.Score++
	awarded.BooksWon = append(awarded.BooksWon, bookID)

	// Remove the book's cards from play.
	for _, cardID := range cardIDs {
		owner := g.CardOwners[cardID]
		delete(g.CardOwners, cardID)
		g.CardCounts[owner]--
	}
	g.ObserveClaim(bookID, awardedTeamID, actual)

	if correct {
		if claimerID == g.CurrentTurn && g.CardCounts[claimerID] == 0 {
			g.PendingTransfer = claimerID
		} else if g.CardCounts[g.CurrentTurn] == 0 {
			// The turn holder ran out of cards through someone else's claim;
			// advance to the next seat still holding cards.
			g.CurrentTurn = g.NextWithCards(g.CurrentTurn)
		}
	} else {
		g.CurrentTurn = g.FirstWithCards(awarded.MemberIDs)
	}

	desc := fmt.Sprintf("%s claimed book %s: %s", claimer.Name, bookID, hitOrMiss(correct))
	g.ClaimHistory = append(g.ClaimHistory, domain.ClaimEvent{
		Success:       correct,
		Description:   desc,
		ClaimerID:     claimerID,
		BookID:        bookID,
		Claimed:       copyClaim(claim),
		Actual:        actual,
		AwardedTeamID: awardedTeamID,
	})

	events := []Event{{
		Kind: EventBookClaimed,
		Payload: BookClaimedPayload{
			ClaimerID:     claimerID,
			BookID:        bookID,
			Success:       correct,
			Claimed:       copyClaim(claim),
			Actual:        actual,
			AwardedTeamID: awardedTeamID,
			NextTurn:      g.CurrentTurn,
		},
	}}

	if len(g.UnresolvedBookIDs()) == 0 {
		g.Status = domain.StatusCompleted
		events = append(events, Event{
			Kind: EventGameCompleted,
			Payload: GameCompletedPayload{
				Teams:   g.Teams,
				Metrics: g.Metrics,
				Winners: g.WinningTeams(),
			},
		})
	}
	return events, nil
}

// TransferTurn hands the turn to a teammate. Legal only immediately after the
// transferring player's own correct claim while holding zero cards.
func (s *Service) TransferTurn(g *domain.GameData, fromID, toID string) ([]Event, error) {
	if g.Status != domain.StatusInProgress {
		return nil, ErrWrongPhase
	}
	if g.PendingTransfer == "" || g.PendingTransfer != fromID || g.CardCounts[fromID] != 0 {
		return nil, ErrNoTransferRight
	}
	if _, ok := g.Players[toID]; !ok {
		return nil, ErrUnknownPlayer
	}
	if toID == fromID || !g.SameTeam(fromID, toID) || g.CardCounts[toID] == 0 {
		return nil, ErrBadTransferTo
	}

	g.PendingTransfer = ""
	g.CurrentTurn = toID
	g.TransferHistory = append(g.TransferHistory, domain.TransferEvent{
		Description: fmt.Sprintf("%s passed the turn to %s", g.Players[fromID].Name, g.Players[toID].Name),
		FromID:      fromID,
		ToID:        toID,
	})

	return []Event{{
		Kind:    EventTurnTransferred,
		Payload: TurnTransferredPayload{FromID: fromID, ToID: toID},
	}}, nil
}

func hitOrMiss(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func countsCopy(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyClaim(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
