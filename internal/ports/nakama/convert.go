package nakama

import (
	"errors"
	"fmt"
	"math"

	"skull/internal/app"
	"skull/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var errBadPayload = errors.New("invalid payload")

// encodeMessage serializes a message body as a protobuf Struct.
func encodeMessage(fields map[string]any) ([]byte, error) {
	body, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build message: %w", err)
	}
	return proto.Marshal(body)
}

// decodeMessage parses a client message body. An empty body is an empty Struct.
func decodeMessage(data []byte) (*structpb.Struct, error) {
	body := &structpb.Struct{}
	if len(data) == 0 {
		return body, nil
	}
	if err := proto.Unmarshal(data, body); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return body, nil
}

// actionFromMessage maps a client opcode and body onto an engine action.
func actionFromMessage(opCode int64, data []byte) (domain.Action, error) {
	body, err := decodeMessage(data)
	if err != nil {
		return domain.Action{}, err
	}
	fields := body.GetFields()

	switch opCode {
	case OpJoin:
		return domain.Action{Kind: domain.ActionJoin}, nil
	case OpStartGame:
		return domain.Action{Kind: domain.ActionStart}, nil
	case OpPass:
		return domain.Action{Kind: domain.ActionPass}, nil
	case OpPlaceCard:
		card, err := domain.ParseCard(fields["card"].GetStringValue())
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: domain.ActionPlace, Card: card}, nil
	case OpPlaceBid:
		v, ok := fields["count"].GetKind().(*structpb.Value_NumberValue)
		if !ok || v.NumberValue != math.Trunc(v.NumberValue) {
			return domain.Action{}, fmt.Errorf("%w: count must be a whole number", errBadPayload)
		}
		return domain.Action{Kind: domain.ActionBid, Count: int(v.NumberValue)}, nil
	case OpReveal:
		target := fields["target"].GetStringValue()
		if target == "" {
			return domain.Action{}, fmt.Errorf("%w: target is required", errBadPayload)
		}
		return domain.Action{Kind: domain.ActionReveal, Target: target}, nil
	default:
		return domain.Action{}, fmt.Errorf("%w: unknown opcode %d", errBadPayload, opCode)
	}
}

// eventMessage picks the opcode and body for an app event.
func eventMessage(ev app.Event) (int64, map[string]any, error) {
	switch p := ev.Payload.(type) {
	case app.PlayerJoinedPayload:
		return OpPlayerJoined, map[string]any{"user_id": p.UserID, "seat": p.Seat}, nil
	case app.RoundStartedPayload:
		return OpRoundStarted, map[string]any{"round": p.Round, "started_by": p.StartedBy, "first_turn": p.FirstTurn}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]any{"user_id": p.UserID, "hand": cardList(p.Hand)}, nil
	case app.CardPlacedPayload:
		return OpCardPlaced, map[string]any{
			"user_id":   p.UserID,
			"pile_size": p.PileSize,
			"stage":     string(p.Stage),
			"next_turn": p.NextTurn,
		}, nil
	case app.BidPlacedPayload:
		return OpBidPlaced, map[string]any{
			"user_id":   p.UserID,
			"count":     p.Count,
			"stage":     string(p.Stage),
			"next_turn": p.NextTurn,
		}, nil
	case app.PlayerPassedPayload:
		return OpPlayerPassed, map[string]any{"user_id": p.UserID, "stage": string(p.Stage), "next_turn": p.NextTurn}, nil
	case app.CardRevealedPayload:
		return OpCardRevealed, map[string]any{
			"user_id":  p.UserID,
			"target":   p.Target,
			"card":     p.Card.String(),
			"revealed": p.Revealed,
			"stage":    string(p.Stage),
		}, nil
	case app.NarrationPayload:
		return OpNarration, map[string]any{"message": p.Message}, nil
	case app.RoundEndedPayload:
		return OpRoundEnded, map[string]any{"round": p.Round, "winner": p.Winner, "points": pointsMap(p.Points)}, nil
	case app.MatchEndedPayload:
		return OpMatchEnded, map[string]any{"champion": p.Champion, "points": pointsMap(p.Points)}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind: %v", ev.Kind)
	}
}

// stateMessage renders one viewer's projection of the match.
func stateMessage(view domain.UserState, names map[string]string, ownerID string) map[string]any {
	players := make([]any, 0, len(view.Players))
	for _, p := range view.Players {
		name := names[p.ID]
		if name == "" {
			name = p.ID
		}
		players = append(players, map[string]any{
			"id":         p.ID,
			"name":       name,
			"points":     p.Points,
			"card_count": p.CardCount,
			"hand_size":  p.HandSize,
			"pile_size":  p.PileSize,
			"revealed":   cardList(p.Revealed),
			"passed":     p.Passed,
			"eliminated": p.Eliminated,
			"owner":      p.ID == ownerID,
		})
	}

	var bid any
	if view.Bid != nil {
		bid = map[string]any{"player": view.Bid.Player, "count": view.Bid.Count}
	}

	return map[string]any{
		"viewer":   view.Viewer,
		"hand":     cardList(view.Hand),
		"pile":     cardList(view.Pile),
		"points":   view.Points,
		"players":  players,
		"stage":    string(view.Stage),
		"turn":     view.Turn,
		"winner":   view.Winner,
		"champion": view.Champion,
		"bid":      bid,
		"min_bid":  view.MinBid,
		"max_bid":  view.MaxBid,
		"round":    view.Round,
	}
}

func errorMessage(err error) map[string]any {
	code := string(domain.CodeOf(err))
	if code == "" {
		code = "bad_request"
	}
	return map[string]any{"code": code, "message": err.Error()}
}

// matchLabel renders the JSON label Nakama indexes for match listing.
func matchLabel(game *domain.GameState) (string, error) {
	l := domain.ComputeLabel(game)
	body, err := structpb.NewStruct(map[string]any{"open": l.Open, "game": l.Game, "stage": l.Stage})
	if err != nil {
		return "", err
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cardList(cards []domain.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func pointsMap(points map[string]int) map[string]any {
	out := make(map[string]any, len(points))
	for id, n := range points {
		out[id] = n
	}
	return out
}
