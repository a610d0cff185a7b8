package ws

import (
	"encoding/json"
	"errors"

	"skull/internal/domain"
)

// Client message types. Anything else is answered with an error message.
const (
	MsgJoin   = "join"
	MsgStart  = "start"
	MsgPlace  = "place"
	MsgBid    = "bid"
	MsgPass   = "pass"
	MsgReveal = "reveal"
	MsgState  = "state"

	MsgError = "error"
)

var errBadMessage = errors.New("malformed message")

// Msg is the envelope for every frame in both directions.
type Msg struct {
	T string `json:"t"`
	M any    `json:"m,omitempty"`
}

type inbound struct {
	T string          `json:"t"`
	M json.RawMessage `json:"m,omitempty"`
}

type actionBody struct {
	Card   string `json:"card"`
	Count  int    `json:"count"`
	Target string `json:"target"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (in inbound) action() (domain.Action, error) {
	var body actionBody
	if len(in.M) > 0 {
		if err := json.Unmarshal(in.M, &body); err != nil {
			return domain.Action{}, errBadMessage
		}
	}

	switch in.T {
	case MsgJoin:
		return domain.Action{Kind: domain.ActionJoin}, nil
	case MsgStart:
		return domain.Action{Kind: domain.ActionStart}, nil
	case MsgPlace:
		card, err := domain.ParseCard(body.Card)
		if err != nil {
			return domain.Action{}, err
		}
		return domain.Action{Kind: domain.ActionPlace, Card: card}, nil
	case MsgBid:
		return domain.Action{Kind: domain.ActionBid, Count: body.Count}, nil
	case MsgPass:
		return domain.Action{Kind: domain.ActionPass}, nil
	case MsgReveal:
		if body.Target == "" {
			return domain.Action{}, errBadMessage
		}
		return domain.Action{Kind: domain.ActionReveal, Target: body.Target}, nil
	default:
		return domain.Action{}, errBadMessage
	}
}

func errorMsg(err error) Msg {
	code := string(domain.CodeOf(err))
	if code == "" {
		code = "bad_request"
	}
	return Msg{T: MsgError, M: errorBody{Code: code, Message: err.Error()}}
}
