package domain

import "errors"

// ErrorCode is a stable, machine readable identifier for a rule violation.
type ErrorCode string

// RuleError is an expected, caller-facing rejection of an action.
// The state is never modified when one is returned.
type RuleError struct {
	Code    ErrorCode
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func newRuleError(code ErrorCode, message string) *RuleError {
	return &RuleError{Code: code, Message: message}
}

var (
	ErrAlreadyJoined          = newRuleError("already_joined", "already joined")
	ErrNotEnoughPlayers       = newRuleError("not_enough_players", "not enough players")
	ErrGameInProgress         = newRuleError("game_in_progress", "game in progress")
	ErrPlayerNotFound         = newRuleError("player_not_found", "player not found")
	ErrAlreadyPlaced          = newRuleError("already_placed", "you already placed a card")
	ErrCardNotInHand          = newRuleError("card_not_in_hand", "you don't have that card")
	ErrNotYourTurn            = newRuleError("not_your_turn", "not your turn")
	ErrNotInPlacingStage      = newRuleError("not_in_placing_stage", "not in placing stage")
	ErrNotInBiddingStage      = newRuleError("not_in_bidding_stage", "not in bidding stage")
	ErrNotInRevealingStage    = newRuleError("not_in_revealing_stage", "not in revealing stage")
	ErrBidTooLow              = newRuleError("bid_too_low", "bid too low")
	ErrBidTooHigh             = newRuleError("bid_too_high", "bid is higher than the number of placed cards")
	ErrMustRevealOwnPileFirst = newRuleError("must_reveal_own_pile_first", "you must reveal your own pile first")
	ErrNoCardsLeft            = newRuleError("no_cards_left", "no cards left in that pile")
	ErrNotImplemented         = newRuleError("not_implemented", "not implemented")

	ErrMatchFull   = newRuleError("match_full", "match is full")
	ErrMatchOver   = newRuleError("match_over", "match is over")
	ErrUnknownCard = newRuleError("unknown_card", "unknown card")
)

// CodeOf returns the rule code carried by err, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr.Code
	}
	return ""
}
