package nakama

const (
	// RpcCreateMatch is the Nakama RPC id clients call to open a new table.
	RpcCreateMatch = "create_match"

	// RpcVoiceToken signs a voice chat token for the caller.
	RpcVoiceToken = "voice_token"

	// MatchNameSkull is the authoritative match handler name registered with Nakama.
	MatchNameSkull = "skull_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpJoin         int64 = 1
	OpStartGame    int64 = 2
	OpPlaceCard    int64 = 3
	OpPlaceBid     int64 = 4
	OpPass         int64 = 5
	OpReveal       int64 = 6
	OpRequestState int64 = 7

	// Server -> Client
	OpState        int64 = 100 // per viewer
	OpPlayerJoined int64 = 101
	OpRoundStarted int64 = 102
	OpCardPlaced   int64 = 103
	OpBidPlaced    int64 = 104
	OpPlayerPassed int64 = 105
	OpCardRevealed int64 = 106
	OpNarration    int64 = 107
	OpRoundEnded   int64 = 108
	OpMatchEnded   int64 = 109
	OpError        int64 = 110 // send privately
	OpHandDealt    int64 = 111 // send privately
)
