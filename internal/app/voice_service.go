package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"

	defaultVoiceTTL = time.Hour
)

var ErrVoiceDisabled = errors.New("voice chat is not configured")

// VoiceService signs Vivox access tokens. Every Skull match gets its own
// group channel so table talk stays within the table.
type VoiceService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
	now    func() time.Time
}

func NewVoiceService(secret, issuer, domain string, ttl time.Duration) *VoiceService {
	if ttl <= 0 {
		ttl = defaultVoiceTTL
	}
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Enabled reports whether all Vivox settings are present.
func (s *VoiceService) Enabled() bool {
	return s != nil && s.secret != "" && s.issuer != "" && s.domain != ""
}

// ChannelName maps a match id to its voice channel.
func ChannelName(matchID string) string {
	return "skull-" + matchID
}

// LoginToken authorizes a user to sign in to the voice service.
func (s *VoiceService) LoginToken(userID string) (string, error) {
	return s.sign(userID, VoiceActionLogin, "")
}

// JoinToken authorizes a user to join the voice channel of a match.
func (s *VoiceService) JoinToken(userID, matchID string) (string, error) {
	if matchID == "" {
		return "", fmt.Errorf("match id is required for join tokens")
	}
	return s.sign(userID, VoiceActionJoin, ChannelName(matchID))
}

func (s *VoiceService) sign(userID, action, channel string) (string, error) {
	if !s.Enabled() {
		return "", ErrVoiceDisabled
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}

	from := s.userURI(userID)
	to := from
	if action == VoiceActionJoin {
		to = s.channelURI(channel)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"exp": now.Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
		"f":   from,
		"t":   to,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("sign voice token: %w", err)
	}
	return token, nil
}

func (s *VoiceService) userURI(userID string) string {
	return "sip:." + s.issuer + "." + userID + ".@" + s.domain
}

func (s *VoiceService) channelURI(channel string) string {
	return "sip:confctl-g-" + channel + "@" + s.domain
}
