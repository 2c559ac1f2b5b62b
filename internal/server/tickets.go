package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/playperu/minigames/internal/minigame"
)

const ticketIssuer = "minigames"

// PlayClaims bind a bearer ticket to one play.
type PlayClaims struct {
	Mode   minigame.Mode `json:"mode"`
	GameID string        `json:"gameId,omitempty"`
	jwt.RegisteredClaims
}

// Tickets issues and verifies HS256 play tickets.
type Tickets struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTickets(secret string, ttl time.Duration) *Tickets {
	return &Tickets{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tickets) Issue(playID, gameID string, mode minigame.Mode) (string, error) {
	now := t.now()
	claims := PlayClaims{
		Mode:   mode,
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			Subject:   playID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing ticket: %w", err)
	}
	return signed, nil
}

func (t *Tickets) Verify(token string) (PlayClaims, error) {
	var claims PlayClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ticketIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return PlayClaims{}, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return PlayClaims{}, errors.New("ticket has no play")
	}
	return claims, nil
}
