// Package action encodes moderation actions into the compact callback tokens
// attached to inline keyboard buttons, and decodes them back. Tokens have the
// shape "<kind>_<sender_id>", which keeps them well under Telegram's 64-byte
// callback_data limit.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedAction = errors.New("malformed action token")

type Kind string

const (
	KindReply  Kind = "reply"
	KindBlock  Kind = "block"
	KindUnban  Kind = "unban"
	KindCancel Kind = "cancel"
)

func (k Kind) valid() bool {
	switch k {
	case KindReply, KindBlock, KindUnban, KindCancel:
		return true
	}
	return false
}

type Action struct {
	Kind     Kind
	SenderID int64
}

func Encode(kind Kind, senderID int64) string {
	return string(kind) + "_" + strconv.FormatInt(senderID, 10)
}

// Decode parses a callback token. A failure means the token did not come from
// one of this bot's keyboards; the caller answers the interaction with a
// visible error and drops the event.
func Decode(token string) (Action, error) {
	token = strings.TrimSpace(token)
	kindRaw, idRaw, ok := strings.Cut(token, "_")
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", ErrMalformedAction, token)
	}
	kind := Kind(kindRaw)
	if !kind.valid() {
		return Action{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedAction, kindRaw)
	}
	senderID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil || senderID <= 0 {
		return Action{}, fmt.Errorf("%w: invalid sender id %q", ErrMalformedAction, idRaw)
	}
	return Action{Kind: kind, SenderID: senderID}, nil
}

const headerIDMarker = "ID: "

// SenderIDFromHeader recovers the sender id from a rendered suggestion body
// by scanning for the "ID: <n>" header line. It is the fallback binding for
// interactions whose token is unavailable and fails softly: absent or
// malformed markers report not-found instead of an error.
func SenderIDFromHeader(body string) (int64, bool) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, headerIDMarker) {
			continue
		}
		idRaw := strings.TrimSpace(strings.TrimPrefix(line, headerIDMarker))
		senderID, err := strconv.ParseInt(idRaw, 10, 64)
		if err != nil || senderID <= 0 {
			return 0, false
		}
		return senderID, true
	}
	return 0, false
}
