package game

import (
	"fmt"
	"strings"
)

// HelpKind identifies one of the three lifelines.
type HelpKind string

const (
	HelpFiftyFifty HelpKind = "fifty_fifty"
	HelpAudience   HelpKind = "audience_help"
	HelpFriendCall HelpKind = "friend_call"
)

// HelpKinds lists lifelines in display order.
var HelpKinds = [3]HelpKind{HelpFiftyFifty, HelpAudience, HelpFriendCall}

// ParseHelpKind accepts snake_case or camelCase lifeline names.
func ParseHelpKind(value string) (HelpKind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "_", ""))
	switch normalized {
	case "fiftyfifty", "50/50":
		return HelpFiftyFifty, nil
	case "audiencehelp", "audience":
		return HelpAudience, nil
	case "friendcall", "friend":
		return HelpFriendCall, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidHelpKind, value)
	}
}

// Help is one revealed lifeline payload.
type Help interface {
	Kind() HelpKind
}

// FiftyFifty keeps the correct key and one distractor.
type FiftyFifty struct {
	Keys []Key
}

// Kind implements Help.
func (FiftyFifty) Kind() HelpKind { return HelpFiftyFifty }

// AudienceHelp holds the audience vote percentage for every key.
type AudienceHelp struct {
	Votes map[Key]int
}

// Kind implements Help.
func (AudienceHelp) Kind() HelpKind { return HelpAudience }

// FriendCall is the friend's suggestion. Text always ends with Key in upper case.
type FriendCall struct {
	Text string
	Key  Key
}

// Kind implements Help.
func (FriendCall) Kind() HelpKind { return HelpFriendCall }

// HelpState is the append-only set of lifelines revealed for one question.
type HelpState struct {
	FiftyFifty *FiftyFifty
	Audience   *AudienceHelp
	FriendCall *FriendCall
}

// Get returns the revealed payload for kind.
func (s HelpState) Get(kind HelpKind) (Help, bool) {
	switch kind {
	case HelpFiftyFifty:
		if s.FiftyFifty != nil {
			return *s.FiftyFifty, true
		}
	case HelpAudience:
		if s.Audience != nil {
			return *s.Audience, true
		}
	case HelpFriendCall:
		if s.FriendCall != nil {
			return *s.FriendCall, true
		}
	}
	return nil, false
}

// Has reports whether kind was revealed.
func (s HelpState) Has(kind HelpKind) bool {
	_, ok := s.Get(kind)
	return ok
}

// Revealed returns the revealed payloads in HelpKinds order.
func (s HelpState) Revealed() []Help {
	var out []Help
	for _, kind := range HelpKinds {
		if help, ok := s.Get(kind); ok {
			out = append(out, help)
		}
	}
	return out
}

// Empty reports whether nothing has been revealed.
func (s HelpState) Empty() bool {
	return s.FiftyFifty == nil && s.Audience == nil && s.FriendCall == nil
}

func (s *HelpState) add(help Help) error {
	if s.Has(help.Kind()) {
		return fmt.Errorf("%w: %s", ErrHelpAlreadyUsed, help.Kind())
	}
	switch h := help.(type) {
	case FiftyFifty:
		s.FiftyFifty = &h
	case AudienceHelp:
		s.Audience = &h
	case FriendCall:
		s.FriendCall = &h
	default:
		return fmt.Errorf("%w: %T", ErrInvalidHelpKind, help)
	}
	return nil
}
