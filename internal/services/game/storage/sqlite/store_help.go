package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
)

// helpRecord is the persisted shape of a question's revealed lifelines.
type helpRecord struct {
	FiftyFifty []string          `json:"fifty_fifty,omitempty"`
	Audience   map[string]int    `json:"audience_help,omitempty"`
	FriendCall *friendCallRecord `json:"friend_call,omitempty"`
}

type friendCallRecord struct {
	Text string `json:"text"`
	Key  string `json:"key"`
}

func encodeHelp(state game.HelpState) (string, error) {
	var record helpRecord
	if state.FiftyFifty != nil {
		record.FiftyFifty = make([]string, 0, len(state.FiftyFifty.Keys))
		for _, key := range state.FiftyFifty.Keys {
			record.FiftyFifty = append(record.FiftyFifty, key.String())
		}
	}
	if state.Audience != nil {
		record.Audience = make(map[string]int, len(state.Audience.Votes))
		for key, vote := range state.Audience.Votes {
			record.Audience[key.String()] = vote
		}
	}
	if state.FriendCall != nil {
		record.FriendCall = &friendCallRecord{Text: state.FriendCall.Text, Key: state.FriendCall.Key.String()}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode help: %w", err)
	}
	return string(raw), nil
}

func decodeHelp(raw string) (game.HelpState, error) {
	var record helpRecord
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return game.HelpState{}, fmt.Errorf("decode help: %w", err)
		}
	}

	var state game.HelpState
	if len(record.FiftyFifty) > 0 {
		keys := make([]game.Key, 0, len(record.FiftyFifty))
		for _, value := range record.FiftyFifty {
			key, err := game.ParseKey(value)
			if err != nil {
				return game.HelpState{}, fmt.Errorf("decode fifty fifty: %w", err)
			}
			keys = append(keys, key)
		}
		state.FiftyFifty = &game.FiftyFifty{Keys: keys}
	}
	if len(record.Audience) > 0 {
		votes := make(map[game.Key]int, len(record.Audience))
		for value, vote := range record.Audience {
			key, err := game.ParseKey(value)
			if err != nil {
				return game.HelpState{}, fmt.Errorf("decode audience help: %w", err)
			}
			votes[key] = vote
		}
		state.Audience = &game.AudienceHelp{Votes: votes}
	}
	if record.FriendCall != nil {
		key, err := game.ParseKey(record.FriendCall.Key)
		if err != nil {
			return game.HelpState{}, fmt.Errorf("decode friend call: %w", err)
		}
		state.FriendCall = &game.FriendCall{Text: record.FriendCall.Text, Key: key}
	}
	return state, nil
}
