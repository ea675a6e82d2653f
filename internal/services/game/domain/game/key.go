package game

import (
	"fmt"
	"strings"
)

// Key is a display letter shown next to an answer.
type Key string

const (
	KeyA Key = "a"
	KeyB Key = "b"
	KeyC Key = "c"
	KeyD Key = "d"
)

// Keys lists the display keys in presentation order.
var Keys = [4]Key{KeyA, KeyB, KeyC, KeyD}

// ParseKey normalizes a submitted letter into a Key.
func ParseKey(value string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(value)))
	if keyIndex(key) < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAnswerKey, value)
	}
	return key, nil
}

func keyIndex(key Key) int {
	for i, k := range Keys {
		if k == key {
			return i
		}
	}
	return -1
}

func (k Key) String() string {
	return string(k)
}
