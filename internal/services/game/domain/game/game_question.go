package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// correctSlot is the answer slot that holds the correct text.
const correctSlot = 1

// friendCallAccuracy is the percent chance the friend names the correct key.
const friendCallAccuracy = 80

var friendNames = []string{
	"Alex", "Sam", "Maria", "Ivan", "Olga", "Dmitry", "Kate", "Sergey",
}

// GameQuestion is one level's randomized instance of a Question.
type GameQuestion struct {
	Question Question
	// Slots maps Keys[i] to the answer slot (1..4) shown under that key.
	Slots   [4]int
	Reveals HelpState
}

// NewGameQuestion binds q with a uniformly random answer permutation.
func NewGameQuestion(q Question, rng *rand.Rand) GameQuestion {
	gq := GameQuestion{Question: q}
	for i, p := range rng.Perm(len(Keys)) {
		gq.Slots[i] = p + 1
	}
	return gq
}

// RestoreGameQuestion rebuilds a persisted GameQuestion.
func RestoreGameQuestion(q Question, slots [4]int, reveals HelpState) (GameQuestion, error) {
	var seen [5]bool
	for i, slot := range slots {
		if slot < 1 || slot > 4 || seen[slot] {
			return GameQuestion{}, fmt.Errorf("key %s: slot %d is not part of a permutation", Keys[i], slot)
		}
		seen[slot] = true
	}
	return GameQuestion{Question: q, Slots: slots, Reveals: reveals}, nil
}

// Text returns the question text.
func (gq GameQuestion) Text() string {
	return gq.Question.Text
}

// Level returns the question level.
func (gq GameQuestion) Level() int {
	return gq.Question.Level
}

// Variants returns the answer text under each display key.
func (gq GameQuestion) Variants() map[Key]string {
	out := make(map[Key]string, len(Keys))
	for i, key := range Keys {
		out[key] = gq.Question.Answers[gq.Slots[i]-1]
	}
	return out
}

// CorrectAnswerKey returns the key whose slot holds the correct text.
func (gq GameQuestion) CorrectAnswerKey() Key {
	for i, slot := range gq.Slots {
		if slot == correctSlot {
			return Keys[i]
		}
	}
	return ""
}

// AnswerIsCorrect reports whether value names the correct key.
func (gq GameQuestion) AnswerIsCorrect(value string) (bool, error) {
	key, err := ParseKey(value)
	if err != nil {
		return false, err
	}
	return key == gq.CorrectAnswerKey(), nil
}

// HelpState returns the lifelines revealed for this question.
func (gq GameQuestion) HelpState() HelpState {
	return gq.Reveals
}

// AddAudienceHelp reveals an audience vote over all four keys.
//
// Percentages always sum to 100. The correct key gets a weight bonus large
// enough that it always wins the plurality.
func (gq *GameQuestion) AddAudienceHelp(rng *rand.Rand) (AudienceHelp, error) {
	correct := gq.CorrectAnswerKey()
	var weights [4]int
	total := 0
	for i, key := range Keys {
		weights[i] = rng.Intn(30) + 5
		if key == correct {
			weights[i] += 45
		}
		total += weights[i]
	}

	votes := make(map[Key]int, len(Keys))
	type remainder struct {
		index int
		value int
	}
	remainders := make([]remainder, 0, len(Keys))
	assigned := 0
	for i, key := range Keys {
		share := weights[i] * 100 / total
		votes[key] = share
		assigned += share
		remainders = append(remainders, remainder{index: i, value: weights[i] * 100 % total})
	}
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].value > remainders[j].value
	})
	for i := 0; assigned < 100; i++ {
		votes[Keys[remainders[i%len(remainders)].index]]++
		assigned++
	}

	help := AudienceHelp{Votes: votes}
	if err := gq.Reveals.add(help); err != nil {
		return AudienceHelp{}, err
	}
	return help, nil
}

// AddFiftyFifty keeps the correct key and one random incorrect key.
func (gq *GameQuestion) AddFiftyFifty(rng *rand.Rand) (FiftyFifty, error) {
	correct := gq.CorrectAnswerKey()
	wrong := gq.incorrectKeys()
	keys := []Key{correct, wrong[rng.Intn(len(wrong))]}
	sort.Slice(keys, func(i, j int) bool {
		return keyIndex(keys[i]) < keyIndex(keys[j])
	})

	help := FiftyFifty{Keys: keys}
	if err := gq.Reveals.add(help); err != nil {
		return FiftyFifty{}, err
	}
	return help, nil
}

// AddFriendCall asks a friend, who is right friendCallAccuracy percent of the time.
func (gq *GameQuestion) AddFriendCall(rng *rand.Rand) (FriendCall, error) {
	key := gq.CorrectAnswerKey()
	if rng.Intn(100) >= friendCallAccuracy {
		wrong := gq.incorrectKeys()
		key = wrong[rng.Intn(len(wrong))]
	}
	name := friendNames[rng.Intn(len(friendNames))]

	help := FriendCall{
		Text: fmt.Sprintf("%s thinks the answer is %s", name, strings.ToUpper(string(key))),
		Key:  key,
	}
	if err := gq.Reveals.add(help); err != nil {
		return FriendCall{}, err
	}
	return help, nil
}

func (gq GameQuestion) incorrectKeys() []Key {
	correct := gq.CorrectAnswerKey()
	out := make([]Key, 0, len(Keys)-1)
	for _, key := range Keys {
		if key != correct {
			out = append(out, key)
		}
	}
	return out
}
