// Package seed loads question files and imports them into the question bank,
// either straight into a game database or through a running game server.
package seed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/louisbranch/millionaire/internal/services/game/domain/game"
)

// Format names a question file layout.
type Format string

const (
	// FormatJSON is an array of question records, or an object with a
	// "questions" array.
	FormatJSON Format = "json"
	// FormatText is blocks of five lines (question, correct answer, three
	// wrong answers) separated by blank lines. All blocks share one level.
	FormatText Format = "txt"
)

// QuestionRecord is one question as written in a seed file. Answers[0] is
// the correct answer.
type QuestionRecord struct {
	ID      string   `json:"id,omitempty" validate:"omitempty,max=64"`
	Level   int      `json:"level" validate:"min=0,max=14"`
	Text    string   `json:"text" validate:"required,max=1000"`
	Answers []string `json:"answers" validate:"len=4,dive,required,max=255"`
}

// Question converts the record into a domain question.
func (r QuestionRecord) Question() (game.Question, error) {
	if len(r.Answers) != len(game.Keys) {
		return game.Question{}, fmt.Errorf("%w: need %d answers, got %d", game.ErrInvalidQuestion, len(game.Keys), len(r.Answers))
	}
	var answers [4]string
	copy(answers[:], r.Answers)
	return game.NewQuestion(r.ID, r.Level, r.Text, answers)
}

var (
	validate     = validator.New()
	levelPattern = regexp.MustCompile(`(\d+)`)
)

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported question file %q: want .json or .txt", path)
	}
}

// LevelFromFilename extracts the last number in a file name, as in
// "questions_7.txt".
func LevelFromFilename(path string) (int, bool) {
	matches := levelPattern.FindAllString(filepath.Base(path), -1)
	if len(matches) == 0 {
		return 0, false
	}
	level, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return level, true
}

// LoadQuestions parses and validates a question file. level applies to the
// text format only.
func LoadQuestions(r io.Reader, format Format, level int) ([]QuestionRecord, error) {
	var (
		records []QuestionRecord
		err     error
	)
	switch format {
	case FormatJSON:
		records, err = decodeJSON(r)
	case FormatText:
		records, err = decodeText(r, level)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("question file is empty")
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

// ValidateRecords checks every record and reports all failures at once.
func ValidateRecords(records []QuestionRecord) error {
	var problems []string
	for i, record := range records {
		err := validate.Struct(record)
		if err == nil {
			continue
		}
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return fmt.Errorf("validate question %d: %w", i+1, err)
		}
		for _, fieldErr := range fieldErrors {
			problems = append(problems, fmt.Sprintf("question %d: field %s failed %q", i+1, fieldErr.Namespace(), fieldErr.Tag()))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", game.ErrInvalidQuestion, strings.Join(problems, "; "))
	}
	return nil
}

func decodeJSON(r io.Reader) ([]QuestionRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var records []QuestionRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode question file: %w", err)
		}
		return records, nil
	}
	var wrapper struct {
		Questions []QuestionRecord `json:"questions"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decode question file: %w", err)
	}
	return wrapper.Questions, nil
}

func decodeText(r io.Reader, level int) ([]QuestionRecord, error) {
	var (
		records []QuestionRecord
		block   []string
		line    int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		if len(block) != 1+len(game.Keys) {
			return fmt.Errorf("%w: block ending at line %d has %d lines, want %d", game.ErrInvalidQuestion, line, len(block), 1+len(game.Keys))
		}
		records = append(records, QuestionRecord{
			Level:   level,
			Text:    block[0],
			Answers: append([]string(nil), block[1:]...),
		})
		block = block[:0]
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return records, nil
}
