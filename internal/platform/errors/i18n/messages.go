package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeInvalidAnswerKey      = "INVALID_ANSWER_KEY"
	CodeInvalidHelpKind       = "INVALID_HELP_KIND"
	CodeInvalidQuestion       = "INVALID_QUESTION"
	CodeInvalidFilter         = "INVALID_FILTER"
	CodeInvalidPageToken      = "INVALID_PAGE_TOKEN"
	CodeUserIDRequired        = "USER_ID_REQUIRED"
	CodeGameFinished          = "GAME_FINISHED"
	CodeHelpAlreadyUsed       = "HELP_ALREADY_USED"
	CodeQuestionBankExhausted = "QUESTION_BANK_EXHAUSTED"
	CodeActiveGameExists      = "ACTIVE_GAME_EXISTS"
	CodeAdminRequired         = "ADMIN_REQUIRED"
	CodeNotFound              = "NOT_FOUND"
	CodePlayerTokenInvalid    = "PLAYER_TOKEN_INVALID"
	CodePlayerTokenExpired    = "PLAYER_TOKEN_EXPIRED"
)

var enUS = map[Code]string{
	CodeInvalidAnswerKey:      "Answer must be one of A, B, C or D.",
	CodeInvalidHelpKind:       "Unknown lifeline {{.Kind}}.",
	CodeInvalidQuestion:       "Question is invalid: {{.Reason}}.",
	CodeInvalidFilter:         "Filter could not be parsed.",
	CodeInvalidPageToken:      "Page token is invalid or belongs to another query.",
	CodeUserIDRequired:        "A player identity is required.",
	CodeGameFinished:          "This game is already over.",
	CodeHelpAlreadyUsed:       "The {{.Kind}} lifeline was already used in this game.",
	CodeQuestionBankExhausted: "There are no questions for level {{.Level}} yet.",
	CodeActiveGameExists:      "Finish your current game before starting a new one.",
	CodeAdminRequired:         "Only administrators can manage questions.",
	CodeNotFound:              "Not found.",
	CodePlayerTokenInvalid:    "Player token is invalid.",
	CodePlayerTokenExpired:    "Player token has expired.",
}

var ruRU = map[Code]string{
	CodeInvalidAnswerKey:      "Ответ должен быть A, B, C или D.",
	CodeInvalidHelpKind:       "Неизвестная подсказка {{.Kind}}.",
	CodeInvalidQuestion:       "Некорректный вопрос: {{.Reason}}.",
	CodeInvalidFilter:         "Не удалось разобрать фильтр.",
	CodeInvalidPageToken:      "Неверный токен страницы.",
	CodeUserIDRequired:        "Требуется идентификатор игрока.",
	CodeGameFinished:          "Игра уже закончена.",
	CodeHelpAlreadyUsed:       "Подсказка {{.Kind}} уже использована в этой игре.",
	CodeQuestionBankExhausted: "Для уровня {{.Level}} пока нет вопросов.",
	CodeActiveGameExists:      "Сначала закончите текущую игру.",
	CodeAdminRequired:         "Управлять вопросами могут только администраторы.",
	CodeNotFound:              "Не найдено.",
	CodePlayerTokenInvalid:    "Неверный токен игрока.",
	CodePlayerTokenExpired:    "Срок действия токена игрока истёк.",
}
