package domain

// ActionResult - единый ответ на команду процессора ходов.
// Ожидаемые отказы (нет AP, цель вне досягаемости) не являются ошибками Go:
// они приходят как Success=false и стабильная строка Error.
type ActionResult struct {
	Success bool          `json:"success"`
	Events  []BattleEvent `json:"events,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Rejected - отказ с сообщением.
func Rejected(msg string) ActionResult {
	return ActionResult{Success: false, Error: msg}
}

// Accepted - успех с добавленными в ленту событиями.
func Accepted(events []BattleEvent) ActionResult {
	return ActionResult{Success: true, Events: events}
}
