package game

// Command represents a game action that can be performed
type Command interface {
	CommandName() string
}

// CreateGameCommand starts a new session
type CreateGameCommand struct {
	Rules Rules `json:"rules"`
}

func (c CreateGameCommand) CommandName() string { return "create-game" }

// SubmitMoveCommand plays one input token in a session
type SubmitMoveCommand struct {
	GameID string `json:"gameId"`
	Token  string `json:"token"`
}

func (c SubmitMoveCommand) CommandName() string { return "submit-move" }

// GetGameCommand asks for the current state of a session
type GetGameCommand struct {
	GameID string `json:"gameId"`
}

func (c GetGameCommand) CommandName() string { return "get-game" }
