package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lazharichir/carta/game"
	"github.com/lazharichir/carta/server/connection"
	serverevents "github.com/lazharichir/carta/server/events"
)

var ErrUnknownCommand = errors.New("unknown command type")

// Reply names sent back to the issuing client
const (
	ReplySnapshot = "snapshot"
	ReplyError    = "error"
)

// ErrorReply is the payload of an error reply
type ErrorReply struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	games   *game.Manager
	connMgr *connection.Manager
}

// NewCommandRouter creates a new command router
func NewCommandRouter(games *game.Manager, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		games:   games,
		connMgr: connMgr,
	}
}

// HandleCommand processes an incoming command message. Command failures are
// reported to the client as an error reply and also returned.
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		r.replyError(client, "", err)
		return err
	}

	err := r.route(client, baseCmd.Name, message)
	if err != nil {
		r.replyError(client, baseCmd.Name, err)
	}
	return err
}

func (r *CommandRouter) route(client *connection.Client, name string, message []byte) error {
	switch name {
	case game.CreateGameCommand{}.CommandName():
		var cmd game.CreateGameCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleCreateGame(client, cmd)

	case game.SubmitMoveCommand{}.CommandName():
		var cmd game.SubmitMoveCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleSubmitMove(client, cmd)

	case game.GetGameCommand{}.CommandName():
		var cmd game.GetGameCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleGetGame(client, cmd)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

func (r *CommandRouter) handleCreateGame(client *connection.Client, cmd game.CreateGameCommand) error {
	session, err := r.games.Create(cmd.Rules)
	if err != nil {
		return err
	}
	r.connMgr.Follow(client.ID, session.ID)
	return r.replySnapshot(client, session)
}

func (r *CommandRouter) handleSubmitMove(client *connection.Client, cmd game.SubmitMoveCommand) error {
	session, err := r.games.Get(cmd.GameID)
	if err != nil {
		return err
	}
	r.connMgr.Follow(client.ID, session.ID)

	if _, err := session.Submit(cmd.Token); err != nil {
		return err
	}
	return r.replySnapshot(client, session)
}

func (r *CommandRouter) handleGetGame(client *connection.Client, cmd game.GetGameCommand) error {
	session, err := r.games.Get(cmd.GameID)
	if err != nil {
		return err
	}
	r.connMgr.Follow(client.ID, session.ID)
	return r.replySnapshot(client, session)
}

func (r *CommandRouter) replySnapshot(client *connection.Client, session *game.Session) error {
	data, err := serverevents.Envelope(ReplySnapshot, session.Snapshot())
	if err != nil {
		return err
	}
	r.connMgr.SendToClient(client.ID, data)
	return nil
}

func (r *CommandRouter) replyError(client *connection.Client, command string, cause error) {
	data, err := serverevents.Envelope(ReplyError, ErrorReply{Command: command, Message: cause.Error()})
	if err != nil {
		return
	}
	r.connMgr.SendToClient(client.ID, data)
}
