package handlers

import (
	"fmt"

	"exodus-server/internal/domain"
	"exodus-server/pkg/api"
	"exodus-server/pkg/utils"
)

// Registry собирает все команды наблюдателя.
func Registry() map[domain.CommandType]HandlerFunc {
	return map[domain.CommandType]HandlerFunc{
		domain.CommandSnapshot: WithPayload(HandleSnapshot),
		domain.CommandRestart:  WithPayload(HandleRestart),
		domain.CommandPause:    WithEmptyPayload(HandlePause),
		domain.CommandResume:   WithEmptyPayload(HandleResume),
	}
}

// HandleSnapshot отвечает отправителю полным снимком.
func HandleSnapshot(ctx Context, p api.SnapshotPayload) (Result, error) {
	snap := ctx.Session.Snapshot(p.IncludeLayers)
	return Result{Reply: &snap}, nil
}

// HandleRestart начинает новый забег: сид из payload, из имени забега или случайный.
func HandleRestart(ctx Context, p api.RestartPayload) (Result, error) {
	seed := p.Seed
	switch {
	case seed != 0:
	case p.Name != "":
		seed = utils.StringToSeed(p.Name)
	default:
		seed = ctx.Session.RandomSeed()
	}

	ctx.Session.Restart(seed)
	return Result{
		Msg:     fmt.Sprintf("Run restarted by %s (seed %d)", ctx.ObserverID, seed),
		MsgType: "INFO",
	}, nil
}

func HandlePause(ctx Context) (Result, error) {
	if !ctx.Session.SetPaused(true) {
		return EmptyResult(), nil
	}
	return Result{Msg: fmt.Sprintf("Paused by %s", ctx.ObserverID), MsgType: "INFO"}, nil
}

func HandleResume(ctx Context) (Result, error) {
	if !ctx.Session.SetPaused(false) {
		return EmptyResult(), nil
	}
	return Result{Msg: fmt.Sprintf("Resumed by %s", ctx.ObserverID), MsgType: "INFO"}, nil
}
