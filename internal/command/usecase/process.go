package usecase

import (
	"context"
	"strings"
	"time"

	"agenda-assistant/internal/command"
	"agenda-assistant/internal/interpreter"
	"agenda-assistant/internal/model"
	"agenda-assistant/pkg/llmprovider"
)

// LLM sampling settings for interpretation: near-deterministic output, short
// answers.
const (
	llmTemperature = 0.1
	llmMaxTokens   = 500
	llmTopP        = 0.8
)

// Process runs the full pipeline on a raw command. Compound commands are
// split and every sub-command runs the whole pipeline independently.
func (uc *implUseCase) Process(ctx context.Context, sc model.Scope, input command.ProcessInput) (command.ProcessOutput, error) {
	raw := strings.TrimSpace(input.RawCommand)
	if raw == "" {
		return command.ProcessOutput{}, command.ErrEmptyCommand
	}

	uc.l.Infof(ctx, "process: request=%s session=%s len=%d", sc.RequestID, sc.SessionID, len(raw))

	_, md := interpreter.Preprocess(raw)
	if md.HasMultipleActions && len(md.SubCommands) > 1 {
		uc.l.Infof(ctx, "process: compound command, %d parts", len(md.SubCommands))
		out := command.ProcessOutput{}
		for _, sub := range md.SubCommands {
			out.Results = append(out.Results, uc.processSingle(ctx, sc, sub))
		}
		return out, nil
	}

	return command.ProcessOutput{
		Results: []command.ActionResult{uc.processSingle(ctx, sc, raw)},
	}, nil
}

func (uc *implUseCase) processSingle(ctx context.Context, sc model.Scope, raw string) command.ActionResult {
	_, md := interpreter.Preprocess(raw)

	if md.DirectResponse != nil {
		uc.l.Infof(ctx, "process: special command %s, skipping interpretation", md.SpecialCommandType)
		return uc.execute(ctx, sc, *md.DirectResponse, command.SourceDirect)
	}

	action, source := uc.interpret(ctx, raw, md)
	return uc.execute(ctx, sc, action, source)
}

// interpret asks the LLM for a canonical action and falls back to the local
// parser when the call fails, times out, or the answer cannot be normalized.
// It never fails: the fallback classifies everything, if only as a listing.
func (uc *implUseCase) interpret(ctx context.Context, raw string, md interpreter.Metadata) (interpreter.CanonicalAction, string) {
	enriched := interpreter.Enrich(raw, md)

	resp, err := uc.llm.Complete(ctx, &llmprovider.Request{
		SystemPrompt: interpreter.BuildPrompt(uc.now().Format(time.RFC3339)),
		UserText:     enriched,
		Temperature:  llmTemperature,
		MaxTokens:    llmMaxTokens,
		TopP:         llmTopP,
	})
	if err != nil {
		uc.l.Warnf(ctx, "interpret: llm unavailable, using local parser: %v", err)
		return interpreter.ParseLocally(raw), command.SourceLocal
	}

	action, err := interpreter.Normalize(resp.Text, raw)
	if err != nil {
		uc.l.Warnf(ctx, "interpret: unusable %s response, using local parser: %v", resp.ProviderName, err)
		return interpreter.ParseLocally(raw), command.SourceLocal
	}

	uc.l.Debugf(ctx, "interpret: %s via %s/%s", action.Action, resp.ProviderName, resp.ModelName)
	return action, command.SourceModel
}

// execute dispatches a canonical action to its executor and folds any error
// into a failed result with a user-facing Italian message.
func (uc *implUseCase) execute(ctx context.Context, sc model.Scope, action interpreter.CanonicalAction, source string) command.ActionResult {
	var res command.ActionResult
	var err error

	switch action.Action {
	case interpreter.ActionCreateEvent:
		res, err = uc.createEvent(ctx, sc, action.Parameters)
	case interpreter.ActionUpdateEvent:
		res, err = uc.updateEvent(ctx, sc, action.Parameters)
	case interpreter.ActionDeleteEvent:
		res, err = uc.deleteEvents(ctx, sc, action.Parameters)
	default:
		res, err = uc.viewEvents(ctx, action.Parameters)
	}

	res.Action = action.Action
	res.Source = source

	if err != nil {
		uc.l.Errorf(ctx, "execute: %s failed: %v", action.Action, err)
		return failedResult(res, err)
	}
	return res
}
