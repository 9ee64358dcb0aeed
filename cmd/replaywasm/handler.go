package main

import (
	"encoding/json"
	"errors"

	"truco-lite/replay"
)

const (
	reasonInvalidRequest = "invalid_request"
	reasonInvalidJSON    = "invalid_json"
	reasonGeneration     = "replay_generation_failed"
	reasonMarshal        = "marshal_failed"
)

type initRequest struct {
	Spec *replay.GameSpec `json:"spec"`
}

type initResponse struct {
	OK    bool                   `json:"ok"`
	Tape  *replay.WireReplayTape `json:"tape,omitempty"`
	Error *replay.ReplayError    `json:"error,omitempty"`
}

func failure(reason, msg string) initResponse {
	return initResponse{Error: &replay.ReplayError{StepIndex: -1, Reason: reason, Message: msg}}
}

func handleInit(raw string) initResponse {
	var req initRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return failure(reasonInvalidJSON, err.Error())
	}
	if req.Spec == nil {
		return failure(reasonInvalidRequest, "spec is required")
	}

	tape, err := replay.GenerateReplayTape(*req.Spec)
	if err != nil {
		var replayErr *replay.ReplayError
		if errors.As(err, &replayErr) {
			return initResponse{Error: replayErr}
		}
		return failure(reasonGeneration, err.Error())
	}
	return initResponse{OK: true, Tape: replay.ToWireReplayTape(tape)}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(failure(reasonMarshal, err.Error()))
	}
	return string(b)
}
