package http

import (
	"agenda-assistant/internal/command"
)

// --- Request DTOs ---

type processReq struct {
	Command   string `json:"command"   binding:"required,min=1,max=2000"`
	SessionID string `json:"sessionId" binding:"omitempty,max=128"`
	UserID    string `json:"userId"    binding:"omitempty,max=128"`
	Username  string `json:"username"  binding:"omitempty,max=128"`
}

func (r processReq) toInput() command.ProcessInput {
	return command.ProcessInput{
		RawCommand: r.Command,
	}
}

// --- Response DTOs ---

type actionResultResp struct {
	Success            bool                   `json:"success"`
	Action             string                 `json:"action"`
	Message            string                 `json:"message"`
	Source             string                 `json:"source"`
	EventID            string                 `json:"eventId,omitempty"`
	EventLink          string                 `json:"eventLink,omitempty"`
	Events             []command.EventSummary `json:"events,omitempty"`
	DeletedCount       int                    `json:"deletedCount,omitempty"`
	PotentialDuplicate bool                   `json:"potentialDuplicate,omitempty"`
	AuthExpired        bool                   `json:"authExpired,omitempty"`
}

type processResp struct {
	Results []actionResultResp `json:"results"`
}

func (h *handler) newProcessResp(out command.ProcessOutput) processResp {
	results := make([]actionResultResp, len(out.Results))
	for i, res := range out.Results {
		results[i] = actionResultResp{
			Success:            res.Success,
			Action:             string(res.Action),
			Message:            res.Message,
			Source:             res.Source,
			EventID:            res.EventID,
			EventLink:          res.EventLink,
			Events:             res.Events,
			DeletedCount:       res.DeletedCount,
			PotentialDuplicate: res.PotentialDuplicate,
			AuthExpired:        res.AuthExpired,
		}
	}
	return processResp{Results: results}
}
