package sandbox

import (
	"freightflow/internal/application/dto"
	portsout "freightflow/internal/application/ports/out"
	"freightflow/internal/domain/entities"
)

type WebhookPlanner struct {
	runtime *Runtime
	mode    DuplicateMode
}

var _ portsout.WebhookChaosPlanner = (*WebhookPlanner)(nil)

func NewWebhookPlanner(runtime *Runtime, mode DuplicateMode) *WebhookPlanner {
	return &WebhookPlanner{runtime: runtime, mode: ParseDuplicateMode(string(mode))}
}

func (p *WebhookPlanner) DuplicateMode() string {
	return string(p.mode)
}

func (p *WebhookPlanner) Plan(events []entities.WebhookEvent) []dto.PlannedWebhookEvent {
	plan := BuildEventPlan(events, p.runtime.PlanOptions(p.mode))

	planned := make([]dto.PlannedWebhookEvent, 0, len(plan))
	for _, item := range plan {
		planned = append(planned, dto.PlannedWebhookEvent{
			Event:                   item.Event,
			Drop:                    item.Drop,
			Duplicate:               item.Duplicate,
			DuplicateWithNewEventID: item.DuplicateWithNewEventID,
			Profile:                 item.Profile,
		})
	}
	return planned
}
