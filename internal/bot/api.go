package bot

import (
	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/domain"
)

// Brain is the interface all bot strategies implement. A brain sees only
// the viewer-redacted projection, exactly like a human client, and returns
// the single action it wants to submit next.
type Brain interface {
	PlanAction(view *app.View) (domain.Action, error)
}

// Step drives one bot action through the same surface human clients use:
// project the view for the seat, ask the brain, apply the action. The
// returned events are whatever the action produced.
func Step(svc *app.Service, game *domain.Game, seat int, brain Brain) ([]app.Event, error) {
	view := svc.PlayerView(game, seat)
	action, err := brain.PlanAction(view)
	if err != nil {
		return nil, err
	}
	return svc.Act(game, action)
}
