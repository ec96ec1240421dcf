package bot

import (
	"github.com/eliejerjees/card51/internal/app"
	"github.com/eliejerjees/card51/internal/domain"
)

// Agent is an autonomous player occupying a seat.
type Agent struct {
	ID       string
	Name     string
	Seat     int
	Strategy Brain
}

// NewAgent builds an agent for a seat using the identity pool and the
// default strategy level.
func NewAgent(seat int) (*Agent, error) {
	brain, err := NewBrain(LevelGreedy)
	if err != nil {
		return nil, err
	}
	identity := IdentityFor(seat)
	return &Agent{ID: identity.ID, Name: identity.Name, Seat: seat, Strategy: brain}, nil
}

// Act performs the agent's next action against the game.
func (a *Agent) Act(svc *app.Service, game *domain.Game) ([]app.Event, error) {
	return Step(svc, game, a.Seat, a.Strategy)
}
