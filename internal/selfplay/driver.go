package selfplay

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"tichu/internal/domain"
	"tichu/internal/log"
)

// Agent is a seat's decision maker. DecideAction is called when the seat is
// on turn; ConsiderBomb is offered after every other play while the seat
// still holds cards.
type Agent interface {
	DecideAction(ctx context.Context, g *domain.GameState, seat int) domain.Action
	ConsiderBomb(ctx context.Context, g *domain.GameState, seat int) (domain.Action, bool)
}

// Result summarizes one finished match.
type Result struct {
	MatchID string
	Rounds  int
	Scores  [2]int
	Winner  int // -1 when the round cap was hit without a winner
}

// Driver runs full matches between four agents, dealing rounds and
// serializing every action through the rules engine. Out-of-turn bombs are
// offered one seat at a time in clockwise order from the last actor, so
// simultaneous interjections never occur.
type Driver struct {
	Agents      [4]Agent
	TargetScore int
	MaxRounds   int

	rng *rand.Rand
}

// maxActionsPerRound caps the turn loop; a legal round ends far earlier, so
// hitting the cap means the engine and an agent disagree about legality.
const maxActionsPerRound = 1000

func New(agents [4]Agent, targetScore, maxRounds int, seed int64) *Driver {
	return &Driver{
		Agents:      agents,
		TargetScore: targetScore,
		MaxRounds:   maxRounds,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Run plays one match to the target score or the round cap.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	matchID := uuid.NewString()
	g := domain.NewGame(d.TargetScore)

	rounds := 0
	for !g.Over() && rounds < d.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.StartRound(domain.Deal(d.rng))
		if err := d.playRound(ctx, g); err != nil {
			return nil, fmt.Errorf("match %s round %d: %w", matchID, rounds+1, err)
		}
		rounds++
		log.Debug("round finished",
			"match", matchID,
			"round", rounds,
			"points", g.Round.Points,
			"scores", g.Scores,
		)
	}

	winner := -1
	switch {
	case g.Scores[0] >= d.TargetScore && g.Scores[0] > g.Scores[1]:
		winner = 0
	case g.Scores[1] >= d.TargetScore && g.Scores[1] > g.Scores[0]:
		winner = 1
	}
	log.Info("match finished", "match", matchID, "rounds", rounds, "scores", g.Scores, "winner", winner)

	return &Result{MatchID: matchID, Rounds: rounds, Scores: g.Scores, Winner: winner}, nil
}

func (d *Driver) playRound(ctx context.Context, g *domain.GameState) error {
	for i := 0; i < maxActionsPerRound; i++ {
		if g.Round.Phase == domain.PhaseRoundOver {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		seat := g.Round.Trick.NextSeat
		action := d.Agents[seat].DecideAction(ctx, g, seat)
		if err := g.Apply(action); err != nil {
			return err
		}
		if g.Round.Phase == domain.PhaseRoundOver {
			return nil
		}
		// An offer window follows every action, passes included; a closed
		// trick makes the offers no-ops.
		if err := d.offerBombs(ctx, g, seat); err != nil {
			return err
		}
	}
	return fmt.Errorf("round did not finish within %d actions", maxActionsPerRound)
}

// offerBombs cycles the other seats after an action; each accepted bomb restarts
// the offer round from the bomber. Bombs strictly outrank one another, so
// the cycle terminates.
func (d *Driver) offerBombs(ctx context.Context, g *domain.GameState, actor int) error {
	for {
		bombed := false
		for i := 1; i < 4; i++ {
			seat := (actor + i) % 4
			if seat == g.Round.Trick.NextSeat || g.Round.Retired(seat) {
				continue
			}
			bomb, ok := d.Agents[seat].ConsiderBomb(ctx, g, seat)
			if !ok {
				continue
			}
			if err := g.Apply(bomb); err != nil {
				return err
			}
			log.Debug("bomb interjected", "seat", seat, "combo", bomb.Key())
			actor = seat
			bombed = true
			break
		}
		if !bombed || g.Round.Phase == domain.PhaseRoundOver {
			return nil
		}
	}
}
