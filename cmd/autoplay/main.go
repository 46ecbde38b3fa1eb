// Command autoplay plays 2048 inside a termfolio session over the REST API.
// It opens a session (or resumes the one saved in .session), launches the
// game from the shell and plays with a corner heuristic until it reaches the
// target or runs out of attempts.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/keuhdall/termfolio/game/service"
)

const sessionFile = ".session"

func main() {
	app := &cli.Command{
		Name:  "autoplay",
		Usage: "play 2048 in a termfolio session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "termfolio server URL"},
			&cli.StringFlag{Name: "continue", Usage: "Resume an existing session by ID"},
			&cli.IntFlag{Name: "max-moves", Value: 5000, Usage: "Maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 10, Usage: "Maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
			&cli.BoolFlag{Name: "exit", Usage: "Leave the game when done"},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	client := NewClient(cmd.String("url"))
	log.Printf("Connecting to termfolio at %s", cmd.String("url"))

	if err := openSession(client, cmd.String("continue")); err != nil {
		return err
	}
	if err := client.StartGame(ctx); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	p := player{
		client:   client,
		strategy: NewCornerStrategy(),
		maxMoves: int(cmd.Int("max-moves")),
		delay:    cmd.Duration("delay"),
		verbose:  cmd.Bool("v"),
	}

	won, err := p.play(ctx, int(cmd.Int("max-attempts")))
	if cmd.Bool("exit") {
		if exitErr := client.Exit(); exitErr != nil {
			log.Printf("Failed to leave game: %v", exitErr)
		}
	}
	if err != nil {
		return err
	}

	log.Printf("Session: %s", client.sessionID)
	if !won {
		return cli.Exit("target not reached", 1)
	}
	return nil
}

// openSession resumes the requested or saved session, creating a new one
// when neither exists
func openSession(client *Client, resume string) error {
	if resume == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = strings.TrimSpace(string(data))
		}
	}

	if resume != "" {
		client.sessionID = resume
		_, err := client.GetSession()
		if err == nil {
			log.Printf("Resuming session: %s", resume)
			return nil
		}
		log.Printf("Failed to resume session %s (may be expired): %v", resume, err)
	}

	if _, err := client.CreateSession(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	log.Printf("Session created: %s", client.sessionID)

	if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
		log.Printf("Warning: Failed to save session ID: %v", err)
	}
	return nil
}

type player struct {
	client   *Client
	strategy *CornerStrategy
	maxMoves int
	delay    time.Duration
	verbose  bool
}

// play runs attempts until one reaches the target
func (p *player) play(ctx context.Context, maxAttempts int) (bool, error) {
	result, err := p.client.GameState()
	if err != nil {
		return false, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 || result.State.Over || result.State.Won {
			if result, err = p.client.Restart(); err != nil {
				return false, err
			}
		}

		log.Printf("=== Attempt %d/%d ===", attempt, maxAttempts)
		if result, err = p.attempt(ctx, result); err != nil {
			return false, err
		}

		state := result.State
		log.Printf("Attempt %d: moves=%d score=%d max tile=%d status=%s",
			attempt, state.Moves, state.Score, state.Board.MaxTile(), state.Status)
		if state.Won {
			log.Printf("Reached %d in attempt %d", state.Target, attempt)
			fmt.Println(result.Board)
			return true, nil
		}
	}

	return false, nil
}

func (p *player) attempt(ctx context.Context, result *service.GameResult) (*service.GameResult, error) {
	for moves := 0; moves < p.maxMoves && !result.State.Won && !result.State.Over; moves++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := p.strategy.NextMove(result.State.Board)
		if dir == "" {
			break
		}

		next, err := p.client.Move(string(dir))
		if err != nil {
			return nil, err
		}
		result = next

		if p.verbose && result.State.Moves%100 == 0 {
			log.Printf("moves=%d score=%d max tile=%d", result.State.Moves, result.State.Score, result.State.Board.MaxTile())
		}
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
	}
	return result, nil
}
