// Package engine provides the core game logic for the 2048 tile-merging game.
//
// The engine package implements the game mechanics including:
//   - A fixed 4x4 board of power-of-two tiles
//   - One parametrised slide/merge transform shared by all four directions
//   - Random tile spawning (2 with 90% probability, 4 otherwise)
//   - Win (target tile reached) and game-over (no legal move) detection
//   - Key mapping for letter and arrow conventions
//   - Display helpers for tiles, colours and banners
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while Config carries the tunable rules (target tile, spawn odds).
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Slide every tile left
//	moved := gameEngine.Move(engine.Left)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Every move slides the tiles of each row (left/right) or column (up/down)
// toward one edge. Two equal neighbours merge into one tile of double value
// and the merged value is added to the score; a tile produced by a merge is
// not merged again in the same move. A move that changes the board spawns
// one new tile. Reaching the target tile flags a win but play continues; the
// game is over once the board is full and no two adjacent tiles are equal.
package engine
