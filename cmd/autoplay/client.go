package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keuhdall/termfolio/game/service"
	"github.com/keuhdall/termfolio/game/shell"
)

// Client drives one terminal session through the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client

	pollInterval time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		pollInterval: 100 * time.Millisecond,
	}
}

func (c *Client) do(method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(data, &errResp) == nil && errResp["error"] != "" {
			return fmt.Errorf("%s %s: %s", method, path, errResp["error"])
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

func (c *Client) CreateSession() (*service.Snapshot, error) {
	var snap service.Snapshot
	if err := c.do("POST", "/api/sessions", nil, &snap); err != nil {
		return nil, err
	}
	c.sessionID = snap.SessionID
	return &snap, nil
}

func (c *Client) GetSession() (*service.Snapshot, error) {
	var snap service.Snapshot
	if err := c.do("GET", c.sessionPath(""), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// StartGame runs the 2048 command and waits for the game to open. A game
// that is already running is reused.
func (c *Client) StartGame(ctx context.Context) error {
	snap, err := c.GetSession()
	if err != nil {
		return err
	}
	if snap.GameActive {
		return nil
	}

	if err := c.do("POST", c.sessionPath("/execute"), map[string]string{"line": shell.Cmd2048.String()}, &snap); err != nil {
		return err
	}
	for !snap.GameActive {
		if !snap.Busy {
			return fmt.Errorf("game did not start")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
		if snap, err = c.GetSession(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) GameState() (*service.GameResult, error) {
	var result service.GameResult
	if err := c.do("GET", c.sessionPath("/game"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Move(direction string) (*service.GameResult, error) {
	var result service.GameResult
	if err := c.do("POST", c.sessionPath("/game/move"), map[string]string{"direction": direction}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Restart() (*service.GameResult, error) {
	var result service.GameResult
	if err := c.do("POST", c.sessionPath("/game/restart"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Exit() error {
	return c.do("POST", c.sessionPath("/game/exit"), nil, nil)
}
