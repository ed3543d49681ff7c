package net

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Send posts one short-form command, such as "draw_red" or "undo", to the
// remote control listening at addr (host:port or a full URL).
func Send(ctx context.Context, addr, line string) (Reply, error) {
	base := addr
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	body, err := json.Marshal(Request{Line: line})
	if err != nil {
		return Reply{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(base, "/")+"/api/commands", bytes.NewReader(body))
	if err != nil {
		return Reply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("send %q: %w", line, err)
	}
	defer resp.Body.Close()

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("decode reply (%s): %w", resp.Status, err)
	}
	if !reply.OK {
		return reply, fmt.Errorf("rejected: %s", reply.Error)
	}
	return reply, nil
}
