package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playperu/minigames/internal/minigame"
)

type sseEvent struct {
	name string
	data Event
}

func readSSE(t *testing.T, sc *bufio.Scanner) sseEvent {
	t.Helper()
	var ev sseEvent
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev.data); err != nil {
				t.Fatalf("decoding event data: %v", err)
			}
		case line == "" && ev.name != "":
			return ev
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return ev
}

func TestEventsStream(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	play := e.start(t, StartPlayRequest{GameID: "demo-sequence"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet,
		srv.URL+"/api/plays/"+play.PlayID+"/events?token="+play.Token, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	first := readSSE(t, sc)
	if first.name != EventView || first.data.View == nil || first.data.View.State != minigame.StateIdle {
		t.Fatalf("unexpected first event: %+v", first)
	}

	body, _ := json.Marshal(minigame.Action{Kind: minigame.ActionPlace, ItemID: "wet"})
	actReq, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/plays/"+play.PlayID+"/actions", bytes.NewReader(body))
	actReq.Header.Set("Authorization", "Bearer "+play.Token)
	actResp, err := http.DefaultClient.Do(actReq)
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	actResp.Body.Close()
	if actResp.StatusCode != http.StatusOK {
		t.Fatalf("action: expected 200, got %d", actResp.StatusCode)
	}

	next := readSSE(t, sc)
	if next.name != EventView || next.data.View.State != minigame.StateInteracting {
		t.Fatalf("unexpected event after action: %+v", next)
	}

	if err := e.plays.Unmount(play.PlayID); err != nil {
		t.Fatalf("unmount: %v", err)
	}
	last := readSSE(t, sc)
	if last.name != EventView || !last.data.View.ReadOnly {
		t.Fatalf("unexpected event after unmount: %+v", last)
	}
	if sc.Scan() {
		t.Errorf("expected stream to end, got %q", sc.Text())
	}
}

func TestEventsRequireTicket(t *testing.T) {
	e := newTestEnv(t)
	play := e.start(t, StartPlayRequest{GameID: "demo-sequence"})

	w := e.do(t, http.MethodGet, "/api/plays/"+play.PlayID+"/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
