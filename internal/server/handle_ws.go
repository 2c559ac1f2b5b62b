package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/minigames/internal/minigame"
)

// handlePlaySocket is the bidirectional play channel: actions are read from
// the client and every play event is written back.
func handlePlaySocket(logger *slog.Logger, plays *Plays, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playID := chi.URLParam(r, "playID")

		view, err := plays.View(playID)
		if err != nil {
			writePlayError(w, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
		defer cancel()

		ch := broker.Subscribe(playID)
		defer broker.Unsubscribe(playID, ch)

		if err := wsjson.Write(ctx, conn, Event{Type: EventView, PlayID: playID, View: &view}); err != nil {
			return
		}

		go func() {
			defer cancel()
			for {
				var action minigame.Action
				if err := wsjson.Read(ctx, conn, &action); err != nil {
					logger.Debug("websocket read ended", "play_id", playID, "error", err)
					return
				}
				if _, err := plays.Dispatch(playID, action); err != nil {
					msg := Event{Type: EventError, PlayID: playID, Error: err.Error()}
					if err := wsjson.Write(ctx, conn, msg); err != nil {
						return
					}
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "play unmounted")
					return
				}
				if err := wsjson.Write(ctx, conn, ev); err != nil {
					logger.Debug("websocket write failed", "play_id", playID, "error", err)
					return
				}
			}
		}
	}
}
