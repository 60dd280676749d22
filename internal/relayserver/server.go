package relayserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	domaintypes "sealpost/internal/domain/types"
)

// subscriberBuffer bounds the per-subscriber queue. A subscriber that falls
// this far behind loses envelopes and must re-fetch.
const subscriberBuffer = 16

type subscriber struct {
	ch chan domaintypes.EncryptedPayload
}

// Server holds the relay's in-memory state.
type Server struct {
	mu          sync.RWMutex
	records     map[domaintypes.UserID]domaintypes.PublicKeyRecord
	chats       map[domaintypes.ChatID][]domaintypes.EncryptedPayload
	subscribers map[domaintypes.ChatID]map[*subscriber]struct{}

	validate *validator.Validate
	upgrader websocket.Upgrader
}

// New returns an empty relay server.
func New() *Server {
	return &Server{
		records:     make(map[domaintypes.UserID]domaintypes.PublicKeyRecord),
		chats:       make(map[domaintypes.ChatID][]domaintypes.EncryptedPayload),
		subscribers: make(map[domaintypes.ChatID]map[*subscriber]struct{}),
		validate:    validator.New(),
	}
}

// Echo builds the HTTP API around the server state.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.PUT("/directory/:user", s.putRecord)
	e.GET("/directory/:user", s.getRecord)
	e.POST("/chats/:chat/envelopes", s.appendEnvelope)
	e.GET("/chats/:chat/envelopes", s.listEnvelopes)
	e.GET("/ws/chats/:chat", s.subscribeChat)
	return e
}

func (s *Server) putRecord(c echo.Context) error {
	user := domaintypes.UserID(c.Param("user"))

	var record domaintypes.PublicKeyRecord
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if record.OwnerID != user {
		return echo.NewHTTPError(http.StatusBadRequest, "owner_id does not match path")
	}
	if record.UpdatedUTC == 0 {
		record.UpdatedUTC = time.Now().Unix()
	}

	s.mu.Lock()
	s.records[user] = record
	s.mu.Unlock()

	slog.Info("directory record published", "user", user)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getRecord(c echo.Context) error {
	user := domaintypes.UserID(c.Param("user"))

	s.mu.RLock()
	record, ok := s.records[user]
	s.mu.RUnlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no key record for user")
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) appendEnvelope(c echo.Context) error {
	chat := domaintypes.ChatID(c.Param("chat"))

	var payload domaintypes.EncryptedPayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	payload.ChatID = chat
	if err := s.validate.Struct(payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The store, not the sender, assigns identity and sequence metadata.
	payload.ID = domaintypes.EnvelopeID(ksuid.New().String())
	payload.Timestamp = time.Now().Unix()

	s.mu.Lock()
	s.chats[chat] = append(s.chats[chat], payload)
	s.mu.Unlock()

	s.broadcast(chat, payload)

	slog.Info("envelope appended",
		"chat", chat, "envelope", payload.ID,
		"sender", payload.SenderID, "recipient", payload.RecipientID)
	return c.JSON(http.StatusCreated, map[string]string{"id": payload.ID.String()})
}

func (s *Server) listEnvelopes(c echo.Context) error {
	chat := domaintypes.ChatID(c.Param("chat"))
	after := domaintypes.EnvelopeID(c.QueryParam("after"))
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "bad limit")
		}
		limit = n
	}

	s.mu.RLock()
	all := s.chats[chat]
	start := 0
	if after != "" {
		for i, env := range all {
			if env.ID == after {
				start = i + 1
				break
			}
		}
	}
	out := make([]domaintypes.EncryptedPayload, 0, len(all)-start)
	out = append(out, all[start:]...)
	s.mu.RUnlock()

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) subscribeChat(c echo.Context) error {
	chat := domaintypes.ChatID(c.Param("chat"))

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	sub := s.addSubscriber(chat)
	defer s.removeSubscriber(chat, sub)

	// Reads only serve to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload := <-sub.ch:
			if err := ws.WriteJSON(payload); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}

func (s *Server) addSubscriber(chat domaintypes.ChatID) *subscriber {
	sub := &subscriber{ch: make(chan domaintypes.EncryptedPayload, subscriberBuffer)}
	s.mu.Lock()
	if s.subscribers[chat] == nil {
		s.subscribers[chat] = make(map[*subscriber]struct{})
	}
	s.subscribers[chat][sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

func (s *Server) removeSubscriber(chat domaintypes.ChatID, sub *subscriber) {
	s.mu.Lock()
	delete(s.subscribers[chat], sub)
	s.mu.Unlock()
}

// broadcast fans one envelope out to the chat's subscribers. Slow
// subscribers are skipped rather than blocking the append path.
func (s *Server) broadcast(chat domaintypes.ChatID, payload domaintypes.EncryptedPayload) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subscribers[chat] {
		select {
		case sub.ch <- payload:
		default:
			slog.Warn("dropping envelope for slow subscriber", "chat", chat, "envelope", payload.ID)
		}
	}
}
