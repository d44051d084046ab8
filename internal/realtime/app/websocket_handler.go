package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/domain"
	"github.com/baigcoder/TrueVibe-sub000/pkg/errs"
	"github.com/baigcoder/TrueVibe-sub000/pkg/logger"
	"github.com/baigcoder/TrueVibe-sub000/pkg/middlewares"
)

// RealtimeWebsocketHandler bundles every use case behind the single
// websocket boundary.
type RealtimeWebsocketHandler struct {
	directoryUC *DirectoryUseCase
	messageUC   *MessageUseCase
	reactionUC  *ReactionUseCase
	presence    *PresenceTracker
	voice       *VoiceRoomManager
	bus         *EventBus
}

// NewRealtimeWebsocketHandler create RealtimeWebsocketHandler
func NewRealtimeWebsocketHandler(
	directoryUC *DirectoryUseCase,
	messageUC *MessageUseCase,
	reactionUC *ReactionUseCase,
	presence *PresenceTracker,
	voice *VoiceRoomManager,
	bus *EventBus,
) *RealtimeWebsocketHandler {
	return &RealtimeWebsocketHandler{
		directoryUC: directoryUC,
		messageUC:   messageUC,
		reactionUC:  reactionUC,
		presence:    presence,
		voice:       voice,
		bus:         bus,
	}
}

// connState per-connection subscription registry. writeMu serializes
// writes because fan-out handlers and the command loop share the conn.
type connState struct {
	writeMu sync.Mutex
	mu      sync.Mutex
	subs    map[string]func()
}

func (cs *connState) addSub(key string, unsubscribe func()) {
	cs.mu.Lock()
	if prev, ok := cs.subs[key]; ok {
		prev()
	}
	cs.subs[key] = unsubscribe
	cs.mu.Unlock()
}

func (cs *connState) dropSub(key string) bool {
	cs.mu.Lock()
	unsubscribe, ok := cs.subs[key]
	if ok {
		delete(cs.subs, key)
	}
	cs.mu.Unlock()
	if ok {
		unsubscribe()
	}
	return ok
}

func (cs *connState) dropAll() {
	cs.mu.Lock()
	subs := cs.subs
	cs.subs = map[string]func(){}
	cs.mu.Unlock()
	for _, unsubscribe := range subs {
		unsubscribe()
	}
}

// HandleConnection entry point of a websocket connection
func (h *RealtimeWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	if !ok || userID == "" {
		logger.Log.Warn("websocket connection without identity, closing")
		conn.Close()
		return
	}
	logger.Log.Info("websocket connected", zap.String("userID", userID))

	state := &connState{subs: make(map[string]func())}
	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		state.dropAll()
		logger.Log.Info("websocket close", zap.String("userID", userID))
		conn.Close()
		cancel()
	}()

	// fiber handles close frames in ReadMessage, the handler is for logging
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("received PONG", zap.String("userID", userID))
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := h.writeMessage(state, conn, websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, conn, state, userID, mt, message)
	}
}

func (h *RealtimeWebsocketHandler) execWebsocketAction(ctx context.Context, conn *websocket.Conn, state *connState, userID string, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, conn, state, userID, msg)
	default:
		h.sendError(state, conn, "unsupported message type")
	}
}

func (h *RealtimeWebsocketHandler) textMessageAction(ctx context.Context, conn *websocket.Conn, state *connState, userID string, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Errorf("json unmarshal error:", err)
		h.sendError(state, conn, "malformed request")
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	var err error

	switch req.Action {
	case string(domain.CreateConversation):
		var conv *domain.Conversation
		conv, err = h.directoryUC.CreateConversation(ctx, userID, req.Members, req.Name)
		if err == nil {
			resp.Success = true
			resp.Payload["conversation"] = conv
		}

	case string(domain.CreateServer):
		var srv *domain.Server
		srv, err = h.directoryUC.CreateServer(ctx, req.Name, userID)
		if err == nil {
			resp.Success = true
			resp.Payload["server"] = srv
		}

	case string(domain.JoinServer):
		var srv *domain.Server
		srv, err = h.directoryUC.JoinServer(ctx, req.Invite, userID)
		if err == nil {
			resp.Success = true
			resp.Payload["server"] = srv
		}

	case string(domain.LeaveServer):
		err = h.directoryUC.LeaveServer(ctx, req.ServerID, userID)
		resp.Success = err == nil

	case string(domain.DeleteServer):
		err = h.directoryUC.DeleteServer(ctx, req.ServerID, userID)
		resp.Success = err == nil

	case string(domain.CreateChannel):
		var ch *domain.Channel
		ch, err = h.directoryUC.CreateChannel(ctx, req.ServerID, userID, req.Name, domain.ChannelKind(req.Kind))
		if err == nil {
			resp.Success = true
			resp.Payload["channel"] = ch
		}

	case string(domain.ListChannels):
		var channels []domain.Channel
		channels, err = h.directoryUC.ListChannels(ctx, req.ServerID, userID)
		if err == nil {
			resp.Success = true
			resp.Payload["channels"] = channels
		}

	case string(domain.ListServers):
		var page domain.ServerPage
		page, err = h.directoryUC.ListServersForUser(ctx, userID, req.Limit, req.Cursor)
		if err == nil {
			resp.Success = true
			resp.Payload["page"] = page
		}

	case string(domain.ListConversations):
		var page domain.ConversationPage
		page, err = h.directoryUC.ListConversationsForUser(ctx, userID, req.Limit, req.Cursor)
		if err == nil {
			resp.Success = true
			resp.Payload["page"] = page
		}

	case string(domain.EnterScope):
		err = h.enterScope(ctx, conn, state, userID, &req, &resp)

	case string(domain.LeaveScope):
		scope, perr := requestScope(&req)
		if perr != nil {
			err = perr
			break
		}
		if state.dropSub(scope.Key()) {
			resp.Success = true
			resp.Payload["left_scope"] = scope.Key()
		} else {
			err = errs.InvalidState("not subscribed to this scope")
		}

	case string(domain.SendMessage):
		scope, perr := requestScope(&req)
		if perr != nil {
			err = perr
			break
		}
		var posted *domain.Message
		posted, err = h.messageUC.PostMessage(ctx, scope, userID, req.Content, req.Media, req.ReplyTo)
		if err == nil {
			resp.Success = true
			resp.Payload["message"] = posted
		}

	case string(domain.ListMessages):
		scope, perr := requestScope(&req)
		if perr != nil {
			err = perr
			break
		}
		var page domain.MessagePage
		page, err = h.messageUC.ListMessages(ctx, scope, userID, req.Limit, req.Cursor)
		if err == nil {
			resp.Success = true
			resp.Payload["page"] = page
		}

	case string(domain.ReadMessage):
		err = h.messageUC.MarkRead(ctx, req.MessageID, userID)
		resp.Success = err == nil

	case string(domain.ToggleReaction):
		var users []string
		users, err = h.reactionUC.Toggle(ctx, req.MessageID, userID, req.Emoji)
		if err == nil {
			resp.Success = true
			resp.Payload["users"] = users
		}

	case string(domain.TypingStart):
		scope, perr := requestScope(&req)
		if perr != nil {
			err = perr
			break
		}
		if err = h.directoryUC.AuthorizeScope(ctx, scope, userID); err == nil {
			h.presence.SignalTyping(scope, userID)
			resp.Success = true
		}

	case string(domain.TypingStop):
		scope, perr := requestScope(&req)
		if perr != nil {
			err = perr
			break
		}
		h.presence.StopTyping(scope, userID)
		resp.Success = true

	case string(domain.JoinVoice):
		var p domain.Participant
		p, err = h.voice.Join(req.RoomID, userID)
		if err == nil {
			resp.Success = true
			resp.Payload["participant"] = p
			if session, ok := h.voice.Session(req.RoomID); ok {
				resp.Payload["session"] = session
			}
		}

	case string(domain.LeaveVoice):
		err = h.voice.Leave(req.RoomID, userID)
		resp.Success = err == nil

	case string(domain.SetMuted):
		var p domain.Participant
		p, err = h.voice.SetMuted(req.RoomID, userID, req.Value)
		if err == nil {
			resp.Success = true
			resp.Payload["participant"] = p
		}

	case string(domain.SetVideoOff):
		var p domain.Participant
		p, err = h.voice.SetVideoOff(req.RoomID, userID, req.Value)
		if err == nil {
			resp.Success = true
			resp.Payload["participant"] = p
		}

	case string(domain.SetScreenShare):
		var p domain.Participant
		p, err = h.voice.SetScreenSharing(req.RoomID, userID, req.Value)
		if err == nil {
			resp.Success = true
			resp.Payload["participant"] = p
		}

	default:
		h.sendError(state, conn, "unknown action")
		return
	}

	if err != nil {
		resp.Error = err.Error()
		resp.ErrorKind = string(errs.KindOf(err))
		logger.Log.Error("websocket action err",
			zap.String("userID", userID),
			zap.String("action", req.Action),
			zap.String("err", resp.Error),
		)
	}
	h.sendResponse(state, conn, resp)
}

// enterScope authorize then attach the connection to the scope's live
// feed. The response carries the current typing snapshot so the badge
// renders without waiting for the next transition.
func (h *RealtimeWebsocketHandler) enterScope(ctx context.Context, conn *websocket.Conn, state *connState, userID string, req *domain.WSRequest, resp *domain.WSResponse) error {
	scope, err := requestScope(req)
	if err != nil {
		return err
	}
	if err := h.directoryUC.AuthorizeScope(ctx, scope, userID); err != nil {
		return err
	}

	unsubscribe := h.bus.Subscribe(scope, func(ev domain.Event) {
		h.sendResponse(state, conn, domain.WSResponse{
			Action:  string(domain.NotifyEvent),
			Success: true,
			Payload: map[string]interface{}{"event": ev},
		})
	})
	state.addSub(scope.Key(), unsubscribe)

	resp.Success = true
	resp.Payload["entered_scope"] = scope.Key()
	resp.Payload["typing_users"] = h.presence.TypingUsers(scope)
	return nil
}

func requestScope(req *domain.WSRequest) (domain.Scope, error) {
	kind := domain.ScopeKind(req.ScopeKind)
	switch kind {
	case domain.ScopeConversation, domain.ScopeChannel, domain.ScopeRoom:
	default:
		return domain.Scope{}, errs.InvalidState("unknown scope kind")
	}
	if req.ScopeID == "" {
		return domain.Scope{}, errs.InvalidState("missing scope id")
	}
	return domain.Scope{Kind: kind, ID: req.ScopeID}, nil
}

func (h *RealtimeWebsocketHandler) writeMessage(state *connState, conn *websocket.Conn, mt int, data []byte) error {
	state.writeMu.Lock()
	defer state.writeMu.Unlock()
	return conn.WriteMessage(mt, data)
}

// sendResponse write one JSON frame to the client
func (h *RealtimeWebsocketHandler) sendResponse(state *connState, conn *websocket.Conn, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	if err := h.writeMessage(state, conn, websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *RealtimeWebsocketHandler) sendError(state *connState, conn *websocket.Conn, errorMsg string) {
	h.sendResponse(state, conn, domain.WSResponse{
		Action:  "error",
		Success: false,
		Error:   errorMsg,
	})
}
