package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/domain"
	"github.com/fairflicks/fairflicks-go/internal/service/recommend"
	"github.com/fairflicks/fairflicks-go/internal/util"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const assistantErrorReply = "I'm sorry, I'm having trouble right now. Please try again."

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type assistantRequest struct {
	Message string `json:"message"`
}

type assistantReply struct {
	Reply           string                       `json:"reply"`
	Kind            domain.RequestKind           `json:"kind,omitempty"`
	Recommendations []domain.MovieRecommendation `json:"recommendations,omitempty"`
}

// handleAssistant runs the conversational discovery loop over a
// websocket: each text message is mapped to a request kind, driven
// through the recommendation pipeline, and answered with the batch.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(constants.WebSocketConfig.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(conn, done)

	for {
		var req assistantRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("Assistant connection closed", zap.Error(err))
			}
			return
		}

		reply := s.answerAssistant(r, strings.TrimSpace(req.Message))

		conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("Failed to write assistant reply", zap.Error(err))
			return
		}
	}
}

func (s *Server) answerAssistant(r *http.Request, message string) *assistantReply {
	if message == "" || len(message) > constants.AIInputLimits.MaxQueryLength {
		return &assistantReply{Reply: assistantErrorReply}
	}

	kind := inferRequestKind(message)
	batch := s.deps.Recommender.GetRecommendations(r.Context(), s.deps.Profiles.Profile(), kind, recommend.DefaultCount)

	// Surfacing a batch counts as positive engagement with its titles.
	for _, item := range batch.Items {
		if err := s.deps.Profiles.LearnFromInteraction(r.Context(), item.Title, item.Genre, domain.InteractionLike); err != nil {
			s.logger.Warn("Failed to learn from assistant batch", zap.Error(err))
			break
		}
	}

	return &assistantReply{
		Reply:           assistantReplyText(batch),
		Kind:            kind,
		Recommendations: batch.Items,
	}
}

func assistantReplyText(batch *recommend.Batch) string {
	if len(batch.Items) == 0 {
		return assistantErrorReply
	}
	titles := make([]string, 0, len(batch.Items))
	for _, item := range batch.Items {
		titles = append(titles, item.Title)
	}
	return fmt.Sprintf("Here are some picks for you: %s", strings.Join(titles, ", "))
}

// inferRequestKind maps free-form chat to a pipeline request kind.
// Later matches win so "cultural mood" resolves to cultural.
func inferRequestKind(message string) domain.RequestKind {
	lower := util.Normalize(message)
	kind := domain.RequestPersonalized
	if strings.Contains(lower, "trending") {
		kind = domain.RequestTrending
	}
	if strings.Contains(lower, "mood") || strings.Contains(lower, "feel") {
		kind = domain.RequestMoodBased
	}
	if strings.Contains(lower, "country") || strings.Contains(lower, "cultural") {
		kind = domain.RequestCultural
	}
	return kind
}

// pingLoop keeps the connection alive. It runs beside the reply loop,
// so pings go through WriteControl, the only write call gorilla allows
// from a second goroutine.
func (s *Server) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
