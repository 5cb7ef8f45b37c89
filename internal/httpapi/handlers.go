package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pizzavox/pizzavox/internal/conversation"
	"github.com/pizzavox/pizzavox/internal/order"
	"github.com/pizzavox/pizzavox/internal/pricing"
)

type continueRequest struct {
	ConversationID string `json:"conversation_id"`
	Utterance      string `json:"utterance"`
}

type finishRequest struct {
	ConversationID string `json:"conversation_id"`
}

// slotView is the wire representation of a slot, with the derived missing
// fields spelled out so clients need no knowledge of the tri-state encoding.
type slotView struct {
	PizzaName     string          `json:"pizza_name,omitempty"`
	Quantity      int             `json:"quantity"`
	Dough         order.DoughSpec `json:"dough"`
	Extras        []order.Extra   `json:"extras,omitempty"`
	MissingFields []order.Field   `json:"missing_fields,omitempty"`
}

type conversationResponse struct {
	ConversationID string       `json:"conversation_id"`
	OrderRef       int64        `json:"order_ref"`
	Status         order.Status `json:"status"`
	Slots          []slotView   `json:"slots"`
	Understood     *bool        `json:"understood,omitempty"`
	Message        string       `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func viewOf(conv order.Conversation) conversationResponse {
	resp := conversationResponse{
		ConversationID: conv.ID,
		OrderRef:       conv.OrderRef,
		Status:         conv.Status,
		Slots:          make([]slotView, len(conv.Slots)),
	}
	for i, slot := range conv.Slots {
		resp.Slots[i] = slotView{
			PizzaName:     slot.PizzaName,
			Quantity:      slot.Quantity,
			Dough:         slot.Dough,
			Extras:        slot.Extras,
			MissingFields: slot.MissingFields(),
		}
	}
	return resp
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	conv, err := s.machine.Start(r.Context())
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, viewOf(conv))
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ConversationID == "" || req.Utterance == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "conversation_id and utterance are required"})
		return
	}

	res, err := s.machine.Continue(r.Context(), req.ConversationID, req.Utterance)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	resp := viewOf(res.Conversation)
	resp.Understood = &res.Understood
	resp.Message = res.Message
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ConversationID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "conversation_id is required"})
		return
	}

	conv, err := s.machine.Finish(r.Context(), req.ConversationID)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(conv))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conv, err := s.machine.Snapshot(r.Context(), id)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	sum, err := pricing.Summarize(r.Context(), s.catalog, conv.Slots)
	if err != nil {
		s.writeMachineError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

// writeMachineError maps conversation-layer errors onto HTTP status codes.
func (s *Server) writeMachineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "conversation not found"})
	case errors.Is(err, conversation.ErrIncomplete):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "order is not complete yet"})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("response encoding failed", "error", err)
	}
}
