// LumiSkin - Skincare Analysis and Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lumiskin

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/lumiskin/internal/ingredients"
	"github.com/tomtom215/lumiskin/internal/models"
)

// ChatMessageRequest is the body of POST /api/chatbot/message.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// advisoryReply builds the canned assistant answer from the user's profile.
func advisoryReply(user *models.User) string {
	skinType := firstNonEmpty(user.SkinType, models.SkinTypeNormal)
	advice := ingredients.GeneralAdvice(skinType, user.SkinConcerns)

	var b strings.Builder
	fmt.Fprintf(&b, "For %s skin, cleanse %s with a %s.", skinType, advice.Cleansing.Frequency, advice.Cleansing.Type)
	if len(advice.Cleansing.Ingredients) > 0 {
		fmt.Fprintf(&b, " Look for %s.", strings.Join(advice.Cleansing.Ingredients, ", "))
	}
	fmt.Fprintf(&b, " Use a %s moisturizer", advice.Moisturizing.Type)
	if len(advice.Moisturizing.Avoid) > 0 {
		fmt.Fprintf(&b, " and avoid %s", strings.Join(advice.Moisturizing.Avoid, ", "))
	}
	b.WriteString(".")
	fmt.Fprintf(&b, " Wear %s %s sunscreen and reapply %s.", advice.SunProtection.SPF, advice.SunProtection.Type, advice.SunProtection.Reapplication)
	if len(user.SkinConcerns) > 0 {
		fmt.Fprintf(&b, " Your routine should target: %s.", strings.Join(user.SkinConcerns, ", "))
	}
	return b.String()
}

// ChatMessage stores the user's message and the assistant reply.
//
// @Summary Send a message to the skincare assistant
// @Tags chatbot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChatMessageRequest true "Message"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /chatbot/message [post]
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ChatMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	user := currentUser(r)

	question := &models.ChatMessage{
		UserID:  user.ID,
		Role:    models.ChatRoleUser,
		Content: strings.TrimSpace(req.Message),
	}
	if err := h.store.AddChatMessage(question); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to store message", err)
		return
	}

	reply := &models.ChatMessage{
		UserID:  user.ID,
		Role:    models.ChatRoleAssistant,
		Content: advisoryReply(user),
	}
	if err := h.store.AddChatMessage(reply); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to store reply", err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"message": question,
		"reply":   reply,
	}, start)
}

// ChatHistory returns the caller's conversation, oldest first.
//
// @Summary Chat history
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /chatbot/history [get]
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	messages, err := h.store.ListChat(currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get chat history", err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	}, start)
}

// ClearChatHistory deletes the caller's conversation.
//
// @Summary Clear chat history
// @Tags chatbot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /chatbot/history [delete]
func (h *Handler) ClearChatHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, err := h.store.ClearChat(currentUser(r).ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to clear chat history", err)
		return
	}

	respondMessage(w, http.StatusOK, "Chat history cleared", map[string]interface{}{
		"deleted": n,
	}, start)
}
