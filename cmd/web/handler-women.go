package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/adermis/adermis/internal/errors"
	"github.com/adermis/adermis/internal/models"
)

type womenTemplateData struct {
	BaseTemplateData

	Messages []models.ChatMessage
}

func (app *application) womenPage(w http.ResponseWriter, r *http.Request) {
	data := womenTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Messages:         app.chatLog.Messages(r.Context()),
	}
	app.render(w, r, http.StatusOK, "women", data)
}

// womenChat answers one health question. Empty input is rejected before it
// reaches the transcript or the assistant.
func (app *application) womenChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h := app.htmx.NewHandler(w, r)

	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(r.PostForm.Get("question"))
	if question == "" {
		if h.IsHxRequest() {
			app.renderChatMessages(w, r)
			return
		}
		http.Redirect(w, r, "/women", http.StatusSeeOther)
		return
	}

	app.chatLog.Append(ctx, models.MessageSenderUser, question)

	answer, err := app.assistant.Ask(ctx, question)
	if err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "assistant request failed", errors.SlogError(err))
		answer = "Sorry, I can't answer right now. Please try again in a moment."
	}
	app.chatLog.Append(ctx, models.MessageSenderAI, answer)

	if h.IsHxRequest() {
		app.renderChatMessages(w, r)
		return
	}
	http.Redirect(w, r, "/women", http.StatusSeeOther)
}

func (app *application) renderChatMessages(w http.ResponseWriter, r *http.Request) {
	data := womenTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Messages:         app.chatLog.Messages(r.Context()),
	}
	app.renderPartial(w, r, "women", "chat-messages", data)
}

// womenLeave ends the consultation and discards the transcript.
func (app *application) womenLeave(w http.ResponseWriter, r *http.Request) {
	app.chatLog.Clear(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
