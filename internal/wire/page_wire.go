package wire

import (
	"storefront/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePages(r chi.Router, pageHandler *adaptor.PageHandler) {
	r.Get("/", pageHandler.Home)
	r.Get("/about", pageHandler.About)
	r.Get("/services", pageHandler.Services)
}

func wireFeedback(r chi.Router, feedbackHandler *adaptor.FeedbackHandler) {
	// open to everyone, signed in or not
	r.Get("/feedback", feedbackHandler.Form)
	r.Post("/feedback", feedbackHandler.Submit)
}

func wireContact(r chi.Router, contactHandler *adaptor.ContactHandler) {
	r.Get("/contact", contactHandler.Form)
	r.Post("/contact", contactHandler.Send)
}
