package chat

import (
	"time"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/repository"
)

// MessageView はチャット1件のAPI表現。
type MessageView struct {
	ID            string         `json:"id"`
	Author        string         `json:"author"`
	Text          string         `json:"text"`
	ReplyTo       *string        `json:"reply_to"`
	ReplyToAuthor string         `json:"reply_to_author,omitempty"`
	File          *chatFileView  `json:"file,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type chatFileView struct {
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

func toMessageView(m repository.MessageWithReplyAuthor, file *model.Attachment) MessageView {
	view := MessageView{
		ID:            m.ID,
		Author:        m.AuthorName,
		Text:          m.Body,
		ReplyTo:       m.ReplyTo,
		ReplyToAuthor: m.ReplyToAuthor,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if file != nil {
		view.File = &chatFileView{
			URL:          file.URL,
			MimeType:     file.MimeType,
			OriginalName: file.OriginalName,
			SizeBytes:    file.SizeBytes,
		}
	}
	return view
}
