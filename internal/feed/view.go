package feed

import (
	"time"

	"github.com/hitoshi/kizuna/internal/model"
	"github.com/hitoshi/kizuna/internal/repository"
)

// PostView は投稿のAPI表現。添付・コメント・確認をネストして持つ。
// 確認（Confirmations）はドゥア投稿以外ではJSONに現れない。
type PostView struct {
	ID            string             `json:"id"`
	Author        string             `json:"author"`
	Text          string             `json:"text"`
	Type          model.PostType     `json:"type"`
	Files         []FileView         `json:"files"`
	Comments      []CommentView      `json:"comments"`
	Confirmations []ConfirmationView `json:"confirmations,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// FileView は添付ファイルのAPI表現。
type FileView struct {
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// CommentView はコメントのAPI表現。
// ReplyToAuthorは返信先コメントの著者名（表示用、ベストエフォート解決）。
type CommentView struct {
	ID            string    `json:"id"`
	PostID        string    `json:"post_id"`
	Author        string    `json:"author"`
	Text          string    `json:"text"`
	ReplyTo       *string   `json:"reply_to,omitempty"`
	ReplyToAuthor string    `json:"reply_to_author,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ConfirmationView は祈りの確認のAPI表現。
type ConfirmationView struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Username  string    `json:"username"`
	IsThanked bool      `json:"is_thanked"`
	CreatedAt time.Time `json:"created_at"`
}

// assemblePostView は投稿とネスト要素からPostViewを組み立てる。
// FilesとCommentsは常に空配列としてJSONに現れる。Confirmationsは
// ドゥア投稿のときのみ付与され、空の場合はomitemptyにより省略される。
func assemblePostView(post *model.Post, files []FileView, comments []CommentView, confirmations []ConfirmationView) PostView {
	if files == nil {
		files = []FileView{}
	}
	if comments == nil {
		comments = []CommentView{}
	}

	view := PostView{
		ID:        post.ID,
		Author:    post.AuthorName,
		Text:      post.Body,
		Type:      post.Type,
		Files:     files,
		Comments:  comments,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}

	if post.Type == model.PostTypeDua {
		if confirmations == nil {
			confirmations = []ConfirmationView{}
		}
		view.Confirmations = confirmations
	}

	return view
}

// toFileView は添付モデルをAPI表現へ変換する。
func toFileView(a *model.Attachment) FileView {
	return FileView{
		URL:          a.URL,
		MimeType:     a.MimeType,
		OriginalName: a.OriginalName,
		Size:         a.SizeBytes,
	}
}

// toCommentView はコメントをAPI表現へ変換する。
func toCommentView(c repository.CommentWithReplyAuthor) CommentView {
	return CommentView{
		ID:            c.ID,
		PostID:        c.PostID,
		Author:        c.AuthorName,
		Text:          c.Body,
		ReplyTo:       c.ReplyTo,
		ReplyToAuthor: c.ReplyToAuthor,
		CreatedAt:     c.CreatedAt,
	}
}

// toConfirmationView は確認をAPI表現へ変換する。
func toConfirmationView(c *model.DuaConfirmation) ConfirmationView {
	return ConfirmationView{
		ID:        c.ID,
		PostID:    c.PostID,
		Username:  c.Username,
		IsThanked: c.IsThanked,
		CreatedAt: c.CreatedAt,
	}
}
