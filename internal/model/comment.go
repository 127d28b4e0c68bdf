package model

import (
	"errors"
	"time"
)

// Comment is an append-only remark on a listing. Comments have no edit or
// delete path; the log is ordered by creation.
type Comment struct {
	ID        int64        `db:"id" json:"id"`
	ListingID int64        `db:"listing_id" json:"listing_id"`
	UserID    int64        `db:"user_id" json:"-"`
	Text      string       `db:"text" json:"text"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Author    *UserSummary `json:"author,omitempty"` // Joined field
}

// CreateCommentRequest is the request body for posting a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// CommentListResponse is the comment log response, oldest first.
type CommentListResponse struct {
	Comments []Comment `json:"comments"`
}

// Comment constraints
const (
	MaxCommentLength = 280
)

// Comment errors
var (
	ErrCommentEmpty   = errors.New("comment text is required")
	ErrCommentTooLong = errors.New("comment text too long")
)
