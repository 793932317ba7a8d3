package model

import "time"

type ChatSession struct {
	ID          int64     `json:"id"`
	VisitorName string    `json:"visitor_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatSender string

const (
	ChatSenderVisitor ChatSender = "visitor"
	ChatSenderAgent   ChatSender = "agent"
)

type ChatMessage struct {
	ID        int64      `json:"id"`
	SessionID int64      `json:"session_id"`
	Sender    ChatSender `json:"sender"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}
