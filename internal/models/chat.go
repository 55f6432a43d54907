package models

import "time"

// ChatEntry — одна пара «сообщение пользователя / ответ ассистента».
type ChatEntry struct {
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatLogLimit — максимум записей в журнале чата, старые вытесняются.
const ChatLogLimit = 100
