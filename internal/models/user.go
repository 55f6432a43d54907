package models

import (
	"time"

	"golang.org/x/oauth2"
)

type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	PasswordHash  string        `json:"-"`
	CreatedAt     time.Time     `json:"createdAt"`
	CalendarToken *oauth2.Token `json:"-"`
}

// StoredUser — запись реестра пользователей в хранилище документов.
// В отличие от User сериализует хеш пароля и токен календаря.
type StoredUser struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	PasswordHash  string        `json:"passwordHash"`
	CreatedAt     time.Time     `json:"createdAt"`
	CalendarToken *oauth2.Token `json:"calendarToken,omitempty"`
}

func (u StoredUser) Public() User {
	return User{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		CreatedAt:     u.CreatedAt,
		CalendarToken: u.CalendarToken,
	}
}
