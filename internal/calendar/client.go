// Пакет calendar — тонкий клиент Google Calendar. События для нас
// непрозрачны: наружу отдаются только start и summary.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskboard/internal/models"

	"golang.org/x/oauth2"
)

const eventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

type Client struct {
	config *oauth2.Config
}

func New(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
			Endpoint:     googleEndpoint,
		},
	}
}

// Enabled сообщает, настроена ли интеграция в конфиге.
func (c *Client) Enabled() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

func (c *Client) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("обмен кода на токен: %w", err)
	}
	return token, nil
}

type eventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type apiEvent struct {
	Summary string    `json:"summary"`
	Start   eventTime `json:"start"`
	End     eventTime `json:"end,omitempty"`
}

func (t eventTime) value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// Events запрашивает ближайшие события основного календаря.
func (c *Client) Events(ctx context.Context, token *oauth2.Token, from time.Time, max int) ([]models.ScheduleEvent, error) {
	httpClient := c.config.Client(ctx, token)

	url := fmt.Sprintf("%s?timeMin=%s&maxResults=%d&singleEvents=true&orderBy=startTime",
		eventsURL, from.UTC().Format(time.RFC3339), max)

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("запрос событий: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("запрос событий: статус %d", resp.StatusCode)
	}

	var payload struct {
		Items []apiEvent `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("разбор ответа календаря: %w", err)
	}

	events := make([]models.ScheduleEvent, 0, len(payload.Items))
	for _, item := range payload.Items {
		events = append(events, models.ScheduleEvent{
			Start:   item.Start.value(),
			Summary: item.Summary,
		})
	}
	return events, nil
}

// CreateEvent создаёт часовое событие с заданным началом.
func (c *Client) CreateEvent(ctx context.Context, token *oauth2.Token, summary string, start time.Time) (models.ScheduleEvent, error) {
	httpClient := c.config.Client(ctx, token)

	body, err := json.Marshal(apiEvent{
		Summary: summary,
		Start:   eventTime{DateTime: start.Format(time.RFC3339)},
		End:     eventTime{DateTime: start.Add(time.Hour).Format(time.RFC3339)},
	})
	if err != nil {
		return models.ScheduleEvent{}, fmt.Errorf("сериализация события: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, eventsURL, bytes.NewReader(body))
	if err != nil {
		return models.ScheduleEvent{}, fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return models.ScheduleEvent{}, fmt.Errorf("создание события: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return models.ScheduleEvent{}, fmt.Errorf("создание события: статус %d", resp.StatusCode)
	}

	var created apiEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return models.ScheduleEvent{}, fmt.Errorf("разбор ответа календаря: %w", err)
	}
	return models.ScheduleEvent{Start: created.Start.value(), Summary: created.Summary}, nil
}
