package http

import (
	"github.com/minhthuy266/gemini-tarot/internal/domain"
)

// StartRequest begins a reading: spread plus theme, with an optional
// question for the cards.
type StartRequest struct {
	Spread   string `json:"spread" validate:"required"`
	Theme    string `json:"theme" validate:"required,max=100"`
	Question string `json:"question" validate:"max=500"`
}

// SelectRequest picks one face-down card by deck index.
type SelectRequest struct {
	Index *int `json:"index" validate:"required,min=0,max=77"`
}

// NotesRequest replaces the journal notes on a saved reading.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// SessionResponse is the JSON shape of one reading-flow session.
type SessionResponse struct {
	ID              string          `json:"id"`
	State           domain.State    `json:"state"`
	Spread          *SpreadResponse `json:"spread,omitempty"`
	Theme           string          `json:"theme,omitempty"`
	Question        string          `json:"question,omitempty"`
	SelectedIndices []int           `json:"selected_indices"`
	Cards           []CardResponse  `json:"cards,omitempty"`
	Summary         string          `json:"summary,omitempty"`
	DailyCard       *DailyResponse  `json:"daily_card,omitempty"`
	Error           string          `json:"error,omitempty"`
}

type SpreadResponse struct {
	Name        string             `json:"name"`
	CardCount   int                `json:"cardCount"`
	Description string             `json:"description"`
	Positions   []PositionResponse `json:"positions"`
	Themes      []string           `json:"themes"`
}

type PositionResponse struct {
	Meaning     string `json:"meaning"`
	Description string `json:"description"`
}

type CardResponse struct {
	Name                string `json:"name"`
	UprightMeaning      string `json:"upright_meaning"`
	ReversedMeaning     string `json:"reversed_meaning"`
	Description         string `json:"description"`
	ImageURL            string `json:"image_url"`
	PositionMeaning     string `json:"position_meaning"`
	PositionDescription string `json:"position_description"`
	IsReversed          bool   `json:"isReversed"`
}

type DailyResponse struct {
	Card           CardResponse `json:"card"`
	Interpretation string       `json:"interpretation"`
	Date           string       `json:"date"`
}

type ReadingResponse struct {
	ID       int64          `json:"id"`
	Date     string         `json:"date"`
	Theme    string         `json:"theme"`
	Spread   string         `json:"spreadName"`
	Question string         `json:"question"`
	Cards    []CardResponse `json:"cards"`
	Summary  string         `json:"summary"`
	Notes    string         `json:"notes,omitempty"`
}

type CardDetailsResponse struct {
	Name            string `json:"name"`
	UprightMeaning  string `json:"upright_meaning"`
	ReversedMeaning string `json:"reversed_meaning"`
	Description     string `json:"description"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toSessionResponse(id string, s domain.Session) SessionResponse {
	resp := SessionResponse{
		ID:              id,
		State:           s.State,
		Theme:           s.Theme,
		Question:        s.Question,
		SelectedIndices: s.Selected,
		Cards:           toCardResponses(s.Cards),
		Summary:         s.Summary,
		Error:           s.Err,
	}
	if resp.SelectedIndices == nil {
		resp.SelectedIndices = []int{}
	}
	if s.Spread.Name != "" {
		spread := toSpreadResponse(s.Spread)
		resp.Spread = &spread
	}
	if s.Daily != nil {
		resp.DailyCard = &DailyResponse{
			Card:           toCardResponse(s.Daily.Card),
			Interpretation: s.Daily.Interpretation,
			Date:           s.Daily.Date,
		}
	}
	return resp
}

func toSpreadResponse(s domain.Spread) SpreadResponse {
	positions := make([]PositionResponse, len(s.Positions))
	for i, p := range s.Positions {
		positions[i] = PositionResponse{Meaning: p.Meaning, Description: p.Description}
	}
	return SpreadResponse{
		Name:        s.Name,
		CardCount:   s.CardCount,
		Description: s.Description,
		Positions:   positions,
		Themes:      s.Themes,
	}
}

func toCardResponse(c domain.InterpretedCard) CardResponse {
	return CardResponse{
		Name:                c.Name,
		UprightMeaning:      c.UprightMeaning,
		ReversedMeaning:     c.ReversedMeaning,
		Description:         c.Description,
		ImageURL:            c.ImageURL,
		PositionMeaning:     c.PositionMeaning,
		PositionDescription: c.PositionDescription,
		IsReversed:          c.Reversed,
	}
}

func toCardResponses(cards []domain.InterpretedCard) []CardResponse {
	if cards == nil {
		return nil
	}
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		out[i] = toCardResponse(c)
	}
	return out
}

func toReadingResponse(r domain.Reading) ReadingResponse {
	return ReadingResponse{
		ID:       r.ID,
		Date:     r.Date,
		Theme:    r.Theme,
		Spread:   r.Spread,
		Question: r.Question,
		Cards:    toCardResponses(r.Cards),
		Summary:  r.Summary,
		Notes:    r.Notes,
	}
}
