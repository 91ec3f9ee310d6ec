package models

import "time"

// HotelOffer is a normalized hotel availability result.
type HotelOffer struct {
	HotelID   string  `json:"hotelId"`
	Name      string  `json:"name"`
	CityCode  string  `json:"cityCode,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	OfferID   string  `json:"offerId"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
	Currency  string  `json:"currency"`
	Total     float64 `json:"total"`
}

// FlightLeg is one segment of a flight offer.
type FlightLeg struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	DepartAt     string `json:"departAt"`
	ArriveAt     string `json:"arriveAt"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flightNumber"`
}

// FlightOffer is a normalized flight search result.
type FlightOffer struct {
	Legs            []FlightLeg `json:"legs"`
	Price           float64     `json:"price"`
	Currency        string      `json:"currency"`
	DurationMinutes int         `json:"durationMinutes,omitempty"`
}

// NewsItem is a normalized travel-news entry.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}
