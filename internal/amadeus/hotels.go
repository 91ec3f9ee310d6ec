package amadeus

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
)

type hotelSearchResponse struct {
	Data []struct {
		Hotel struct {
			HotelID   string  `json:"hotelId"`
			Name      string  `json:"name"`
			CityCode  string  `json:"cityCode"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"hotel"`
		Offers []struct {
			ID           string `json:"id"`
			CheckInDate  string `json:"checkInDate"`
			CheckOutDate string `json:"checkOutDate"`
			Price        struct {
				Currency string `json:"currency"`
				Total    string `json:"total"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

// normalizeHotelOffers flattens the vendor's hotel/offers nesting into one
// entry per offer. Entries without a priced offer are skipped; an entirely
// empty result is ErrNoMatch.
func normalizeHotelOffers(raw []byte) ([]models.HotelOffer, error) {
	var parsed hotelSearchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}

	var offers []models.HotelOffer
	for _, entry := range parsed.Data {
		for _, offer := range entry.Offers {
			if offer.ID == "" {
				continue
			}
			total, err := strconv.ParseFloat(offer.Price.Total, 64)
			if err != nil {
				continue
			}
			offers = append(offers, models.HotelOffer{
				HotelID:   entry.Hotel.HotelID,
				Name:      entry.Hotel.Name,
				CityCode:  entry.Hotel.CityCode,
				Latitude:  entry.Hotel.Latitude,
				Longitude: entry.Hotel.Longitude,
				OfferID:   offer.ID,
				CheckIn:   offer.CheckInDate,
				CheckOut:  offer.CheckOutDate,
				Currency:  offer.Price.Currency,
				Total:     total,
			})
		}
	}

	if len(offers) == 0 {
		return nil, provider.ErrNoMatch
	}
	return offers, nil
}
