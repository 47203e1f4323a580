package service

import (
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBookingBaseURL     = "https://www.booking.com/searchresults.html"
	defaultBookingAffiliateID = "TEST_AID"
)

// HotelLinkBuilder builds Booking.com affiliate search links
type HotelLinkBuilder struct {
	baseURL     string
	affiliateID string
}

// NewHotelLinkBuilder creates a builder, falling back to the public search page and test affiliate id
func NewHotelLinkBuilder(baseURL, affiliateID string) *HotelLinkBuilder {
	if baseURL == "" {
		baseURL = defaultBookingBaseURL
	}
	if affiliateID == "" {
		affiliateID = defaultBookingAffiliateID
	}
	return &HotelLinkBuilder{baseURL: baseURL, affiliateID: affiliateID}
}

// Build returns the search link for city between checkIn and checkOut
func (b *HotelLinkBuilder) Build(city string, checkIn, checkOut time.Time) string {
	params := url.Values{}
	params.Set("ss", city)
	params.Set("checkin_year", strconv.Itoa(checkIn.Year()))
	params.Set("checkin_month", strconv.Itoa(int(checkIn.Month())))
	params.Set("checkin_monthday", strconv.Itoa(checkIn.Day()))
	params.Set("checkout_year", strconv.Itoa(checkOut.Year()))
	params.Set("checkout_month", strconv.Itoa(int(checkOut.Month())))
	params.Set("checkout_monthday", strconv.Itoa(checkOut.Day()))
	params.Set("aid", b.affiliateID)
	return b.baseURL + "?" + params.Encode()
}
