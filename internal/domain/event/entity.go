package event

import (
	"time"
)

// City hosts events.
type City struct {
	ID   uint
	Name string
}

// Event takes place in one city on one date.
type Event struct {
	ID     uint
	Name   string
	Date   time.Time
	URL    string
	CityID uint
	City   *City // loaded by List hydration and FindByID
}

// NewEvent creates an event.
func NewEvent(name string, date time.Time, url string, cityID uint) *Event {
	return &Event{Name: name, Date: date, URL: url, CityID: cityID}
}

// Reschedule overwrites every editable field.
func (e *Event) Reschedule(name string, date time.Time, url string, cityID uint) {
	e.Name = name
	e.Date = date
	e.URL = url
	e.CityID = cityID
	e.City = nil
}
