// Package event holds the city and event use cases.
package event

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/event"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type CityDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type EventDTO struct {
	ID     uint      `json:"id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	URL    string    `json:"url"`
	CityID uint      `json:"city_id"`
	City   *CityDTO  `json:"city,omitempty"`
}

type CityRequest struct {
	Name string
}

type EventRequest struct {
	Name   string
	Date   time.Time
	URL    string
	CityID uint
}

func toCityDTO(c *event.City) CityDTO {
	return CityDTO{ID: c.ID, Name: c.Name}
}

func toEventDTO(e *event.Event) EventDTO {
	dto := EventDTO{
		ID:     e.ID,
		Name:   e.Name,
		Date:   e.Date,
		URL:    e.URL,
		CityID: e.CityID,
	}
	if e.City != nil {
		c := toCityDTO(e.City)
		dto.City = &c
	}
	return dto
}

// Service reads are public. Cities are written by ROLE_ADMIN, events
// created by ROLE_ADMIN or ROLE_CLIENT and updated by ROLE_ADMIN.
type Service struct {
	cities event.CityRepository
	events event.Repository
	authz  *authz.Authorizer
	tx     tx.Manager
}

func NewService(cities event.CityRepository, events event.Repository, authorizer *authz.Authorizer, txManager tx.Manager) *Service {
	return &Service{cities: cities, events: events, authz: authorizer, tx: txManager}
}

// FindAllCities lists cities ordered by name.
func (s *Service) FindAllCities(ctx context.Context) ([]CityDTO, error) {
	cities, err := s.cities.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CityDTO, len(cities))
	for i, c := range cities {
		out[i] = toCityDTO(c)
	}
	return out, nil
}

func (s *Service) InsertCity(ctx context.Context, p *authz.Principal, req CityRequest) (dto *CityDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceCity, authz.ActionWrite); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("city", "insert", err) }()

	c := &event.City{Name: req.Name}
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		return s.cities.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	out := toCityDTO(c)
	return &out, nil
}

// FindAllPaged pages events with their city.
func (s *Service) FindAllPaged(ctx context.Context, req pagination.PageRequest) (*pagination.Page[EventDTO], error) {
	var page *pagination.Page[EventDTO]
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		page, err = pagination.Search(ctx, s.events.List(), req, toEventDTO)
		return err
	})
	return page, err
}

func (s *Service) Insert(ctx context.Context, p *authz.Principal, req EventRequest) (dto *EventDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceEvent, authz.ActionCreate); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("event", "insert", err) }()

	var saved *event.Event
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.requireCity(ctx, req.CityID); err != nil {
			return err
		}
		e := event.NewEvent(req.Name, req.Date, req.URL, req.CityID)
		if err := s.events.Create(ctx, e); err != nil {
			return err
		}
		saved, err = s.events.FindByID(ctx, e.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("event created",
		zap.Uint("id", saved.ID),
		zap.Uint("city_id", saved.CityID))
	out := toEventDTO(saved)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, p *authz.Principal, id uint, req EventRequest) (dto *EventDTO, err error) {
	if err := s.authz.Check(p, authz.ResourceEvent, authz.ActionUpdate); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("event", "update", err) }()

	var saved *event.Event
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		e, err := s.events.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, event.ErrEventNotFound) {
				return event.EventIDNotFound(id)
			}
			return err
		}
		if err := s.requireCity(ctx, req.CityID); err != nil {
			return err
		}
		e.Reschedule(req.Name, req.Date, req.URL, req.CityID)
		if err := s.events.Update(ctx, e); err != nil {
			return err
		}
		saved, err = s.events.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := toEventDTO(saved)
	return &out, nil
}

func (s *Service) requireCity(ctx context.Context, cityID uint) error {
	ok, err := s.cities.ExistsByID(ctx, cityID)
	if err != nil {
		return err
	}
	if !ok {
		return event.CityIDNotFound(cityID)
	}
	return nil
}
