package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/event"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/pagination"
)

type cityRepository struct {
	repository
}

// NewCityRepository creates the city repository.
func NewCityRepository(db *gorm.DB) event.CityRepository {
	return &cityRepository{repository{db: db}}
}

func (r *cityRepository) FindAll(ctx context.Context) ([]*event.City, error) {
	var models []CityModel
	if err := r.getDB(ctx).Order("name").Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "Find cities failed")
	}
	out := make([]*event.City, len(models))
	for i := range models {
		out[i] = toCityEntity(&models[i])
	}
	return out, nil
}

func (r *cityRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &CityModel{}, id)
}

func (r *cityRepository) Create(ctx context.Context, c *event.City) error {
	model := &CityModel{Name: c.Name}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "Create city failed")
	}
	c.ID = model.ID
	return nil
}

type eventRepository struct {
	repository
}

// NewEventRepository creates the event repository.
func NewEventRepository(db *gorm.DB) event.Repository {
	return &eventRepository{repository{db: db}}
}

var eventSorts = sortColumns{
	def: "id",
	cols: map[string]string{
		"id":   "events.id",
		"name": "events.name",
		"date": "events.date",
	},
}

// List pages every event and hydrates the city with a JOIN.
func (r *eventRepository) List() pagination.Query[uint, *event.Event] {
	return &pagedQuery[EventModel, *event.Event]{
		name:     "event_list",
		table:    "events",
		db:       r.getDB,
		sorts:    eventSorts,
		eager:    func(db *gorm.DB) *gorm.DB { return db.Joins("City") },
		toEntity: toEventEntity,
		idOf:     func(e *event.Event) uint { return e.ID },
	}
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*event.Event, error) {
	var model EventModel
	if err := r.getDB(ctx).Joins("City").Where("events.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, apperrors.Wrap(err, "Find event failed")
	}
	return toEventEntity(&model), nil
}

func (r *eventRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return exists(r.getDB(ctx), &EventModel{}, id)
}

func (r *eventRepository) Create(ctx context.Context, e *event.Event) error {
	model := toEventModel(e)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return event.CityIDNotFound(e.CityID)
		}
		return apperrors.Wrap(err, "Create event failed")
	}
	e.ID = model.ID
	return nil
}

func (r *eventRepository) Update(ctx context.Context, e *event.Event) error {
	err := r.getDB(ctx).Model(&EventModel{ID: e.ID}).
		Select("name", "date", "url", "city_id").
		Updates(toEventModel(e)).Error
	if err != nil {
		if isForeignKeyError(err) {
			return event.CityIDNotFound(e.CityID)
		}
		return apperrors.Wrap(err, "Update event failed")
	}
	return nil
}

func toCityEntity(m *CityModel) *event.City {
	return &event.City{ID: m.ID, Name: m.Name}
}

func toEventModel(e *event.Event) *EventModel {
	return &EventModel{
		ID:     e.ID,
		Name:   e.Name,
		Date:   e.Date,
		URL:    e.URL,
		CityID: e.CityID,
	}
}

func toEventEntity(m *EventModel) *event.Event {
	e := &event.Event{
		ID:     m.ID,
		Name:   m.Name,
		Date:   m.Date,
		URL:    m.URL,
		CityID: m.CityID,
	}
	if m.City != nil {
		e.City = toCityEntity(m.City)
	}
	return e
}
