package event

import (
	"context"

	"github.com/xiebiao/catalog/pkg/pagination"
)

type CityRepository interface {
	// FindAll returns every city ordered by name.
	FindAll(ctx context.Context) ([]*City, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, city *City) error
}

type Repository interface {
	// List binds a paged list of events with their city.
	// Sort fields: id (default), name, date.
	List() pagination.Query[uint, *Event]

	FindByID(ctx context.Context, id uint) (*Event, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
}
