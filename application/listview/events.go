package listview

import (
	"strconv"
	"strings"

	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/pkg/errors"
)

// EventType names a user interaction
type EventType string

const (
	EventText     EventType = "text"
	EventCategory EventType = "category"
	EventDate     EventType = "date"
	EventApply    EventType = "apply"
	EventPage     EventType = "page"
	EventPrev     EventType = "prev"
	EventNext     EventType = "next"
	EventClear    EventType = "clear"
	EventPreset   EventType = "preset"
	EventReload   EventType = "reload"

	EventSearch       EventType = "search"
	EventSearchSubmit EventType = "search_submit"
)

// Event is a user interaction in wire form
type Event struct {
	Type  EventType `json:"type" validate:"required,oneof=text category date apply page prev next clear preset reload search search_submit"`
	Value string    `json:"value"`
}

// Dispatch routes an event to the matching controller operation. It reports
// whether the event changed the visible page for page-navigation events; other
// events always return true on success.
func (c *Controller) Dispatch(ev Event) (bool, error) {
	switch ev.Type {
	case EventText:
		c.TextInput(ev.Value)
		return true, nil
	case EventCategory:
		return true, c.SetCategory(ev.Value)
	case EventDate:
		day, err := parseDay(ev.Value)
		if err != nil {
			return false, err
		}
		return true, c.SetDate(day)
	case EventApply:
		return true, c.Apply()
	case EventPage:
		n, err := strconv.Atoi(strings.TrimSpace(ev.Value))
		if err != nil {
			return false, errors.NewValidationError("page must be a number").WithCause(err)
		}
		return c.GoToPage(n), nil
	case EventPrev:
		return c.PrevPage(), nil
	case EventNext:
		return c.NextPage(), nil
	case EventClear:
		return true, c.ClearFilters()
	case EventPreset:
		return true, c.SetPreset(ev.Value)
	case EventReload:
		c.Reload()
		return true, nil
	case EventSearch:
		return true, c.SearchInput(ev.Value)
	case EventSearchSubmit:
		return true, c.SearchSubmit(ev.Value)
	default:
		return false, errors.NewValidationError("unknown event type " + string(ev.Type))
	}
}

func parseDay(s string) (valueobjects.Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return valueobjects.Day{}, nil
	}
	day, err := valueobjects.ParseDay(s)
	if err != nil {
		return valueobjects.Day{}, errors.NewValidationError("date must use the YYYY-MM-DD layout").WithCause(err)
	}
	return day, nil
}
