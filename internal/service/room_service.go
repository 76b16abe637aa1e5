package service

import (
	"sort"

	"aula/internal/models"
)

// RoomCatalog serves the room catalog loaded from configuration. The core
// trusts the catalog; it is not a booking concern and has no conflicting
// writers.
type RoomCatalog struct {
	byID   map[string]*models.Room
	sorted []*models.Room
}

func NewRoomCatalog(rooms []models.Room) *RoomCatalog {
	c := &RoomCatalog{byID: make(map[string]*models.Room, len(rooms))}
	for i := range rooms {
		room := rooms[i]
		c.byID[room.ID] = &room
		c.sorted = append(c.sorted, &room)
	}
	sort.Slice(c.sorted, func(i, j int) bool {
		if c.sorted[i].SortOrder == c.sorted[j].SortOrder {
			return c.sorted[i].ID < c.sorted[j].ID
		}
		return c.sorted[i].SortOrder < c.sorted[j].SortOrder
	})
	return c
}

func (c *RoomCatalog) GetActiveRooms() []*models.Room {
	var active []*models.Room
	for _, room := range c.sorted {
		if room.IsActive {
			active = append(active, room)
		}
	}
	return active
}

func (c *RoomCatalog) GetRoomByID(id string) (*models.Room, bool) {
	room, ok := c.byID[id]
	if !ok || !room.IsActive {
		return nil, false
	}
	return room, true
}
