// Package events holds the built-in event catalog.
package events

import (
	"fmt"
	"strings"
)

type Event struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Verified    bool    `json:"is_verified"`
	Exclusive   bool    `json:"is_exclusive"`
	Trending    bool    `json:"is_trending"`
}

var catalog = []Event{
	{ID: 1, Title: "Galaxy Gala: An Orchestral Journey", Date: "November 12, 2024", Location: "Celestial Concert Hall", Price: 120,
		Status: "Sold Out", Category: "Ongoing", Description: "A cosmic symphonic experience featuring local campus talent.",
		Verified: true, Exclusive: true, Trending: true},
	{ID: 2, Title: "Cosmic Comedy Jam", Date: "November 5, 2024", Location: "The Laughing Gas", Price: 40,
		Status: "Buy Ticket", Category: "Upcoming", Description: "The funniest stand-up comics from the Computer Science department.",
		Verified: true},
	{ID: 3, Title: "Rock the Cosmos Tour", Date: "December 1, 2024", Location: "Meteor Stadium", Price: 95,
		Status: "Buy Ticket", Category: "Upcoming", Description: "High-energy rock performances with stellar lighting effects.",
		Exclusive: true, Trending: true},
	{ID: 4, Title: "AlgoTix Sound Fest", Date: "October 26, 2024", Location: "Odyssey Arena", Price: 150,
		Status: "Ongoing", Category: "Ongoing", Description: "The biggest music festival on campus with multiple stages.",
		Verified: true, Trending: true},
	{ID: 5, Title: "Quantum Techno Rave", Date: "October 30, 2024", Location: "Subspace Club", Price: 65,
		Status: "Ongoing", Category: "Ongoing", Description: "High-energy deep house and techno until sunrise.",
		Verified: true, Exclusive: true, Trending: true},
	{ID: 6, Title: "Neon Nebula Carnival", Date: "November 20, 2024", Location: "Central Quad", Price: 25,
		Status: "Buy Ticket", Category: "Upcoming", Description: "Fun, games, and street food under futuristic neon lights.",
		Verified: true, Trending: true},
	{ID: 7, Title: "Cyberpunk Art Expo", Date: "October 24, 2024", Location: "Digital Gallery", Price: 15,
		Status: "Ongoing", Category: "Ongoing", Description: "Explore the intersection of AI and campus creativity.",
		Verified: true},
}

// All returns a copy of the catalog in display order.
func All() []Event {
	out := make([]Event, len(catalog))
	copy(out, catalog)
	return out
}

func Find(id int) (Event, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// Summary renders "title at location on date" for every event, comma separated.
func Summary(list []Event) string {
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, fmt.Sprintf("%s at %s on %s", e.Title, e.Location, e.Date))
	}
	return strings.Join(parts, ", ")
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s | %s | %s | %.2f ALGO | %s", e.ID, e.Title, e.Date, e.Location, e.Price, e.Status)
}
