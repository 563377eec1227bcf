package model

import "sort"

// Showtime is a scheduled screening of a movie on one screen.
//
// Fields:
//
//	ID          – showtime identifier, sent back when creating a booking.
//	MovieID     – movie being screened.
//	TheaterID   – theater hosting the screening.
//	TheaterName – display name of the theater.
//	ScreenID    – screen inside the theater.
//	ScreenName  – display name of the screen.
//	Date        – ISO-8601 date of the screening.
//	StartTime   – local start time, e.g. "19:30".
//	Price       – base ticket price in VND.
//	Seats       – seat map, only filled by detail endpoints.
type Showtime struct {
	ID          int64  `json:"id"`
	MovieID     int64  `json:"movieId"`
	TheaterID   int64  `json:"theaterId"`
	TheaterName string `json:"theaterName"`
	ScreenID    int64  `json:"screenId"`
	ScreenName  string `json:"screenName"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	Price       int64  `json:"price"`
	Seats       []Seat `json:"seats,omitempty"`
}

// ScreenShowtimes lists the showtimes of one screen.
type ScreenShowtimes struct {
	Screen    Screen     `json:"screen"`
	Showtimes []Showtime `json:"showtimes"`
}

// TheaterShowtimes lists the screens of one theater that have showtimes.
type TheaterShowtimes struct {
	TheaterID   int64             `json:"theaterId"`
	TheaterName string            `json:"theaterName"`
	Screens     []ScreenShowtimes `json:"screens"`
}

// GroupByTheater groups showtimes by theater and then by screen. Theaters
// and screens keep the order of their first appearance; showtimes inside a
// screen are sorted by date and start time.
func GroupByTheater(showtimes []Showtime) []TheaterShowtimes {
	var out []TheaterShowtimes
	theaterIdx := map[int64]int{}
	screenIdx := map[int64]map[int64]int{}
	for _, st := range showtimes {
		ti, ok := theaterIdx[st.TheaterID]
		if !ok {
			ti = len(out)
			theaterIdx[st.TheaterID] = ti
			screenIdx[st.TheaterID] = map[int64]int{}
			out = append(out, TheaterShowtimes{TheaterID: st.TheaterID, TheaterName: st.TheaterName})
		}
		si, ok := screenIdx[st.TheaterID][st.ScreenID]
		if !ok {
			si = len(out[ti].Screens)
			screenIdx[st.TheaterID][st.ScreenID] = si
			out[ti].Screens = append(out[ti].Screens, ScreenShowtimes{
				Screen: Screen{ID: st.ScreenID, TheaterID: st.TheaterID, Name: st.ScreenName},
			})
		}
		out[ti].Screens[si].Showtimes = append(out[ti].Screens[si].Showtimes, st)
	}
	for ti := range out {
		for si := range out[ti].Screens {
			list := out[ti].Screens[si].Showtimes
			sort.SliceStable(list, func(i, j int) bool {
				if list[i].Date != list[j].Date {
					return list[i].Date < list[j].Date
				}
				return list[i].StartTime < list[j].StartTime
			})
		}
	}
	return out
}
