// Package bookingparams encodes and decodes the booking selection that the
// wizard pages hand to each other through the URL query string.
//
// The wire format is:
//
//	seats=A1:90000,A2:90000
//	food=12:B%E1%BA%AFp%20rang:2,15:Coca:1
//
// Every free-text field inside a list entry (seat names and food names) is
// percent-encoded before joining, so names may contain ':' or ','.
package bookingparams

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Query keys of the booking URL contract.
const (
	KeyStep          = "step"
	KeyMovieTitle    = "movieTitle"
	KeyTheaterName   = "theaterName"
	KeyShowtime      = "showtime"
	KeyShowtimeID    = "showtimeId"
	KeyDate          = "date"
	KeySeats         = "seats"
	KeyFood          = "food"
	KeyPaymentMethod = "paymentMethod"
)

const (
	listSep  = ","
	fieldSep = ":"
)

// Seat is a chosen seat with the ticket price snapshotted when it was picked.
// Prices are whole VND.
type Seat struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// FoodLine is one food item of a selection. Quantity is always positive.
type FoodLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Food maps a food inventory id to its selected line.
type Food map[int64]FoodLine

// FoodItem is the flattened form of a Food entry.
type FoodItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Items returns the food lines ordered by id.
func (f Food) Items() []FoodItem {
	ids := make([]int64, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]FoodItem, 0, len(ids))
	for _, id := range ids {
		line := f[id]
		out = append(out, FoodItem{ID: id, Name: line.Name, Quantity: line.Quantity})
	}
	return out
}

// Clone returns a copy of the map so callers can mutate it safely.
func (f Food) Clone() Food {
	out := make(Food, len(f))
	for id, line := range f {
		out[id] = line
	}
	return out
}

// Selection is the accumulated booking choice carried between wizard steps.
type Selection struct {
	MovieTitle    string `json:"movieTitle"`
	TheaterName   string `json:"theaterName"`
	Showtime      string `json:"showtime"`
	ShowtimeID    int64  `json:"showtimeId"`
	Date          string `json:"date"`
	Seats         []Seat `json:"seats"`
	Food          Food   `json:"food"`
	PaymentMethod string `json:"paymentMethod"`
}

// TicketTotal sums the carried seat prices. Negative prices count as zero.
func (s Selection) TicketTotal() int64 {
	var total int64
	for _, seat := range s.Seats {
		if seat.Price > 0 {
			total += seat.Price
		}
	}
	return total
}

// EscapeComponent percent-encodes s the way browsers encode a URI component:
// spaces become %20 and every reserved character, ':' and ',' included, is escaped.
func EscapeComponent(s string) string {
	// QueryEscape already turns a literal '+' into %2B, so any '+' left is a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// unescapeComponent reverses EscapeComponent. Malformed escapes are kept verbatim.
func unescapeComponent(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

// EncodeSeats joins name:price pairs with ','.
func EncodeSeats(seats []Seat) string {
	parts := make([]string, 0, len(seats))
	for _, seat := range seats {
		parts = append(parts, EscapeComponent(seat.Name)+fieldSep+strconv.FormatInt(seat.Price, 10))
	}
	return strings.Join(parts, listSep)
}

// EncodeFood joins id:name:quantity triples with ',' in id order. Lines
// without a positive quantity are skipped.
func EncodeFood(food Food) string {
	items := food.Items()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		parts = append(parts, strconv.FormatInt(it.ID, 10)+fieldSep+EscapeComponent(it.Name)+fieldSep+strconv.Itoa(it.Quantity))
	}
	return strings.Join(parts, listSep)
}

// DecodeSeats parses the seats value. A missing or malformed price decodes to 0.
func DecodeSeats(raw string) []Seat {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	entries := strings.Split(raw, listSep)
	seats := make([]Seat, 0, len(entries))
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		name, price, _ := strings.Cut(entry, fieldSep)
		seats = append(seats, Seat{Name: unescapeComponent(name), Price: lenientInt(price)})
	}
	return seats
}

// DecodeFood parses the food value. Entries whose quantity is not positive
// are dropped.
func DecodeFood(raw string) Food {
	food := Food{}
	if strings.TrimSpace(raw) == "" {
		return food
	}
	for _, entry := range strings.Split(raw, listSep) {
		fields := strings.SplitN(entry, fieldSep, 3)
		if len(fields) != 3 {
			continue
		}
		qty := int(lenientInt(fields[2]))
		if qty <= 0 {
			continue
		}
		food[lenientInt(fields[0])] = FoodLine{Name: unescapeComponent(fields[1]), Quantity: qty}
	}
	return food
}

// lenientInt reads the leading integer of s and ignores any trailing garbage.
// Input with no leading digits yields 0.
func lenientInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Param is one decoded query value: Raw is the percent-decoded string and
// Value is its JSON interpretation, or Raw itself when it is not JSON.
type Param struct {
	Raw   string
	Value any
}

// Values is the generic decoding of a booking URL.
type Values map[string]Param

// String returns the raw decoded value of key, or "".
func (v Values) String(key string) string {
	return v[key].Raw
}

// Get returns the interpreted value of key, or nil.
func (v Values) Get(key string) any {
	return v[key].Value
}

// ParseQuery splits the query string off rawURL and decodes each value. '+'
// is read as a space, the value is percent-decoded and then parsed as JSON
// when possible. The food key is always decoded into a Food map.
func ParseQuery(rawURL string) (Values, error) {
	query := rawURL
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	if i := strings.IndexByte(query, '?'); i >= 0 {
		query = query[i+1:]
	}
	out := Values{}
	if query == "" {
		return out, nil
	}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, err
		}
		val := strings.ReplaceAll(rawVal, "+", " ")
		if dec, err := url.PathUnescape(val); err == nil {
			val = dec
		}
		if key == KeyFood {
			out[key] = Param{Raw: val, Value: DecodeFood(val)}
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(val), &parsed); err != nil {
			parsed = val
		}
		out[key] = Param{Raw: val, Value: parsed}
	}
	return out, nil
}

// Decode reads a typed Selection from a booking URL or bare query string.
func Decode(rawURL string) (Selection, error) {
	v, err := ParseQuery(rawURL)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{
		MovieTitle:    v.String(KeyMovieTitle),
		TheaterName:   v.String(KeyTheaterName),
		Showtime:      v.String(KeyShowtime),
		ShowtimeID:    lenientInt(v.String(KeyShowtimeID)),
		Date:          v.String(KeyDate),
		Seats:         DecodeSeats(v.String(KeySeats)),
		PaymentMethod: v.String(KeyPaymentMethod),
	}
	if food, ok := v.Get(KeyFood).(Food); ok {
		sel.Food = food
	} else {
		sel.Food = Food{}
	}
	return sel, nil
}

// Encode serializes the selection into query values. Empty fields are omitted.
func (s Selection) Encode() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(KeyMovieTitle, s.MovieTitle)
	set(KeyTheaterName, s.TheaterName)
	set(KeyShowtime, s.Showtime)
	if s.ShowtimeID != 0 {
		q.Set(KeyShowtimeID, strconv.FormatInt(s.ShowtimeID, 10))
	}
	set(KeyDate, s.Date)
	set(KeySeats, EncodeSeats(s.Seats))
	set(KeyFood, EncodeFood(s.Food))
	set(KeyPaymentMethod, s.PaymentMethod)
	return q
}

// URL builds path?query for the selection.
func (s Selection) URL(path string) string {
	q := s.Encode().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}
