package present

import "net/url"

// BuildMapsURL builds a Google Maps direction preview link for one leg.
// Generated client-side; no network involved.
func BuildMapsURL(start, end string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", start)
	q.Set("destination", end)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}
