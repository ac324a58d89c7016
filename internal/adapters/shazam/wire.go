package shazam

type searchResponse struct {
	Status bool         `json:"status"`
	Result searchResult `json:"result"`
}

type searchResult struct {
	Tracks searchTracks `json:"tracks"`
}

type searchTracks struct {
	Hits []trackHit `json:"hits"`
	Next string     `json:"next"`
}

type trackHit struct {
	Key     string      `json:"key"`
	Heading heading     `json:"heading"`
	Images  images      `json:"images"`
	Stores  stores      `json:"stores"`
	Share   share       `json:"share"`
	Artists []hitArtist `json:"artists"`
	URL     string      `json:"url"`
}

type heading struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type images struct {
	Default string `json:"default"`
	Blurred string `json:"blurred"`
	Play    string `json:"play"`
}

type stores struct {
	Apple store `json:"apple"`
}

type store struct {
	Actions []storeAction `json:"actions"`
}

type storeAction struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type share struct {
	Href string `json:"href"`
}

type hitArtist struct {
	Alias string `json:"alias"`
	ID    string `json:"id"`
}
