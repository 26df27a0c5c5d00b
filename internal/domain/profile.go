package domain

// InteractionKind is the implicit learning signal emitted by UI actions.
type InteractionKind string

const (
	InteractionLike    InteractionKind = "like"
	InteractionDislike InteractionKind = "dislike"
	InteractionWatch   InteractionKind = "watch"
)

func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch InteractionKind(s) {
	case InteractionLike, InteractionDislike, InteractionWatch:
		return InteractionKind(s), true
	}
	return "", false
}

// RequestKind selects the flavor of a recommendation request.
type RequestKind string

const (
	RequestTrending     RequestKind = "trending"
	RequestPersonalized RequestKind = "personalized"
	RequestMoodBased    RequestKind = "mood-based"
	RequestCultural     RequestKind = "cultural"
)

// ParseRequestKind maps a raw string to a RequestKind, defaulting to
// personalized for anything unrecognized.
func ParseRequestKind(s string) RequestKind {
	switch RequestKind(s) {
	case RequestTrending, RequestMoodBased, RequestCultural:
		return RequestKind(s)
	default:
		return RequestPersonalized
	}
}

// UserProfile is the single long-lived entity of the system. It is
// persisted wholesale under one storage key after every mutation.
type UserProfile struct {
	Age            int            `json:"age"`
	Gender         string         `json:"gender"`
	Country        string         `json:"country"`
	FavoriteGenres []string       `json:"favoriteGenres"`
	WatchHistory   []string       `json:"watchHistory"`
	Ratings        map[string]int `json:"ratings"`
	Languages      []string       `json:"languages"`
	Mood           string         `json:"mood,omitempty"`
}

// DefaultProfile returns the hard-coded profile used when nothing valid
// has been persisted yet.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		Age:            25,
		Gender:         "non-binary",
		Country:        "US",
		FavoriteGenres: []string{"Action", "Drama", "Sci-Fi"},
		WatchHistory:   []string{},
		Ratings:        map[string]int{},
		Languages:      []string{"English"},
		Mood:           "any",
	}
}

// Clone returns a deep copy. Pipeline invocations operate on snapshots so
// concurrent store mutations cannot leak into an in-flight prompt.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.FavoriteGenres = append([]string(nil), p.FavoriteGenres...)
	cp.WatchHistory = append([]string(nil), p.WatchHistory...)
	cp.Languages = append([]string(nil), p.Languages...)
	cp.Ratings = make(map[string]int, len(p.Ratings))
	for k, v := range p.Ratings {
		cp.Ratings[k] = v
	}
	return &cp
}

// ProfileUpdate is a partial profile; nil fields are left untouched by
// Apply. Matches the shallow-merge semantics of profile edits in the UI.
type ProfileUpdate struct {
	Age            *int            `json:"age,omitempty"`
	Gender         *string         `json:"gender,omitempty"`
	Country        *string         `json:"country,omitempty"`
	FavoriteGenres *[]string       `json:"favoriteGenres,omitempty"`
	WatchHistory   *[]string       `json:"watchHistory,omitempty"`
	Ratings        *map[string]int `json:"ratings,omitempty"`
	Languages      *[]string       `json:"languages,omitempty"`
	Mood           *string         `json:"mood,omitempty"`
}

// Apply shallow-merges the update into the profile.
func (p *UserProfile) Apply(u *ProfileUpdate) {
	if u == nil {
		return
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Country != nil {
		p.Country = *u.Country
	}
	if u.FavoriteGenres != nil {
		p.FavoriteGenres = append([]string(nil), (*u.FavoriteGenres)...)
	}
	if u.WatchHistory != nil {
		p.WatchHistory = append([]string(nil), (*u.WatchHistory)...)
	}
	if u.Ratings != nil {
		p.Ratings = make(map[string]int, len(*u.Ratings))
		for k, v := range *u.Ratings {
			p.Ratings[k] = v
		}
	}
	if u.Languages != nil {
		p.Languages = append([]string(nil), (*u.Languages)...)
	}
	if u.Mood != nil {
		p.Mood = *u.Mood
	}
}

// Interaction is a single implicit learning event.
type Interaction struct {
	Title  string          `json:"title"`
	Genres []string        `json:"genres"`
	Kind   InteractionKind `json:"kind"`
}

// RecommendationRequest is the ephemeral input of one pipeline
// invocation. Never persisted.
type RecommendationRequest struct {
	Profile *UserProfile
	Kind    RequestKind
	Count   int
}
