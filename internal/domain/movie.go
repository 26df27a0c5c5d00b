package domain

// TMDB gender codes (industry convention).
const (
	GenderFemale = 1
	GenderMale   = 2
)

// Movie is a catalog entry as returned by TMDB list endpoints.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

type SpokenLanguage struct {
	ISO639 string `json:"iso_639_1"`
	Name   string `json:"name"`
}

type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Gender    int    `json:"gender"`
}

type CrewMember struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Job    string `json:"job"`
	Gender int    `json:"gender"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetails is a Movie enriched with the detail and credits endpoints.
type MovieDetails struct {
	Movie
	Genres              []Genre             `json:"genres"`
	Runtime             int                 `json:"runtime"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages"`
	Credits             *Credits            `json:"credits,omitempty"`
}

// FairnessReport is the arithmetic diversity audit computed from catalog
// metadata. Scores are 0-100.
type FairnessReport struct {
	DiversityScore         int      `json:"diversityScore"`
	GenderBalance          int      `json:"genderBalance"`
	CulturalRepresentation int      `json:"culturalRepresentation"`
	FairnessTags           []string `json:"fairnessTags"`
}
