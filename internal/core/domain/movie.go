package domain

// Genre classifies a movie.
type Genre struct {
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
}

// Director is the person credited with directing a movie.
type Director struct {
	Name  string `json:"name" bson:"name"`
	Bio   string `json:"bio" bson:"bio"`
	Birth string `json:"birth,omitempty" bson:"birth,omitempty"`
	Death string `json:"death,omitempty" bson:"death,omitempty"`
}

// Movie is a catalog entry.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       Genre    `json:"genre"`
	Director    Director `json:"director"`
	Actors      []string `json:"actors"`
	ImageURL    string   `json:"image_url"`
	Featured    bool     `json:"featured"`
}
