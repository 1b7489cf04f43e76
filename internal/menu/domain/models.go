package domain

type Prices struct {
	Pequena float64 `json:"pequena"`
	Media   float64 `json:"media"`
	Grande  float64 `json:"grande"`
}

type Pizza struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Prices      Prices   `json:"prices"`
	Image       string   `json:"image"`
	Available   bool     `json:"available"`
}

type Complement struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Available bool    `json:"available"`
}
