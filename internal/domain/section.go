package domain

type Section struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position int32  `json:"position"`
}

type Unit struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
