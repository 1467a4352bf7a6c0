package api

type Image struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Hash     string `json:"hash"`
	RawURL   string `json:"raw_url"`
}

type ImageList struct {
	Images []Image `json:"images"`
	Count  int     `json:"count"`
}

type Error struct {
	Error string `json:"error"`
}
