package transfer

type AyrsharePostRequest struct {
	Post         string   `json:"post"`
	Platforms    []string `json:"platforms"`
	MediaURLs    []string `json:"mediaUrls,omitempty"`
	ScheduleDate string   `json:"scheduleDate,omitempty"`
	IsVideo      bool     `json:"isVideo,omitempty"`
	Title        string   `json:"title,omitempty"`
}

type AyrsharePostError struct {
	Platform string `json:"platform"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
}

type AyrsharePostEntry struct {
	ID       string              `json:"id"`
	Platform string              `json:"platform"`
	Status   string              `json:"status"`
	Errors   []AyrsharePostError `json:"errors"`
	Message  string              `json:"message"`
}

// AyrsharePostResponse covers both response shapes the provider uses: an
// immediate post returns the id at the top level, a scheduled one nests it
// inside posts.
type AyrsharePostResponse struct {
	Status string              `json:"status"`
	ID     string              `json:"id"`
	Posts  []AyrsharePostEntry `json:"posts"`
	Errors []AyrsharePostError `json:"errors"`
}

type AyrshareDeleteRequest struct {
	ID string `json:"id"`
}

type AyrshareHistoryItem struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AyrshareHistoryResponse struct {
	Status  string                `json:"status"`
	History []AyrshareHistoryItem `json:"history"`
}

type AyrshareProfileRequest struct {
	Title string `json:"title"`
}

type AyrshareProfile struct {
	Status     string `json:"status"`
	Title      string `json:"title"`
	RefID      string `json:"refId"`
	ProfileKey string `json:"profileKey"`
}
