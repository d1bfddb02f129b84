package verdict

// Status is the coarse label attached to a completion.
type Status string

const (
	Verified Status = "verified"
	Neutral  Status = "neutral"
)

// Verdict is the body of a successful check response.
type Verdict struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}
