package activity

// ListActivityRequest asks for the activity of one owner.
type ListActivityRequest struct {
	OwnerID string `json:"owner_id"`
}

// ListActivityResponse carries the owner's entries, newest first.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
}
