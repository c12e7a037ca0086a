package domain

// User identifies a participant as the backend reports them. The client
// never sees credentials; it only attributes tickets and edits.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
