package core

// Identity identifies the author of a transaction. It becomes the Git commit
// author, which is how attribution rides on the log without any per-revision
// bookkeeping.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
