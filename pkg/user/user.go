package user

// User is a local profile. Uid is the stable external identifier presented
// in the X-User-Id header; Id is the local row id the rest of the code
// keys on.
type User struct {
	Id        int
	Uid       string
	Email     string
	FirstName string
	LastName  string
	// Currency is the ISO 4217 code used when formatting amounts for this
	// user. Empty means the configured default.
	Currency string
}
