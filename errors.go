package htstore

// StoreError classifies user-management failures with the HTTP-equivalent
// status code embedding hosts map them to. Authentication failures are
// deliberately not part of this taxonomy: Authenticate reports a plain
// false for both "no such user" and "wrong password" so callers cannot
// enumerate usernames.
type StoreError struct {
	Code    int
	Message string
}

func (e *StoreError) Error() string { return e.Message }

var (
	// ErrMissingInput rejects an empty username or password.
	ErrMissingInput = &StoreError{Code: 400, Message: "username and password is required"}

	// ErrUnauthorized rejects re-registration of an existing user when
	// the supplied password does not match the stored hash.
	ErrUnauthorized = &StoreError{Code: 401, Message: "unauthorized access"}

	// ErrMaxUsers rejects registration once the configured user limit is
	// reached.
	ErrMaxUsers = &StoreError{Code: 403, Message: "maximum amount of users reached"}

	// ErrUserExists rejects re-registration of an existing user with the
	// correct password.
	ErrUserExists = &StoreError{Code: 409, Message: "username is already registered"}

	// ErrNotURISafe rejects usernames that differ from their own
	// percent-encoding.
	ErrNotURISafe = &StoreError{Code: 409, Message: "username contains illegal characters"}
)
