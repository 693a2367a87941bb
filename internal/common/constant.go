package common

// Keys under which accountkeeper keeps its state in the key-value store.
const (
	// UsersKey holds the serialized collection of registered accounts.
	UsersKey = "account_manager_users"

	// SessionKey holds the email of the currently signed-in account.
	SessionKey = "account_manager_session"
)
