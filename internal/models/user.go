package models

// User is keyed by the external identity id (Privy DID). CreatedAt and
// UpdatedAt are milliseconds since the epoch.
type User struct {
	ID        string `bson:"id" json:"id"`
	Username  string `bson:"username" json:"username"`
	CreatedAt int64  `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64  `bson:"updatedAt" json:"updatedAt"`
}

type NewUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
