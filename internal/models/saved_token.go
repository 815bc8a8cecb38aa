package models

// SavedToken is a user's bookmark of a token on a chain.
type SavedToken struct {
	ID        string `bson:"id" json:"id"`
	UserID    string `bson:"userId" json:"userId"`
	Name      string `bson:"name" json:"name"`
	Symbol    string `bson:"symbol" json:"symbol"`
	LogoURI   string `bson:"logoURI" json:"logoURI"`
	Chain     string `bson:"chain" json:"chain"`
	UpdatedAt int64  `bson:"updatedAt" json:"updatedAt"`
}

type NewSavedToken struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	LogoURI string `json:"logoURI"`
	Chain   string `json:"chain"`
}
