package models

import "strings"

const (
	TagVerified  = "verified"
	TagCommunity = "community"
)

type TokenExtensions struct {
	CoingeckoID *string `bson:"coingeckoId,omitempty" json:"coingeckoId,omitempty"`
}

type Token struct {
	ID                string          `bson:"id" json:"id"`
	Name              string          `bson:"name" json:"name"`
	Symbol            string          `bson:"symbol" json:"symbol"`
	SymbolLower       string          `bson:"symbolLower" json:"symbolLower"`
	Decimals          int             `bson:"decimals" json:"decimals"`
	Tags              []string        `bson:"tags" json:"tags"`
	LogoURI           string          `bson:"logoURI" json:"logoURI"`
	FreezeAuthority   *string         `bson:"freezeAuthority" json:"freezeAuthority"`
	MintAuthority     *string         `bson:"mintAuthority" json:"mintAuthority"`
	PermanentDelegate *string         `bson:"permanentDelegate" json:"permanentDelegate"`
	Extensions        TokenExtensions `bson:"extensions" json:"extensions"`
	UpdatedAt         int64           `bson:"updatedAt" json:"updatedAt"`
}

type TokenInput struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	Decimals          int             `json:"decimals"`
	Tags              []string        `json:"tags"`
	LogoURI           string          `json:"logoURI"`
	FreezeAuthority   *string         `json:"freezeAuthority"`
	MintAuthority     *string         `json:"mintAuthority"`
	PermanentDelegate *string         `json:"permanentDelegate"`
	Extensions        TokenExtensions `json:"extensions"`
}

// Stamp derives the indexed fields stored next to the input.
func (in TokenInput) Stamp(updatedAt int64) Token {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return Token{
		ID:                in.ID,
		Name:              in.Name,
		Symbol:            in.Symbol,
		SymbolLower:       strings.ToLower(in.Symbol),
		Decimals:          in.Decimals,
		Tags:              tags,
		LogoURI:           in.LogoURI,
		FreezeAuthority:   in.FreezeAuthority,
		MintAuthority:     in.MintAuthority,
		PermanentDelegate: in.PermanentDelegate,
		Extensions:        in.Extensions,
		UpdatedAt:         updatedAt,
	}
}

func (t Token) HasTag(tag string) bool {
	for _, x := range t.Tags {
		if x == tag {
			return true
		}
	}
	return false
}

// PickBySymbol resolves several tokens sharing a symbol: verified first,
// then community, then the first row as returned by the store.
func PickBySymbol(tokens []Token) *Token {
	if len(tokens) == 0 {
		return nil
	}
	for _, tag := range []string{TagVerified, TagCommunity} {
		for i := range tokens {
			if tokens[i].HasTag(tag) {
				return &tokens[i]
			}
		}
	}
	return &tokens[0]
}
