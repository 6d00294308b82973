package models

// Signer is a lawyer who signs the petition.
type Signer struct {
	FullName string `json:"full_name"`
	OAB      string `json:"oab"`
	Role     string `json:"role,omitempty"`
}

// Office is the law firm letterhead.
type Office struct {
	Name           string `json:"name"`
	CNPJ           string `json:"cnpj,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Phone          string `json:"phone,omitempty"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	Slogan         string `json:"slogan,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}
