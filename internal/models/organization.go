package models

// Organization represents the issuing business shown in a document header.
type Organization struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Website string
	TaxID   string

	// Logo is an optional image reference, stored as a data URI
	// (e.g., "data:image/png;base64,...").
	Logo string
}

// DefaultOrganization returns the placeholder profile used until the
// organization settings are saved for the first time.
func DefaultOrganization() Organization {
	return Organization{
		Name:    "Your Company Name",
		Address: "123 Business Street\nCity, State 12345",
		Phone:   "(555) 123-4567",
		Email:   "info@yourcompany.com",
		Website: "www.yourcompany.com",
		TaxID:   "TAX-123456789",
	}
}

// Currency is a display entry of the currency registry.
type Currency struct {
	// Code is the upper-case currency code (e.g., "USD").
	Code string

	// Label is the name shown in pickers (e.g., "USD ($)").
	Label string

	// Symbol is prefixed to formatted amounts (e.g., "$").
	Symbol string
}
