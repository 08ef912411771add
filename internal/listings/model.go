package listings

// Listing is a sample dentist record. Listings are loaded once and never mutated.
type Listing struct {
	ID                   string   `json:"id" yaml:"id"`
	Name                 string   `json:"name" yaml:"name"`
	Practice             string   `json:"practice" yaml:"practice"`
	Specialty            string   `json:"specialty" yaml:"specialty"`
	Rating               float64  `json:"rating" yaml:"rating"`
	ReviewCount          int      `json:"review_count" yaml:"review_count"`
	Address              string   `json:"address" yaml:"address"`
	City                 string   `json:"city" yaml:"city"`
	State                string   `json:"state" yaml:"state"`
	Zip                  string   `json:"zip" yaml:"zip"`
	Phone                string   `json:"phone" yaml:"phone"`
	Latitude             float64  `json:"latitude" yaml:"latitude"`
	Longitude            float64  `json:"longitude" yaml:"longitude"`
	Insurance            []string `json:"accepted_insurance" yaml:"insurance"`
	NetworkMember        bool     `json:"network_member" yaml:"network_member"`
	AcceptingNewPatients bool     `json:"accepting_new_patients" yaml:"accepting_new_patients"`
	NextAvailable        string   `json:"next_available" yaml:"next_available"`
}

// FullAddress joins the street address with city, state and zip.
func (l Listing) FullAddress() string {
	addr := l.Address
	if l.City != "" {
		addr += ", " + l.City
	}
	if l.State != "" {
		addr += ", " + l.State
	}
	if l.Zip != "" {
		addr += " " + l.Zip
	}
	return addr
}

// AcceptsInsurance reports whether the carrier is on the accepted list.
func (l Listing) AcceptsInsurance(carrier string) bool {
	for _, c := range l.Insurance {
		if equalFold(c, carrier) {
			return true
		}
	}
	return false
}
