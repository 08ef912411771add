package validation

// SelfPay is the booking insurance choice for patients paying out of pocket.
const SelfPay = "self-pay"

// BookingContact is the final booking step: who the appointment is for.
var BookingContact = NewSchema("booking_contact",
	Field{Name: "firstName", Label: "First name", Rules: []Rule{Required(), MaxLength(50)}},
	Field{Name: "lastName", Label: "Last name", Rules: []Rule{Required(), MaxLength(50)}},
	Field{Name: "email", Label: "Email", Rules: []Rule{Required(), Email(), MaxLength(254)}},
	Field{Name: "phone", Label: "Phone", Rules: []Rule{Required(), Phone()}},
	Field{Name: "reason", Label: "Reason for visit", Rules: []Rule{MaxLength(500)}},
)

// InsuranceSubscriber is the eligibility check form.
var InsuranceSubscriber = NewSchema("insurance_subscriber",
	Field{Name: "carrier", Label: "Insurance carrier", Rules: []Rule{Required(), MaxLength(100)}},
	Field{Name: "zip", Label: "Zip code", Rules: []Rule{Required(), ZipCode()}},
	Field{Name: "memberId", Label: "Member ID", Rules: []Rule{MaxLength(30)}},
	Field{Name: "subscriberName", Label: "Subscriber name", Rules: []Rule{MaxLength(100)}},
	Field{Name: "dateOfBirth", Label: "Date of birth", Rules: []Rule{Date()}},
)

// PracticeEnrollment is the directory sign-up form for dental practices.
var PracticeEnrollment = NewSchema("practice_enrollment",
	Field{Name: "practiceName", Label: "Practice name", Rules: []Rule{Required(), MaxLength(100)}},
	Field{Name: "contactName", Label: "Contact name", Rules: []Rule{Required(), MaxLength(100)}},
	Field{Name: "email", Label: "Email", Rules: []Rule{Required(), Email(), MaxLength(254)}},
	Field{Name: "phone", Label: "Phone", Rules: []Rule{Required(), Phone()}},
	Field{Name: "address", Label: "Street address", Rules: []Rule{Required(), MaxLength(200)}},
	Field{Name: "city", Label: "City", Rules: []Rule{Required(), MaxLength(100)}},
	Field{Name: "state", Label: "State", Rules: []Rule{Required(), Letters(2)}},
	Field{Name: "zip", Label: "Zip code", Rules: []Rule{Required(), ZipCode()}},
	Field{Name: "acceptingNewPatients", Label: "Accepting new patients", Rules: []Rule{Required(), OneOf("yes", "no")}},
	Field{Name: "website", Label: "Website", Rules: []Rule{MaxLength(200)}},
	Field{Name: "message", Label: "Message", Rules: []Rule{MaxLength(1000)}},
)

// ZipLookup is the single-field zipcode search form.
var ZipLookup = NewSchema("zip_lookup",
	Field{Name: "zip", Label: "Zip code", Rules: []Rule{Required(), ZipCode()}},
)
