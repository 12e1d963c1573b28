package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	Relationships = []string{"Parent", "Spouse", "Child", "Sibling", "Grandparent", "Grandchild", "Other"}

	PetTypes = []string{"Dog", "Cat", "Bird", "Fish", "Rabbit", "Hamster", "Guinea Pig", "Reptile", "Other"}

	MedicalConditions = []string{
		"Diabetes", "Hypertension", "Heart Disease", "Arthritis", "Osteoporosis",
		"Dementia/Alzheimer's", "COPD", "Stroke History", "Cancer History", "Kidney Disease",
		"Depression", "Anxiety", "Vision Problems", "Hearing Problems", "Mobility Issues",
	}

	ContactRelationships = []string{
		"Spouse", "Adult Child", "Sibling", "Parent", "Grandchild", "Friend", "Neighbor", "Caregiver", "Other",
	}

	AppointmentTypes = []string{"Family", "Pet", "Elderly"}

	ServiceTypes = map[string][]string{
		"Family": {
			"General Checkup", "Consultation", "Vaccination", "Physical Therapy",
			"Dental Care", "Eye Exam", "Blood Test", "Follow-up",
		},
		"Pet": {
			"Veterinary Checkup", "Vaccination", "Grooming", "Surgery Consultation",
			"Emergency Care", "Dental Cleaning", "Spay/Neuter", "Microchipping",
		},
		"Elderly": {
			"Geriatric Assessment", "Medication Review", "Physical Therapy", "Memory Assessment",
			"Home Care Consultation", "Mobility Assessment", "Nutrition Counseling", "Health Monitoring",
		},
	}
)

var (
	dogBreeds = []string{
		"Golden Retriever", "Labrador Retriever", "German Shepherd", "Bulldog", "Poodle", "Beagle",
		"Rottweiler", "Yorkshire Terrier", "Boxer", "Siberian Husky", "Mixed Breed", "Other",
	}
	catBreeds = []string{
		"Persian", "Maine Coon", "British Shorthair", "Ragdoll", "Bengal", "Abyssinian",
		"Russian Blue", "Scottish Fold", "Siamese", "American Shorthair", "Mixed Breed", "Other",
	}
)

// BreedsFor lists the breed choices offered for a pet type.
func BreedsFor(petType string) []string {
	switch petType {
	case "Dog":
		return dogBreeds
	case "Cat":
		return catBreeds
	default:
		return []string{"Mixed", "Purebred", "Other", "Unknown"}
	}
}

// CatalogItem is a purchasable service.
type CatalogItem struct {
	ID    int
	Name  string
	Price float64
}

var Catalog = []CatalogItem{
	{ID: 1, Name: "Family Management", Price: 50},
	{ID: 2, Name: "Pet Management", Price: 30},
	{ID: 3, Name: "Elderly Management", Price: 70},
	{ID: 4, Name: "Scheduling", Price: 20},
}

func catalogNames() []string {
	names := make([]string, len(Catalog))
	for i, item := range Catalog {
		names[i] = item.Name
	}
	return names
}

var ownerKeys = []string{"userId", "ownerId", "user_id"}

// nameFromParts synthesizes a display name from first/last name parts.
var nameFromParts = Repair{
	Name:        "name from first and last name",
	Contractual: true,
	Apply: func(record map[string]any, fields Fields) bool {
		if !IsBlank(fields["name"]) {
			return false
		}
		var parts []string
		for _, key := range [][]string{{"firstName", "first_name"}, {"lastName", "last_name"}} {
			for _, k := range key {
				if s := strings.TrimSpace(AsString(record[k])); s != "" {
					parts = append(parts, s)
					break
				}
			}
		}
		if len(parts) == 0 {
			return false
		}
		fields["name"] = strings.Join(parts, " ")
		return true
	},
}

// Family returns the schema of the family member screen.
func Family() Schema {
	return Schema{
		Kind:            KindFamily,
		Singular:        "member",
		Plural:          "members",
		Title:           "member",
		IDCandidates:    []string{"id", "familyMemberId", "memberId"},
		OwnerCandidates: ownerKeys,
		Wrappers:        []string{"members", "familyMembers", "items", "data"},
		Fields: []Field{
			{
				Name:            "name",
				Candidates:      []string{"name", "fullName", "memberName"},
				Required:        true,
				RequiredMessage: "Name is required",
			},
			{
				Name:            "age",
				Type:            TypeInt,
				Candidates:      []string{"age", "memberAge"},
				Required:        true,
				RequiredMessage: "Please enter a valid age (0-150)",
				Default:         0,
				NonNegative:     true,
				Rules:           []Rule{IntRange(0, 150, "Please enter a valid age (0-150)")},
			},
			{
				Name:            "relationship",
				Candidates:      []string{"relationship", "relation", "memberRelation"},
				Required:        true,
				Lenient:         true,
				RequiredMessage: "Relationship is required",
			},
		},
		Repairs: []Repair{
			nameFromParts,
			{
				Name: "relationship from type",
				Apply: func(record map[string]any, fields Fields) bool {
					if !IsBlank(fields["relationship"]) || IsBlank(record["type"]) {
						return false
					}
					fields["relationship"] = AsString(record["type"])
					return true
				},
			},
		},
		Text: Text{
			Added:        "Family member added successfully!",
			Updated:      "Family member updated successfully!",
			Deleted:      "Family member deleted successfully!",
			LoadFailed:   "Failed to load family members",
			SaveFailed:   "An error occurred while managing family member",
			DeleteFailed: "An error occurred while deleting family member",
		},
		Listed: true,
	}
}

// Pet returns the schema of the pet screen.
func Pet() Schema {
	return Schema{
		Kind:            KindPet,
		Singular:        "pet",
		Plural:          "pets",
		Title:           "pet",
		IDCandidates:    []string{"id", "petId"},
		OwnerCandidates: ownerKeys,
		Wrappers:        []string{"members", "pets", "items", "data"},
		Fields: []Field{
			{Name: "name", Candidates: []string{"name", "petName"}, Required: true, RequiredMessage: "Pet name is required"},
			{Name: "type", Candidates: []string{"type", "species", "petType"}, Required: true, RequiredMessage: "Pet type is required"},
			{Name: "breed", Required: true, RequiredMessage: "Breed is required"},
			{
				Name:            "age",
				Type:            TypeInt,
				Candidates:      []string{"age", "petAge"},
				Required:        true,
				RequiredMessage: "Please enter a valid age (0-50 years)",
				Default:         0,
				NonNegative:     true,
				Rules:           []Rule{IntRange(0, 50, "Please enter a valid age (0-50 years)")},
			},
		},
		Repairs: []Repair{nameFromParts},
		Text: Text{
			Added:        "Pet added successfully!",
			Updated:      "Pet updated successfully!",
			Deleted:      "Pet deleted successfully!",
			LoadFailed:   "Failed to load pets",
			SaveFailed:   "An error occurred while managing pet",
			DeleteFailed: "An error occurred while deleting pet",
		},
		Listed: true,
	}
}

// Elderly returns the schema of the elderly care screen.
func Elderly() Schema {
	return Schema{
		Kind:            KindElderly,
		Singular:        "person",
		Plural:          "persons",
		Title:           "person",
		IDCandidates:    []string{"id", "personId", "elderlyId"},
		OwnerCandidates: ownerKeys,
		Wrappers:        []string{"members", "elderly", "elderlyPersons", "persons", "items", "data"},
		Fields: []Field{
			{Name: "name", Candidates: []string{"name", "fullName"}, Required: true, RequiredMessage: "Name is required"},
			{
				Name:            "age",
				Type:            TypeInt,
				Required:        true,
				RequiredMessage: "Please enter a valid age (50-120 years)",
				NonNegative:     true,
				Rules:           []Rule{IntRange(50, 120, "Please enter a valid age (50-120 years)")},
			},
			{
				Name:       "medicalConditions",
				Type:       TypeStrings,
				Candidates: []string{"medicalConditions", "medical_conditions", "conditions"},
			},
			{Name: "additionalNotes", Candidates: []string{"additionalNotes", "notes"}},
			{
				Name:            "emergencyContact.name",
				Candidates:      []string{"emergencyContact.name", "emergency_contact.name", "emergencyContactName"},
				Required:        true,
				RequiredMessage: "Emergency contact name is required",
			},
			{
				Name:            "emergencyContact.relationship",
				Candidates:      []string{"emergencyContact.relationship", "emergency_contact.relationship", "emergencyContactRelationship"},
				Required:        true,
				RequiredMessage: "Relationship is required",
			},
			{
				Name:            "emergencyContact.phone",
				Candidates:      []string{"emergencyContact.phone", "emergency_contact.phone", "emergencyContactPhone"},
				Required:        true,
				RequiredMessage: "Emergency contact phone is required",
				Rules:           []Rule{MinDigits(10, "Please enter a valid phone number")},
			},
			{
				Name:       "emergencyContact.email",
				Candidates: []string{"emergencyContact.email", "emergency_contact.email", "emergencyContactEmail"},
				Rules:      []Rule{Email("Please enter a valid email address")},
			},
		},
		Repairs: []Repair{nameFromParts},
		Text: Text{
			Added:        "Elderly person information added successfully!",
			Updated:      "Elderly person information updated successfully!",
			Deleted:      "Elderly person information deleted successfully!",
			LoadFailed:   "Failed to load elderly persons",
			SaveFailed:   "An error occurred while managing elderly person",
			DeleteFailed: "An error occurred while deleting elderly person",
		},
		Listed: true,
	}
}

// Appointment returns the schema of the scheduling screen. now decides
// which dates count as past.
func Appointment(now func() time.Time) Schema {
	return Schema{
		Kind:            KindAppointment,
		Singular:        "appointment",
		Plural:          "appointments",
		Title:           "appointment",
		IDCandidates:    []string{"id", "appointmentId"},
		OwnerCandidates: ownerKeys,
		Wrappers:        []string{"members", "appointments", "items", "data"},
		Fields: []Field{
			{
				Name:            "appointmentType",
				Candidates:      []string{"appointmentType", "type"},
				Required:        true,
				RequiredMessage: "Appointment type is required",
				Rules:           []Rule{OneOf("Appointment type is required", AppointmentTypes...)},
			},
			{
				Name:            "selectedPerson",
				Candidates:      []string{"selectedPerson", "personId", "selected_person"},
				Required:        true,
				RequiredMessage: "Please select a person",
			},
			{
				Name:            "date",
				Candidates:      []string{"date", "appointmentDate"},
				Required:        true,
				RequiredMessage: "Date is required",
				Rules:           []Rule{DateNotPast(now, "Please enter a valid date", "Date cannot be in the past")},
			},
			{
				Name:            "time",
				Candidates:      []string{"time", "appointmentTime"},
				Required:        true,
				RequiredMessage: "Time is required",
				Rules:           []Rule{TimeOfDay("Please enter a valid time")},
			},
			{
				Name:            "serviceType",
				Candidates:      []string{"serviceType", "service"},
				Required:        true,
				RequiredMessage: "Service type is required",
			},
			{Name: "notes"},
		},
		Text: Text{
			Added:        "Appointment scheduled successfully!",
			Updated:      "Appointment updated successfully!",
			Deleted:      "Appointment cancelled successfully!",
			DeletedInfo:  true,
			LoadFailed:   "Failed to load appointments",
			SaveFailed:   "An error occurred while scheduling appointment",
			DeleteFailed: "An error occurred while cancelling appointment",
		},
		Listed: true,
	}
}

// Payment returns the schema of the submit-only payment form. The payload
// carries the card's last four digits, never the full number or the CVV.
func Payment(now func() time.Time) Schema {
	return Schema{
		Kind:     KindPayment,
		Singular: "payment",
		Plural:   "payments",
		Title:    "payment",
		Fields: []Field{
			{
				Name:            "service",
				Required:        true,
				RequiredMessage: "Please select a service",
				Rules:           []Rule{OneOf("Please select a service", catalogNames()...)},
			},
			{
				Name:            "cardNumber",
				Required:        true,
				RequiredMessage: "Card number is required",
				Rules:           []Rule{DigitCount(13, 19, "Please enter a valid card number (13-19 digits)")},
				Normalize:       GroupCardNumber,
			},
			{
				Name:            "expiryDate",
				Required:        true,
				RequiredMessage: "Expiry date is required",
				Rules:           []Rule{CardExpiry(now, "Please enter expiry date in MM/YY format", "Invalid month", "Card has expired")},
				Normalize:       FormatExpiry,
			},
			{
				Name:            "cvv",
				Required:        true,
				RequiredMessage: "CVV is required",
				Rules:           []Rule{DigitCount(3, 4, "CVV must be 3 or 4 digits")},
				Normalize:       FormatCVV,
			},
			{
				Name:            "nameOnCard",
				Required:        true,
				RequiredMessage: "Name on card is required",
				Rules:           []Rule{MinLength(2, "Please enter a valid name")},
				Normalize:       FormatCardName,
			},
		},
		Text: Text{
			Added:      "Payment processed successfully!",
			SaveFailed: "Payment processing failed. Please try again.",
		},
		Prepare: func(payload map[string]any, draft Fields) {
			digits := digitsOf(draft.String("cardNumber"))
			service := payload["service"]
			for k := range payload {
				delete(payload, k)
			}
			payload["service"] = service
			payload["method"] = "credit_card"
			payload["transactionId"] = uuid.NewString()
			if len(digits) >= 4 {
				payload["cardLast4"] = digits[len(digits)-4:]
			}
			for _, item := range Catalog {
				if item.Name == service {
					payload["amount"] = item.Price
				}
			}
		},
	}
}
