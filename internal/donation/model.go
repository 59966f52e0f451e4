package donation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation is one ledger entry. Records are append-only: nothing in the API
// updates or deletes them.
type Donation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonorName   string             `bson:"donor_name" json:"donorName"`
	Item        string             `bson:"item" json:"item"`
	Value       *float64           `bson:"value,omitempty" json:"value,omitempty"`
	Message     *string            `bson:"message,omitempty" json:"message,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	SubmittedBy primitive.ObjectID `bson:"submitted_by" json:"-"`
}

// Submitter is the public slice of the user who recorded a donation.
type Submitter struct {
	FirstName string `json:"firstName"`
	Role      string `json:"role"`
}

// Resolved pairs a donation with its submitter, looked up at read time.
// Submitter is nil when the referenced user no longer exists.
type Resolved struct {
	Donation
	Submitter *Submitter `json:"submittedBy"`
}
