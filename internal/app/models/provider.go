package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Provider is a bookable doctor or lab entity.
//
// SlotsBooked is the slot ledger: date key ("day_month_year") to the list of
// reserved time labels ("HH:MM"). It is mutated only through the provider
// repository's atomic reserve/release operations, never read-modify-write.
type Provider struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Speciality  string              `bson:"speciality" json:"speciality"`
	Fee         float64             `bson:"fee" json:"fee"`
	Available   bool                `bson:"available" json:"available"`
	Address     string              `bson:"address" json:"address"`
	ImageURL    string              `bson:"imageUrl,omitempty" json:"image_url,omitempty"`
	SlotsBooked map[string][]string `bson:"slotsBooked" json:"-"`
	CreatedAt   primitive.DateTime  `bson:"createdAt" json:"-"`
	UpdatedAt   primitive.DateTime  `bson:"updatedAt" json:"-"`
}

// IsSlotBooked reports whether timeLabel is already present under dateKey.
func (p *Provider) IsSlotBooked(dateKey, timeLabel string) bool {
	for _, label := range p.SlotsBooked[dateKey] {
		if label == timeLabel {
			return true
		}
	}
	return false
}
