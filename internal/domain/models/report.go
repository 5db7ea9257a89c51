package models

import "time"

// OccupancyReport is the nightly aggregate persisted for the admin dashboard
// and mirrored to the spreadsheet export.
type OccupancyReport struct {
	Date        time.Time `bson:"date" json:"date"`
	DogsBooked  int       `bson:"dogs_booked" json:"dogs_booked"`
	DogCapacity int       `bson:"dog_capacity" json:"dog_capacity"`
	CatsBooked  int       `bson:"cats_booked" json:"cats_booked"`
	CatCapacity int       `bson:"cat_capacity" json:"cat_capacity"`
	CheckIns    int       `bson:"check_ins" json:"check_ins"`
	CheckOuts   int       `bson:"check_outs" json:"check_outs"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
