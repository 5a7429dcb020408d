package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite links a user to a property they bookmarked.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	PropertyID primitive.ObjectID `bson:"property_id" json:"property_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
