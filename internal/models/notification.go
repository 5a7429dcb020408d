package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a message addressed to a fixed set of recipients. The
// recipient list is set once at creation; delivery and token cleanup never
// touch it. ReadBy maps a recipient's hex id to the time they acknowledged
// the notification; a missing key means unread.
type Notification struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Message     string               `bson:"message" json:"message"`
	Recipients  []primitive.ObjectID `bson:"recipients" json:"recipients"`
	RelatedItem *primitive.ObjectID  `bson:"related_item,omitempty" json:"related_item,omitempty"`
	ReadBy      map[string]time.Time `bson:"read_by,omitempty" json:"read_by,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}
