package models

import "time"

// Subscription links a subscriber to a recipe author
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubscriberID uint      `json:"subscriber_id" gorm:"index;uniqueIndex:idx_subscriber_author"`
	AuthorID     uint      `json:"author_id" gorm:"index;uniqueIndex:idx_subscriber_author"`
	CreatedAt    time.Time `json:"created_at"`
}
