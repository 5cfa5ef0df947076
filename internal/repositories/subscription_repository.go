package repositories

import (
	"errors"

	"github.com/avolkov-dev/recipehub/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for the social graph
type SubscriptionRepository interface {
	CreateSubscription(subscriberID, authorID uint) error
	DeleteSubscription(subscriberID, authorID uint) error
	IsSubscribed(subscriberID, authorID uint) (bool, error)
	GetSubscribedAuthors(subscriberID uint, offset, limit int) ([]models.User, error)
	CountSubscriptions(subscriberID uint) (int64, error)
	GetSubscribedAuthorIDs(subscriberID uint, authorIDs []uint) (map[uint]bool, error)
}

// PostgresSubscriptionRepository implements SubscriptionRepository for PostgreSQL
type PostgresSubscriptionRepository struct {
	db *gorm.DB
}

// NewPostgresSubscriptionRepository creates a new PostgresSubscriptionRepository
func NewPostgresSubscriptionRepository(db *gorm.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

// CreateSubscription inserts a (subscriber, author) row. A duplicate insert,
// whether caught by the pre-check or by the unique index, comes back as
// ErrAlreadySubscribed.
func (r *PostgresSubscriptionRepository) CreateSubscription(subscriberID, authorID uint) error {
	subscribed, err := r.IsSubscribed(subscriberID, authorID)
	if err != nil {
		return err
	}
	if subscribed {
		return ErrAlreadySubscribed
	}

	sub := models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}
	if err := r.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySubscribed
		}
		return err
	}
	return nil
}

func (r *PostgresSubscriptionRepository) DeleteSubscription(subscriberID, authorID uint) error {
	res := r.db.Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (r *PostgresSubscriptionRepository) IsSubscribed(subscriberID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresSubscriptionRepository) GetSubscribedAuthors(subscriberID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Subscription{}).Select("author_id").Where("subscriber_id = ?", subscriberID),
	).Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *PostgresSubscriptionRepository) CountSubscriptions(subscriberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&count).Error
	return count, err
}

// GetSubscribedAuthorIDs reports which of the given authors the subscriber
// follows, for is_subscribed enrichment of list responses.
func (r *PostgresSubscriptionRepository) GetSubscribedAuthorIDs(subscriberID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(authorIDs) == 0 {
		return result, nil
	}
	var subs []models.Subscription
	err := r.db.Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		result[s.AuthorID] = true
	}
	return result, nil
}
