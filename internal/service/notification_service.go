package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/expo"
	"github.com/Mohammedcode007/ByoutBackNew/internal/metrics"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
)

// Actor identifies the authenticated caller for a request.
type Actor struct {
	ID   primitive.ObjectID
	Role models.Role
}

// DispatchInput is the validated payload of a broadcast request.
type DispatchInput struct {
	Title         string
	Message       string
	RecipientIDs  []string
	RelatedItemID string
}

// DispatchSummary counts per-token push outcomes. It is advisory: the
// request itself succeeds or fails independently of these numbers.
type DispatchSummary struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// RecipientView and PropertyView carry the expanded fields the admin listing
// attaches in place of raw ids.
type RecipientView struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Phone string             `json:"phone,omitempty"`
}

type PropertyView struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
	Type  string             `json:"type"`
	Price float64            `json:"price"`
}

type NotificationView struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	Message     string               `json:"message"`
	Recipients  []RecipientView      `json:"recipients,omitempty"`
	RelatedItem *PropertyView        `json:"related_item,omitempty"`
	ReadBy      map[string]time.Time `json:"read_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

type notificationRepo interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	FindAll(ctx context.Context) ([]models.Notification, error)
	FindByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string, userID primitive.ObjectID, at time.Time) (*models.Notification, error)
	Delete(ctx context.Context, id string) error
}

type userStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ClearDeviceTokens(ctx context.Context, tokens []string) (int64, error)
}

type propertyStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
}

type pusher interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) expo.Result
}

type NotificationService struct {
	notifications notificationRepo
	users         userStore
	properties    propertyStore
	push          pusher
	log           *zap.Logger
}

func NewNotificationService(n notificationRepo, u userStore, p propertyStore, push pusher, log *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: n,
		users:         u,
		properties:    p,
		push:          push,
		log:           log,
	}
}

// Dispatch runs the full broadcast pipeline: authorize, validate, persist,
// resolve device tokens, deliver, reconcile invalid tokens. Per-token
// delivery failures end up in the summary; only persistence and
// reconciliation failures fail the request.
func (s *NotificationService) Dispatch(ctx context.Context, actor Actor, in DispatchInput) (*models.Notification, DispatchSummary, error) {
	var summary DispatchSummary

	if !models.CanManageNotifications(actor.Role) {
		return nil, summary, fmt.Errorf("%w: role %q cannot send notifications", apperrors.ErrForbidden, actor.Role)
	}
	if in.Title == "" || in.Message == "" || len(in.RecipientIDs) == 0 {
		return nil, summary, fmt.Errorf("%w: title, message and recipients are required", apperrors.ErrBadRequest)
	}

	recipients := make([]primitive.ObjectID, 0, len(in.RecipientIDs))
	for _, id := range in.RecipientIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, summary, fmt.Errorf("%w: invalid recipient id %q", apperrors.ErrBadRequest, id)
		}
		recipients = append(recipients, objID)
	}

	var relatedItem *primitive.ObjectID
	if in.RelatedItemID != "" {
		objID, err := primitive.ObjectIDFromHex(in.RelatedItemID)
		if err != nil {
			return nil, summary, fmt.Errorf("%w: invalid related item id", apperrors.ErrBadRequest)
		}
		relatedItem = &objID
	}

	// The record keeps the recipient list as requested, token or not:
	// recipients without a device still see the notification in their feed.
	created, err := s.notifications.Create(ctx, &models.Notification{
		Title:       in.Title,
		Message:     in.Message,
		Recipients:  recipients,
		RelatedItem: relatedItem,
	})
	if err != nil {
		return nil, summary, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	tokens, err := s.resolveTokens(ctx, recipients)
	if err != nil {
		return nil, summary, fmt.Errorf("%w: resolve device tokens: %v", apperrors.ErrInternal, err)
	}
	if len(tokens) == 0 {
		return created, summary, nil
	}

	res := s.push.Send(ctx, tokens, in.Title, in.Message, map[string]string{
		"notification_id": created.ID.Hex(),
	})
	summary.Sent = len(res.Delivered)
	summary.Failed = len(res.Failed)
	metrics.PushesSent.Add(float64(summary.Sent))
	metrics.PushesFailed.Add(float64(summary.Failed))

	if err := s.reconcile(ctx, res.Failed); err != nil {
		return nil, summary, fmt.Errorf("%w: reconcile device tokens: %v", apperrors.ErrInternal, err)
	}

	s.log.Info("notification dispatched",
		zap.String("id", created.ID.Hex()),
		zap.Int("recipients", len(recipients)),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed))
	return created, summary, nil
}

// resolveTokens maps recipients to their registered device tokens.
// Recipients without a token are simply left out.
func (s *NotificationService) resolveTokens(ctx context.Context, recipients []primitive.ObjectID) ([]string, error) {
	users, err := s.users.FindByIDs(ctx, recipients)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, u := range users {
		if u.DeviceToken != "" {
			tokens = append(tokens, u.DeviceToken)
		}
	}
	return tokens, nil
}

// invalidMarkers are the provider phrases that mark a token as permanently
// dead rather than temporarily undeliverable.
var invalidMarkers = []string{
	"device not registered",
	"not registered",
	"invalid",
	"unknown token",
}

func isInvalidToken(o expo.Outcome) bool {
	if o.Transient {
		return false
	}
	raw := strings.ToLower(o.Raw)
	for _, marker := range invalidMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}

// reconcile clears device tokens the gateway reported as invalid. Transient
// failures are left alone. A failing clear-write is surfaced: stale tokens
// silently piling up is worse than a failed request.
func (s *NotificationService) reconcile(ctx context.Context, failed []expo.Outcome) error {
	seen := make(map[string]struct{})
	var tokens []string
	for _, o := range failed {
		if !isInvalidToken(o) {
			continue
		}
		if _, ok := seen[o.Token]; ok {
			continue
		}
		seen[o.Token] = struct{}{}
		tokens = append(tokens, o.Token)
	}
	if len(tokens) == 0 {
		return nil
	}

	cleared, err := s.users.ClearDeviceTokens(ctx, tokens)
	if err != nil {
		return err
	}
	metrics.TokensInvalidated.Add(float64(len(tokens)))
	s.log.Info("cleared invalid device tokens",
		zap.Int("tokens", len(tokens)),
		zap.Int64("users", cleared))
	return nil
}

// ListAll returns every notification, newest first, with recipients and the
// related property expanded. Admin and owner only.
func (s *NotificationService) ListAll(ctx context.Context, actor Actor) ([]NotificationView, error) {
	if !models.CanManageNotifications(actor.Role) {
		return nil, fmt.Errorf("%w: role %q cannot list all notifications", apperrors.ErrForbidden, actor.Role)
	}

	notifications, err := s.notifications.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, notifications, true)
}

// ListForUser returns the feed for the given user, or the caller when userID
// is empty. Non-managers may only read their own feed.
func (s *NotificationService) ListForUser(ctx context.Context, actor Actor, userID string) ([]NotificationView, error) {
	target := actor.ID
	if userID != "" {
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid user id", apperrors.ErrBadRequest)
		}
		if objID != actor.ID && !models.CanManageNotifications(actor.Role) {
			return nil, fmt.Errorf("%w: cannot read another user's notifications", apperrors.ErrForbidden)
		}
		target = objID
	}

	notifications, err := s.notifications.FindByRecipient(ctx, target)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, notifications, false)
}

// MarkRead acknowledges the notification for the caller.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id string) (*models.Notification, error) {
	return s.notifications.MarkRead(ctx, id, actor.ID, time.Now().UTC())
}

// Delete hard-deletes a notification. Admin and owner only.
func (s *NotificationService) Delete(ctx context.Context, actor Actor, id string) error {
	if !models.CanManageNotifications(actor.Role) {
		return fmt.Errorf("%w: role %q cannot delete notifications", apperrors.ErrForbidden, actor.Role)
	}
	return s.notifications.Delete(ctx, id)
}

// expand joins recipients (optionally) and related properties onto the
// notification list in two bulk reads.
func (s *NotificationService) expand(ctx context.Context, notifications []models.Notification, withRecipients bool) ([]NotificationView, error) {
	userIDs := make(map[primitive.ObjectID]struct{})
	propertyIDs := make(map[primitive.ObjectID]struct{})
	for _, n := range notifications {
		if withRecipients {
			for _, r := range n.Recipients {
				userIDs[r] = struct{}{}
			}
		}
		if n.RelatedItem != nil {
			propertyIDs[*n.RelatedItem] = struct{}{}
		}
	}

	usersByID := make(map[primitive.ObjectID]models.User)
	if len(userIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(userIDs))
		for id := range userIDs {
			ids = append(ids, id)
		}
		users, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	propertiesByID := make(map[primitive.ObjectID]models.Property)
	if len(propertyIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(propertyIDs))
		for id := range propertyIDs {
			ids = append(ids, id)
		}
		properties, err := s.properties.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range properties {
			propertiesByID[p.ID] = p
		}
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		v := NotificationView{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			ReadBy:    n.ReadBy,
			CreatedAt: n.CreatedAt,
		}
		if withRecipients {
			for _, r := range n.Recipients {
				if u, ok := usersByID[r]; ok {
					v.Recipients = append(v.Recipients, RecipientView{
						ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone,
					})
				}
			}
		}
		if n.RelatedItem != nil {
			if p, ok := propertiesByID[*n.RelatedItem]; ok {
				v.RelatedItem = &PropertyView{ID: p.ID, Title: p.Title, Type: p.Type, Price: p.Price}
			}
		}
		views = append(views, v)
	}
	return views, nil
}
