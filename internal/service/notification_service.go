package service

import (
	"context"
	"encoding/json"

	"kuruma/internal/models"
	"kuruma/internal/repository"
)

// NotificationService persists in-app notifications and mirrors them to FCM
// push when the user registered a device token.
type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, notifType, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, notifType, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u == nil || u.FCMToken == "" {
		return
	}
	_ = s.fcm.SendToUser(context.Background(), u.FCMToken, notifType, title, body, data)
}

func (s *NotificationService) NotifyOrderPaid(userID, orderID uint, amountCents int64) error {
	return s.Notify(userID, "ORDER_PAID", "Order paid",
		"Your wallet payment went through. We'll be in touch about delivery.",
		map[string]interface{}{"order_id": orderID, "amount_cents": amountCents})
}

func (s *NotificationService) NotifyOrderConfirmed(userID, orderID uint) error {
	return s.Notify(userID, "ORDER_CONFIRMED", "Payment confirmed",
		"Your payment has been verified and your order is being fulfilled.",
		map[string]interface{}{"order_id": orderID})
}

func (s *NotificationService) NotifyDepositConfirmed(userID, depositID uint, amountCents int64) error {
	return s.Notify(userID, "DEPOSIT_CONFIRMED", "Deposit completed",
		"Your wallet has been credited.",
		map[string]interface{}{"deposit_id": depositID, "amount_cents": amountCents})
}

func (s *NotificationService) NotifyEntryConfirmed(userID, entryID uint) error {
	return s.Notify(userID, "GIVEAWAY_ENTRY_CONFIRMED", "You're in the draw",
		"Your giveaway entry has been verified. Good luck!",
		map[string]interface{}{"entry_id": entryID})
}

func (s *NotificationService) NotifyWinner(userID, entryID uint, giveawayTitle string) error {
	return s.Notify(userID, "GIVEAWAY_WINNER", "Congratulations!",
		"You won the "+giveawayTitle+" giveaway. Our team will contact you.",
		map[string]interface{}{"entry_id": entryID})
}
